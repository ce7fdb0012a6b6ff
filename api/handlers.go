package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"market-weekly/models"
	"market-weekly/store"
	"market-weekly/views"
)

// ── Session ──

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"admin": s.session.IsAdmin()})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if !s.session.Login(req.Passphrase) {
		respondWithError(w, http.StatusUnauthorized, "wrong passphrase", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"admin": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.session.Logout()
	writeJSON(w, http.StatusOK, map[string]bool{"admin": false})
}

// ── Insights ──

// handleGetBoard returns the full page model: grouped active insights,
// the flat archived list and the timeline index, after filtering.
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sortMode := q.Get("sort")
	if sortMode == "" {
		sortMode = views.SortByCategory
	}

	insights := s.store.Insights()
	filtered := views.FilterInsights(insights, q.Get("q"), models.Category(q.Get("category")), q.Get("period"))
	active, archived := views.Partition(filtered)

	writeJSON(w, http.StatusOK, map[string]any{
		"groups":   views.GroupActive(active, sortMode),
		"archived": archived,
		"timeline": views.TimelineIndex(insights),
		"total":    len(insights),
	})
}

func (s *Server) handleGetInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filtered := views.FilterInsights(s.store.Insights(), q.Get("q"), models.Category(q.Get("category")), q.Get("period"))
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleCreateInsight(w http.ResponseWriter, r *http.Request) {
	var in models.MarketInsight
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if in.Symbol == "" || in.FocusPoints == "" || in.Strategy == "" {
		respondWithError(w, http.StatusBadRequest, "symbol, focusPoints and strategy are required", nil)
		return
	}

	created, err := s.store.CreateInsight(r.Context(), in)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "database sync failed, insight not saved", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateInsight(w http.ResponseWriter, r *http.Request) {
	var in models.MarketInsight
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	in.ID = r.PathValue("id")

	updated, err := s.store.UpdateInsight(r.Context(), in)
	if errors.Is(err, store.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "insight not found", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "database sync failed, insight not saved", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteInsight(w http.ResponseWriter, r *http.Request) {
	if !confirmGate(w, r) {
		return
	}
	if err := s.store.DeleteInsight(r.Context(), r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusBadGateway, "database sync failed, insight not deleted", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleCompletion(w http.ResponseWriter, r *http.Request) {
	updated, err := s.store.ToggleInsightCompletion(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "insight not found", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "database sync failed, status not changed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ── Journals ──

func (s *Server) handleGetJournals(w http.ResponseWriter, r *http.Request) {
	filtered := views.FilterJournals(s.store.Journals(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var entry models.JournalEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if entry.Content == "" {
		respondWithError(w, http.StatusBadRequest, "content is required", nil)
		return
	}

	created, err := s.store.CreateJournal(r.Context(), entry)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "database sync failed, entry not saved", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateJournal(w http.ResponseWriter, r *http.Request) {
	var entry models.JournalEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	entry.ID = r.PathValue("id")

	updated, err := s.store.UpdateJournal(r.Context(), entry)
	if errors.Is(err, store.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "journal entry not found", nil)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "database sync failed, entry not saved", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	if !confirmGate(w, r) {
		return
	}
	if err := s.store.DeleteJournal(r.Context(), r.PathValue("id")); err != nil {
		respondWithError(w, http.StatusBadGateway, "database sync failed, entry not deleted", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Notifications ──

func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Notifications())
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.store.MarkNotificationRead(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteNotification(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	s.store.ClearNotifications(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ── Summary ──

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	if !s.summarizer.Enabled() {
		respondWithError(w, http.StatusServiceUnavailable, "summary service not configured", nil)
		return
	}
	text := s.summarizer.MarketSummary(r.Context(), s.store.Insights())
	writeJSON(w, http.StatusOK, map[string]string{"summary": text})
}
