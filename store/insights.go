package store

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"market-weekly/mirror"
	"market-weekly/models"
)

// Insights returns a copy of the insight collection in its current order.
func (s *Store) Insights() []models.MarketInsight {
	s.insightsMu.Lock()
	defer s.insightsMu.Unlock()
	out := make([]models.MarketInsight, len(s.insights))
	copy(out, s.insights)
	return out
}

func normalizeInsight(in models.MarketInsight) models.MarketInsight {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	if in.Category == "" {
		in.Category = models.CategoryUSStock
	}
	if in.Status == "" {
		in.Status = models.StatusOscillating
	}
	if in.CompletionStatus == "" {
		in.CompletionStatus = models.CompletionActive
	}
	return in
}

// CreateInsight assigns a fresh id, stamps the update time and prepends
// the insight to the board.
func (s *Store) CreateInsight(ctx context.Context, in models.MarketInsight) (models.MarketInsight, error) {
	s.insightsMu.Lock()
	defer s.insightsMu.Unlock()

	in = normalizeInsight(in)
	in.ID = uuid.NewString()
	in.UpdatedAt = s.stamp(in.UpdatedAt, 0)

	if s.remote != nil {
		if err := s.remote.UpsertInsight(ctx, in); err != nil {
			return models.MarketInsight{}, err
		}
	}

	s.insights = append([]models.MarketInsight{in}, s.insights...)
	s.writeMirror(mirror.KindInsights, s.insights)
	return in, nil
}

// UpdateInsight replaces every editable field of the insight with the same
// id, keeping its position on the board. A caller-supplied update time is
// honored, so an edit can be backdated; otherwise the clock stamps it. A
// directional status change emits a market notification once the update
// has committed.
func (s *Store) UpdateInsight(ctx context.Context, in models.MarketInsight) (models.MarketInsight, error) {
	s.insightsMu.Lock()
	defer s.insightsMu.Unlock()

	idx := -1
	for i, existing := range s.insights {
		if existing.ID == in.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.MarketInsight{}, ErrNotFound
	}
	previous := s.insights[idx]

	in = normalizeInsight(in)
	in.UpdatedAt = s.stamp(in.UpdatedAt, previous.UpdatedAt)

	if s.remote != nil {
		if err := s.remote.UpsertInsight(ctx, in); err != nil {
			return models.MarketInsight{}, err
		}
	}

	s.insights[idx] = in
	s.writeMirror(mirror.KindInsights, s.insights)

	if previous.Status != in.Status {
		n := s.emitter.StatusChanged(ctx, in, previous.Status)
		s.appendNotification(n)
	}
	return in, nil
}

// DeleteInsight removes the insight with the given id. The caller is
// responsible for the confirmation gate; deleting an unknown id is a
// no-op.
func (s *Store) DeleteInsight(ctx context.Context, id string) error {
	s.insightsMu.Lock()
	defer s.insightsMu.Unlock()

	if s.remote != nil {
		if err := s.remote.DeleteInsight(ctx, id); err != nil {
			return err
		}
	}

	filtered := s.insights[:0:0]
	for _, in := range s.insights {
		if in.ID != id {
			filtered = append(filtered, in)
		}
	}
	s.insights = filtered
	s.writeMirror(mirror.KindInsights, s.insights)
	return nil
}

// ToggleInsightCompletion cycles the lifecycle stage of the insight and
// emits a system notification after the change commits.
func (s *Store) ToggleInsightCompletion(ctx context.Context, id string) (models.MarketInsight, error) {
	s.insightsMu.Lock()
	defer s.insightsMu.Unlock()

	idx := -1
	for i, existing := range s.insights {
		if existing.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.MarketInsight{}, ErrNotFound
	}

	updated := s.insights[idx]
	updated.CompletionStatus = updated.CompletionStatus.Next()
	updated.UpdatedAt = s.stamp(0, updated.UpdatedAt)

	if s.remote != nil {
		if err := s.remote.UpsertInsight(ctx, updated); err != nil {
			return models.MarketInsight{}, err
		}
	}

	s.insights[idx] = updated
	s.writeMirror(mirror.KindInsights, s.insights)

	n := s.emitter.CompletionToggled(ctx, updated)
	s.appendNotification(n)
	return updated, nil
}
