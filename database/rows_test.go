package database

import (
	"testing"

	"market-weekly/models"
)

func TestInsightRowMappingRoundTrip(t *testing.T) {
	in := models.MarketInsight{
		ID:               "abc",
		Symbol:           "BTC",
		Category:         models.CategoryCrypto,
		Status:           models.StatusBullish,
		FocusPoints:      "liquidity",
		Strategy:         "hold support",
		EntryLevel:       "92,000",
		UpdatedAt:        1234,
		CompletionStatus: models.CompletionActive,
	}

	got, err := fromInsightRow(toInsightRow(in))
	if err != nil {
		t.Fatalf("fromInsightRow: %v", err)
	}
	if got != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, in)
	}
}

func TestInsightRowRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		row  insightRow
	}{
		{"missing id", insightRow{Symbol: "BTC", FocusPoints: "f", Strategy: "s"}},
		{"missing symbol", insightRow{ID: "1", FocusPoints: "f", Strategy: "s"}},
		{"missing focus points", insightRow{ID: "1", Symbol: "BTC", Strategy: "s"}},
		{"missing strategy", insightRow{ID: "1", Symbol: "BTC", FocusPoints: "f"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fromInsightRow(tt.row); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestJournalRowMappingRoundTrip(t *testing.T) {
	entry := models.JournalEntry{
		ID:      "j1",
		Title:   "Fed Minutes",
		Content: "hawkish",
		Mood:    models.MoodAlert,
		Type:    models.EntryNews,
		Source:  "https://example.com",
		Date:    99,
	}

	got, err := fromJournalRow(toJournalRow(entry))
	if err != nil {
		t.Fatalf("fromJournalRow: %v", err)
	}
	if got != entry {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, entry)
	}
}

func TestJournalRowRejectsMissingContent(t *testing.T) {
	if _, err := fromJournalRow(journalRow{ID: "j1"}); err == nil {
		t.Error("expected a validation error for empty content")
	}
}

func TestNotificationRowMappingRoundTrip(t *testing.T) {
	n := models.AppNotification{
		ID:        "n1",
		Title:     "Outlook revised",
		Message:   "BTC moved",
		Timestamp: 55,
		IsRead:    true,
		Type:      models.NotificationMarket,
	}

	got, err := fromNotificationRow(toNotificationRow(n))
	if err != nil {
		t.Fatalf("fromNotificationRow: %v", err)
	}
	if got != n {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, n)
	}

	if _, err := fromNotificationRow(notificationRow{}); err == nil {
		t.Error("expected a validation error for a row without an id")
	}
}
