package database

import (
	"fmt"

	"market-weekly/models"
)

// Row types mirror the remote schema column-for-column. Mapping between a
// row and its domain entity happens in exactly one place per kind, and a
// row missing required fields is rejected outright instead of producing a
// partially-populated entity.

type insightRow struct {
	ID               string `gorm:"primaryKey"`
	Symbol           string `gorm:"not null"`
	Category         string
	Status           string
	FocusPoints      string
	Strategy         string
	EntryLevel       string
	UpdatedAt        int64
	CompletionStatus string `gorm:"default:active"`
}

func (insightRow) TableName() string { return "insights" }

type journalRow struct {
	ID      string `gorm:"primaryKey"`
	Title   string
	Content string `gorm:"not null"`
	Mood    string
	Type    string
	Source  string
	Date    int64
}

func (journalRow) TableName() string { return "journals" }

type notificationRow struct {
	ID        string `gorm:"primaryKey"`
	Title     string
	Message   string
	Timestamp int64
	IsRead    bool `gorm:"default:false"`
	Type      string
}

func (notificationRow) TableName() string { return "notifications" }

func toInsightRow(in models.MarketInsight) insightRow {
	return insightRow{
		ID:               in.ID,
		Symbol:           in.Symbol,
		Category:         string(in.Category),
		Status:           string(in.Status),
		FocusPoints:      in.FocusPoints,
		Strategy:         in.Strategy,
		EntryLevel:       in.EntryLevel,
		UpdatedAt:        in.UpdatedAt,
		CompletionStatus: string(in.CompletionStatus),
	}
}

func fromInsightRow(row insightRow) (models.MarketInsight, error) {
	if row.ID == "" || row.Symbol == "" || row.FocusPoints == "" || row.Strategy == "" {
		return models.MarketInsight{}, fmt.Errorf("insight row %q is missing required fields", row.ID)
	}
	return models.MarketInsight{
		ID:               row.ID,
		Symbol:           row.Symbol,
		Category:         models.Category(row.Category),
		Status:           models.AssetStatus(row.Status),
		FocusPoints:      row.FocusPoints,
		Strategy:         row.Strategy,
		EntryLevel:       row.EntryLevel,
		UpdatedAt:        row.UpdatedAt,
		CompletionStatus: models.CompletionStatus(row.CompletionStatus),
	}, nil
}

func toJournalRow(entry models.JournalEntry) journalRow {
	return journalRow{
		ID:      entry.ID,
		Title:   entry.Title,
		Content: entry.Content,
		Mood:    string(entry.Mood),
		Type:    string(entry.Type),
		Source:  entry.Source,
		Date:    entry.Date,
	}
}

func fromJournalRow(row journalRow) (models.JournalEntry, error) {
	if row.ID == "" || row.Content == "" {
		return models.JournalEntry{}, fmt.Errorf("journal row %q is missing required fields", row.ID)
	}
	return models.JournalEntry{
		ID:      row.ID,
		Title:   row.Title,
		Content: row.Content,
		Mood:    models.MarketMood(row.Mood),
		Type:    models.EntryType(row.Type),
		Source:  row.Source,
		Date:    row.Date,
	}, nil
}

func toNotificationRow(n models.AppNotification) notificationRow {
	return notificationRow{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: n.Timestamp,
		IsRead:    n.IsRead,
		Type:      string(n.Type),
	}
}

func fromNotificationRow(row notificationRow) (models.AppNotification, error) {
	if row.ID == "" {
		return models.AppNotification{}, fmt.Errorf("notification row is missing an id")
	}
	return models.AppNotification{
		ID:        row.ID,
		Title:     row.Title,
		Message:   row.Message,
		Timestamp: row.Timestamp,
		IsRead:    row.IsRead,
		Type:      models.NotificationType(row.Type),
	}, nil
}
