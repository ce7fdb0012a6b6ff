package database

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"market-weekly/models"
)

// remoteNotificationLimit caps how many notifications a bulk read returns.
const remoteNotificationLimit = 50

// Repository exposes typed CRUD over the three content tables. Every
// method takes a context so callers control how long a remote round trip
// may run. Upserts are full-row replacements keyed by id; deleting an id
// that does not exist is not an error.
type Repository struct {
	db *Database
}

// NewRepository creates a repository over an established connection.
func NewRepository(db *Database) *Repository {
	return &Repository{db: db}
}

// InitSchema ensures the three required tables exist. It is idempotent and
// must succeed before any read or write is attempted; a failure here means
// nothing about the remote store can be trusted for the session.
func (r *Repository) InitSchema() error {
	err := r.db.db.AutoMigrate(
		&insightRow{},
		&journalRow{},
		&notificationRow{},
	)
	if err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	return nil
}

// upsertAll is insert-or-replace keyed by the row's primary key: on
// conflict every column except the id is overwritten. No partial-field
// merge.
var upsertAll = clause.OnConflict{
	Columns:   []clause.Column{{Name: "id"}},
	UpdateAll: true,
}

// ListInsights returns all insights, most recently updated first.
func (r *Repository) ListInsights(ctx context.Context) ([]models.MarketInsight, error) {
	var rows []insightRow
	if err := r.db.db.WithContext(ctx).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}

	insights := make([]models.MarketInsight, 0, len(rows))
	for _, row := range rows {
		in, err := fromInsightRow(row)
		if err != nil {
			return nil, err
		}
		insights = append(insights, in)
	}
	return insights, nil
}

// UpsertInsight inserts or fully replaces the insight with the same id.
func (r *Repository) UpsertInsight(ctx context.Context, in models.MarketInsight) error {
	row := toInsightRow(in)
	if err := r.db.db.WithContext(ctx).Clauses(upsertAll).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert insight %s: %w", in.ID, err)
	}
	return nil
}

// DeleteInsight removes the insight with the given id.
func (r *Repository) DeleteInsight(ctx context.Context, id string) error {
	if err := r.db.db.WithContext(ctx).Delete(&insightRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete insight %s: %w", id, err)
	}
	return nil
}

// ListJournals returns all journal entries, newest first.
func (r *Repository) ListJournals(ctx context.Context) ([]models.JournalEntry, error) {
	var rows []journalRow
	if err := r.db.db.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}

	entries := make([]models.JournalEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := fromJournalRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// UpsertJournal inserts or fully replaces the entry with the same id.
func (r *Repository) UpsertJournal(ctx context.Context, entry models.JournalEntry) error {
	row := toJournalRow(entry)
	if err := r.db.db.WithContext(ctx).Clauses(upsertAll).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert journal %s: %w", entry.ID, err)
	}
	return nil
}

// DeleteJournal removes the entry with the given id.
func (r *Repository) DeleteJournal(ctx context.Context, id string) error {
	if err := r.db.db.WithContext(ctx).Delete(&journalRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete journal %s: %w", id, err)
	}
	return nil
}

// ListNotifications returns the most recent notifications, capped at the
// remote read limit.
func (r *Repository) ListNotifications(ctx context.Context) ([]models.AppNotification, error) {
	var rows []notificationRow
	err := r.db.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(remoteNotificationLimit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notes := make([]models.AppNotification, 0, len(rows))
	for _, row := range rows {
		n, err := fromNotificationRow(row)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// UpsertNotification inserts or fully replaces the notification with the
// same id.
func (r *Repository) UpsertNotification(ctx context.Context, n models.AppNotification) error {
	row := toNotificationRow(n)
	if err := r.db.db.WithContext(ctx).Clauses(upsertAll).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert notification %s: %w", n.ID, err)
	}
	return nil
}

// DeleteNotification removes the notification with the given id.
func (r *Repository) DeleteNotification(ctx context.Context, id string) error {
	if err := r.db.db.WithContext(ctx).Delete(&notificationRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id, err)
	}
	return nil
}

// MarkNotificationRead flips is_read to true for the given id. The flag
// never transitions back.
func (r *Repository) MarkNotificationRead(ctx context.Context, id string) error {
	err := r.db.db.WithContext(ctx).
		Model(&notificationRow{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return nil
}

// ClearNotifications deletes every notification.
func (r *Repository) ClearNotifications(ctx context.Context) error {
	if err := r.db.db.WithContext(ctx).Where("1 = 1").Delete(&notificationRow{}).Error; err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
