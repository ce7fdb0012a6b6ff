// Package notify derives in-app notifications from qualifying content
// mutations. Notifications are best-effort: a failed remote insert is
// logged and never blocks or rolls back the mutation that triggered it.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"market-weekly/models"
)

// RemoteSink receives best-effort copies of emitted notifications.
type RemoteSink interface {
	UpsertNotification(ctx context.Context, n models.AppNotification) error
}

// Emitter builds notifications for the three trigger events. It is never
// invoked directly by the UI; only the collection store calls it, and only
// after the triggering mutation has fully committed.
type Emitter struct {
	remote RemoteSink // nil when no remote store is configured
}

// NewEmitter creates an emitter. remote may be nil.
func NewEmitter(remote RemoteSink) *Emitter {
	return &Emitter{remote: remote}
}

// JournalCreated emits for a newly created journal entry (never for edits).
func (e *Emitter) JournalCreated(ctx context.Context, entry models.JournalEntry) models.AppNotification {
	title := entry.Title
	if title == "" {
		title = "Untitled entry"
	}
	message := entry.Content
	if message == "" {
		message = "No content"
	}
	return e.emit(ctx, fmt.Sprintf("[%s] %s", entry.Type, title), message, models.NotificationType(entry.Type))
}

// StatusChanged emits when an insight's directional status moves on update.
func (e *Emitter) StatusChanged(ctx context.Context, in models.MarketInsight, previous models.AssetStatus) models.AppNotification {
	message := fmt.Sprintf("%s moved from [%s] to [%s]", in.Symbol, previous, in.Status)
	return e.emit(ctx, "Outlook revised", message, models.NotificationMarket)
}

// CompletionToggled emits when an insight's lifecycle stage is cycled.
func (e *Emitter) CompletionToggled(ctx context.Context, in models.MarketInsight) models.AppNotification {
	message := fmt.Sprintf("%s is now marked [%s]", in.Symbol, in.CompletionStatus)
	return e.emit(ctx, "Insight lifecycle", message, models.NotificationSystem)
}

func (e *Emitter) emit(ctx context.Context, title, message string, typ models.NotificationType) models.AppNotification {
	n := models.AppNotification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Timestamp: time.Now().UnixMilli(),
		IsRead:    false,
		Type:      typ,
	}

	if e.remote != nil {
		if err := e.remote.UpsertNotification(ctx, n); err != nil {
			log.Printf("⚠️  Failed to sync notification %s: %v", n.ID, err)
		}
	}

	return n
}
