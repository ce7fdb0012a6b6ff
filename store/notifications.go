package store

import (
	"context"
	"log"

	"market-weekly/mirror"
	"market-weekly/models"
)

// Notifications returns a copy of the inbox, newest first.
func (s *Store) Notifications() []models.AppNotification {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()
	out := make([]models.AppNotification, len(s.notes))
	copy(out, s.notes)
	return out
}

// appendNotification prepends an emitted notification, truncates the inbox
// to its cap and persists the snapshot. The remote insert has already been
// attempted by the emitter; this path cannot fail the triggering mutation.
func (s *Store) appendNotification(n models.AppNotification) {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()

	s.notes = append([]models.AppNotification{n}, s.notes...)
	if len(s.notes) > maxNotifications {
		s.notes = s.notes[:maxNotifications]
	}
	s.writeMirror(mirror.KindNotifications, s.notes)
}

// MarkNotificationRead flips is_read for one notification. The flag is
// monotonic: it never transitions back to unread. The remote write is
// best-effort; the local flip always applies.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()

	if s.remote != nil {
		if err := s.remote.MarkNotificationRead(ctx, id); err != nil {
			log.Printf("⚠️  Failed to mark notification %s read remotely: %v", id, err)
		}
	}

	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes[i].IsRead = true
			break
		}
	}
	s.writeMirror(mirror.KindNotifications, s.notes)
}

// DeleteNotification removes a single notification from the inbox.
func (s *Store) DeleteNotification(ctx context.Context, id string) {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()

	if s.remote != nil {
		if err := s.remote.DeleteNotification(ctx, id); err != nil {
			log.Printf("⚠️  Failed to delete notification %s remotely: %v", id, err)
		}
	}

	filtered := s.notes[:0:0]
	for _, n := range s.notes {
		if n.ID != id {
			filtered = append(filtered, n)
		}
	}
	s.notes = filtered
	s.writeMirror(mirror.KindNotifications, s.notes)
}

// ClearNotifications empties the inbox.
func (s *Store) ClearNotifications(ctx context.Context) {
	s.notesMu.Lock()
	defer s.notesMu.Unlock()

	if s.remote != nil {
		if err := s.remote.ClearNotifications(ctx); err != nil {
			log.Printf("⚠️  Failed to clear notifications remotely: %v", err)
		}
	}

	s.notes = nil
	s.writeMirror(mirror.KindNotifications, []models.AppNotification{})
}
