package store

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"market-weekly/mirror"
	"market-weekly/models"
)

// Journals returns a copy of the journal feed, newest first.
func (s *Store) Journals() []models.JournalEntry {
	s.journalsMu.Lock()
	defer s.journalsMu.Unlock()
	out := make([]models.JournalEntry, len(s.journals))
	copy(out, s.journals)
	return out
}

func normalizeJournal(entry models.JournalEntry) models.JournalEntry {
	if entry.Mood == "" {
		entry.Mood = models.MoodCalm
	}
	if entry.Type == "" {
		entry.Type = models.EntryNote
	}
	return entry
}

func sortJournalsDesc(entries []models.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}

// CreateJournal assigns a fresh id, defaults the date to now, inserts the
// entry and re-sorts the feed. Creation (and only creation) emits a
// notification carrying the entry's type.
func (s *Store) CreateJournal(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	s.journalsMu.Lock()
	defer s.journalsMu.Unlock()

	entry = normalizeJournal(entry)
	entry.ID = uuid.NewString()
	entry.Date = s.stamp(entry.Date, 0)

	if s.remote != nil {
		if err := s.remote.UpsertJournal(ctx, entry); err != nil {
			return models.JournalEntry{}, err
		}
	}

	s.journals = append([]models.JournalEntry{entry}, s.journals...)
	sortJournalsDesc(s.journals)
	s.writeMirror(mirror.KindJournals, s.journals)

	n := s.emitter.JournalCreated(ctx, entry)
	s.appendNotification(n)
	return entry, nil
}

// UpdateJournal fully replaces the entry with the same id. The feed is
// re-sorted afterward since an edited date can change its position.
func (s *Store) UpdateJournal(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	s.journalsMu.Lock()
	defer s.journalsMu.Unlock()

	idx := -1
	for i, existing := range s.journals {
		if existing.ID == entry.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.JournalEntry{}, ErrNotFound
	}

	entry = normalizeJournal(entry)
	entry.Date = s.stamp(entry.Date, 0)

	if s.remote != nil {
		if err := s.remote.UpsertJournal(ctx, entry); err != nil {
			return models.JournalEntry{}, err
		}
	}

	s.journals[idx] = entry
	sortJournalsDesc(s.journals)
	s.writeMirror(mirror.KindJournals, s.journals)
	return entry, nil
}

// DeleteJournal removes the entry with the given id. The caller is
// responsible for the confirmation gate; deleting an unknown id is a
// no-op.
func (s *Store) DeleteJournal(ctx context.Context, id string) error {
	s.journalsMu.Lock()
	defer s.journalsMu.Unlock()

	if s.remote != nil {
		if err := s.remote.DeleteJournal(ctx, id); err != nil {
			return err
		}
	}

	filtered := s.journals[:0:0]
	for _, entry := range s.journals {
		if entry.ID != id {
			filtered = append(filtered, entry)
		}
	}
	s.journals = filtered
	s.writeMirror(mirror.KindJournals, s.journals)
	return nil
}
