// Package store owns the in-memory content collections and the rules for
// keeping them consistent with the remote store and the local mirror.
//
// Every mutation follows the same fixed protocol: compute the new value,
// attempt the remote write (when configured), apply the change in memory,
// persist the full snapshot to the mirror, and only then emit any derived
// notification. A remote failure aborts the whole operation before any
// local state is touched, so a failed write is simply not applied.
package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"market-weekly/mirror"
	"market-weekly/models"
	"market-weekly/notify"
)

// maxNotifications caps the in-memory and mirrored notification inbox.
// Oldest entries are dropped first.
const maxNotifications = 30

// ErrNotFound is returned when an update targets an id that is not in the
// collection.
var ErrNotFound = errors.New("not found")

// Gateway is the remote persistence surface the store synchronizes
// against. *database.Repository satisfies it; tests substitute fakes.
type Gateway interface {
	ListInsights(ctx context.Context) ([]models.MarketInsight, error)
	UpsertInsight(ctx context.Context, in models.MarketInsight) error
	DeleteInsight(ctx context.Context, id string) error

	ListJournals(ctx context.Context) ([]models.JournalEntry, error)
	UpsertJournal(ctx context.Context, entry models.JournalEntry) error
	DeleteJournal(ctx context.Context, id string) error

	ListNotifications(ctx context.Context) ([]models.AppNotification, error)
	DeleteNotification(ctx context.Context, id string) error
	MarkNotificationRead(ctx context.Context, id string) error
	ClearNotifications(ctx context.Context) error
}

// Store is the authoritative in-memory state for a session. The three
// collections are independent: each has its own lock, and mutations on one
// never block the others. The per-collection lock also serializes rapid
// duplicate submissions against the same collection.
type Store struct {
	remote  Gateway // nil when no remote store is configured
	mirror  *mirror.Mirror
	emitter *notify.Emitter

	insightsMu sync.Mutex
	insights   []models.MarketInsight

	journalsMu sync.Mutex
	journals   []models.JournalEntry

	notesMu sync.Mutex
	notes   []models.AppNotification

	// nowMillis is swappable so tests can drive the clock.
	nowMillis func() int64
}

// New creates a store. remote may be nil; the store then runs entirely
// from the local mirror.
func New(remote Gateway, m *mirror.Mirror, emitter *notify.Emitter) *Store {
	return &Store{
		remote:    remote,
		mirror:    m,
		emitter:   emitter,
		nowMillis: func() int64 { return time.Now().UnixMilli() },
	}
}

// Configured reports whether a remote store is attached.
func (s *Store) Configured() bool {
	return s.remote != nil
}

// Load performs the initial bulk read. With a remote store configured the
// three collections are fetched concurrently and treated as all-or-nothing:
// on total success the mirror is overwritten and the remote data becomes
// authoritative, on any failure the store falls back entirely to the
// mirror. Without a remote store the mirror is read directly, seeding the
// insight board with the built-in samples when the mirror is empty.
func (s *Store) Load(ctx context.Context) error {
	if s.remote == nil {
		return s.loadFromMirror(true)
	}

	var (
		insights []models.MarketInsight
		journals []models.JournalEntry
		notes    []models.AppNotification
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		insights, err = s.remote.ListInsights(gctx)
		return err
	})
	g.Go(func() (err error) {
		journals, err = s.remote.ListJournals(gctx)
		return err
	})
	g.Go(func() (err error) {
		notes, err = s.remote.ListNotifications(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("⚠️  Remote fetch failed, falling back to local mirror: %v", err)
		return s.loadFromMirror(false)
	}

	s.insightsMu.Lock()
	s.insights = insights
	s.writeMirror(mirror.KindInsights, s.insights)
	s.insightsMu.Unlock()

	s.journalsMu.Lock()
	s.journals = journals
	s.writeMirror(mirror.KindJournals, s.journals)
	s.journalsMu.Unlock()

	s.notesMu.Lock()
	s.notes = notes
	s.writeMirror(mirror.KindNotifications, s.notes)
	s.notesMu.Unlock()

	return nil
}

func (s *Store) loadFromMirror(seedIfEmpty bool) error {
	s.insightsMu.Lock()
	found, err := s.mirror.Read(mirror.KindInsights, &s.insights)
	if err != nil {
		s.insightsMu.Unlock()
		return err
	}
	if !found && seedIfEmpty {
		s.insights = models.SeedInsights()
	}
	s.insightsMu.Unlock()

	s.journalsMu.Lock()
	if _, err := s.mirror.Read(mirror.KindJournals, &s.journals); err != nil {
		s.journalsMu.Unlock()
		return err
	}
	s.journalsMu.Unlock()

	s.notesMu.Lock()
	if _, err := s.mirror.Read(mirror.KindNotifications, &s.notes); err != nil {
		s.notesMu.Unlock()
		return err
	}
	s.notesMu.Unlock()

	return nil
}

// writeMirror persists a full collection snapshot. The mirror is a cache:
// a write failure is logged but does not undo an already-committed
// mutation.
func (s *Store) writeMirror(kind string, v any) {
	if err := s.mirror.Write(kind, v); err != nil {
		log.Printf("⚠️  Mirror write failed for %s: %v", kind, err)
	}
}

// stamp returns the timestamp for a mutation: the caller-supplied value
// when present, otherwise the current clock, advanced past prev so that a
// same-millisecond edit still moves the entity forward.
func (s *Store) stamp(supplied, prev int64) int64 {
	if supplied != 0 {
		return supplied
	}
	now := s.nowMillis()
	if now <= prev {
		return prev + 1
	}
	return now
}
