package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"market-weekly/mirror"
	"market-weekly/models"
	"market-weekly/notify"
)

var errRemote = errors.New("remote unavailable")

// fakeGateway satisfies Gateway and notify.RemoteSink. With fail set,
// every call errors, simulating an unreachable remote store; the
// per-kind flags fail only that collection's bulk read.
type fakeGateway struct {
	fail          bool
	failInsights  bool
	failJournals  bool
	failNoteReads bool

	insights []models.MarketInsight
	journals []models.JournalEntry
	notes    []models.AppNotification
}

func (g *fakeGateway) ListInsights(ctx context.Context) ([]models.MarketInsight, error) {
	if g.fail || g.failInsights {
		return nil, errRemote
	}
	return g.insights, nil
}

func (g *fakeGateway) UpsertInsight(ctx context.Context, in models.MarketInsight) error {
	if g.fail {
		return errRemote
	}
	return nil
}

func (g *fakeGateway) DeleteInsight(ctx context.Context, id string) error {
	if g.fail {
		return errRemote
	}
	return nil
}

func (g *fakeGateway) ListJournals(ctx context.Context) ([]models.JournalEntry, error) {
	if g.fail || g.failJournals {
		return nil, errRemote
	}
	return g.journals, nil
}

func (g *fakeGateway) UpsertJournal(ctx context.Context, entry models.JournalEntry) error {
	if g.fail {
		return errRemote
	}
	return nil
}

func (g *fakeGateway) DeleteJournal(ctx context.Context, id string) error {
	if g.fail {
		return errRemote
	}
	return nil
}

func (g *fakeGateway) ListNotifications(ctx context.Context) ([]models.AppNotification, error) {
	if g.fail || g.failNoteReads {
		return nil, errRemote
	}
	return g.notes, nil
}

func (g *fakeGateway) UpsertNotification(ctx context.Context, n models.AppNotification) error {
	if g.fail {
		return errRemote
	}
	g.notes = append(g.notes, n)
	return nil
}

func (g *fakeGateway) DeleteNotification(ctx context.Context, id string) error {
	if g.fail {
		return errRemote
	}
	return nil
}

func (g *fakeGateway) MarkNotificationRead(ctx context.Context, id string) error {
	if g.fail {
		return errRemote
	}
	return nil
}

func (g *fakeGateway) ClearNotifications(ctx context.Context) error {
	if g.fail {
		return errRemote
	}
	return nil
}

func openTestMirror(t *testing.T) *mirror.Mirror {
	t.Helper()
	m, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	if err != nil {
		t.Fatalf("mirror.Open: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

// newTestStore builds a store over a throwaway mirror with a deterministic
// millisecond clock starting at 1_000_000.
func newTestStore(t *testing.T, remote *fakeGateway) (*Store, *mirror.Mirror) {
	t.Helper()
	m := openTestMirror(t)

	var gw Gateway
	var sink notify.RemoteSink
	if remote != nil {
		gw = remote
		sink = remote
	}

	s := New(gw, m, notify.NewEmitter(sink))
	clock := int64(1_000_000)
	s.nowMillis = func() int64 {
		clock++
		return clock
	}
	return s, m
}

func TestCreateInsightDefaults(t *testing.T) {
	s, m := newTestStore(t, nil)
	ctx := context.Background()

	created, err := s.CreateInsight(ctx, models.MarketInsight{
		Symbol:      "btc",
		Status:      models.StatusBullish,
		FocusPoints: "x",
		Strategy:    "y",
	})
	if err != nil {
		t.Fatalf("CreateInsight: %v", err)
	}

	if created.ID == "" {
		t.Error("expected a generated id")
	}
	if created.Symbol != "BTC" {
		t.Errorf("expected symbol normalized to BTC, got %q", created.Symbol)
	}
	if created.CompletionStatus != models.CompletionActive {
		t.Errorf("expected completion status active, got %q", created.CompletionStatus)
	}
	if created.UpdatedAt == 0 {
		t.Error("expected a stamped update time")
	}

	insights := s.Insights()
	if len(insights) != 1 {
		t.Fatalf("expected 1 insight, got %d", len(insights))
	}

	// The persisted snapshot reads back identically.
	var snapshot []models.MarketInsight
	found, err := m.Read(mirror.KindInsights, &snapshot)
	if err != nil || !found {
		t.Fatalf("mirror read: found=%v err=%v", found, err)
	}
	if len(snapshot) != 1 || snapshot[0] != created {
		t.Errorf("mirror snapshot mismatch: %+v", snapshot)
	}
}

func TestCreateInsightUniqueIDsAndPrepend(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	seen := make(map[string]bool)
	var lastID string
	for i := 0; i < 5; i++ {
		created, err := s.CreateInsight(ctx, models.MarketInsight{
			Symbol: fmt.Sprintf("SYM%d", i), FocusPoints: "f", Strategy: "s",
		})
		if err != nil {
			t.Fatalf("CreateInsight: %v", err)
		}
		if seen[created.ID] {
			t.Fatalf("duplicate id %s", created.ID)
		}
		seen[created.ID] = true
		lastID = created.ID
	}

	insights := s.Insights()
	if insights[0].ID != lastID {
		t.Error("expected the newest insight first")
	}
}

func TestUpdateInsightReplacesFields(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	created, _ := s.CreateInsight(ctx, models.MarketInsight{
		Symbol: "BTC", Status: models.StatusBullish, FocusPoints: "old", Strategy: "old",
		EntryLevel: "92k",
	})

	updated, err := s.UpdateInsight(ctx, models.MarketInsight{
		ID: created.ID, Symbol: "BTC", Status: models.StatusBullish,
		FocusPoints: "new", Strategy: "new",
	})
	if err != nil {
		t.Fatalf("UpdateInsight: %v", err)
	}

	if updated.ID != created.ID {
		t.Error("expected id preserved on update")
	}
	if updated.FocusPoints != "new" || updated.Strategy != "new" {
		t.Error("expected editable fields replaced")
	}
	if updated.EntryLevel != "" {
		t.Error("expected full replace, not a partial merge")
	}
	if updated.UpdatedAt <= created.UpdatedAt {
		t.Errorf("expected updatedAt to strictly increase: %d -> %d", created.UpdatedAt, updated.UpdatedAt)
	}
	if len(s.Insights()) != 1 {
		t.Error("expected in-place replacement")
	}
}

func TestUpdateInsightSameMillisecondStillAdvances(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.nowMillis = func() int64 { return 42 } // frozen clock
	ctx := context.Background()

	created, _ := s.CreateInsight(ctx, models.MarketInsight{Symbol: "BTC", FocusPoints: "f", Strategy: "s"})
	updated, err := s.UpdateInsight(ctx, models.MarketInsight{ID: created.ID, Symbol: "BTC", FocusPoints: "f2", Strategy: "s"})
	if err != nil {
		t.Fatalf("UpdateInsight: %v", err)
	}
	if updated.UpdatedAt <= created.UpdatedAt {
		t.Errorf("expected strictly increasing updatedAt under a frozen clock, got %d -> %d", created.UpdatedAt, updated.UpdatedAt)
	}
}

func TestUpdateInsightHonorsSuppliedTimestamp(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	created, _ := s.CreateInsight(ctx, models.MarketInsight{Symbol: "BTC", FocusPoints: "f", Strategy: "s"})

	backdated := created.UpdatedAt - 500
	updated, err := s.UpdateInsight(ctx, models.MarketInsight{
		ID: created.ID, Symbol: "BTC", FocusPoints: "f2", Strategy: "s",
		UpdatedAt: backdated,
	})
	if err != nil {
		t.Fatalf("UpdateInsight: %v", err)
	}
	if updated.UpdatedAt != backdated {
		t.Errorf("expected the supplied timestamp kept, got %d want %d", updated.UpdatedAt, backdated)
	}
}

func TestUpdateInsightNotFound(t *testing.T) {
	s, _ := newTestStore(t, nil)
	_, err := s.UpdateInsight(context.Background(), models.MarketInsight{ID: "ghost", Symbol: "X", FocusPoints: "f", Strategy: "s"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusChangeEmitsMarketNotification(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	created, _ := s.CreateInsight(ctx, models.MarketInsight{
		Symbol: "BTC", Status: models.StatusBullish, FocusPoints: "x", Strategy: "y",
	})

	_, err := s.UpdateInsight(ctx, models.MarketInsight{
		ID: created.ID, Symbol: "BTC", Status: models.StatusOscillating,
		FocusPoints: "x", Strategy: "y",
	})
	if err != nil {
		t.Fatalf("UpdateInsight: %v", err)
	}

	notes := s.Notifications()
	if len(notes) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(notes))
	}
	n := notes[0]
	if n.Type != models.NotificationMarket {
		t.Errorf("expected market notification, got %q", n.Type)
	}
	if !strings.Contains(n.Message, "bullish") || !strings.Contains(n.Message, "oscillating") {
		t.Errorf("expected message to mention both statuses, got %q", n.Message)
	}
	if !strings.Contains(n.Message, "BTC") {
		t.Errorf("expected message to name the symbol, got %q", n.Message)
	}
}

func TestUpdateWithoutStatusChangeEmitsNothing(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	created, _ := s.CreateInsight(ctx, models.MarketInsight{
		Symbol: "BTC", Status: models.StatusBullish, FocusPoints: "x", Strategy: "y",
	})
	if _, err := s.UpdateInsight(ctx, models.MarketInsight{
		ID: created.ID, Symbol: "BTC", Status: models.StatusBullish,
		FocusPoints: "edited", Strategy: "y",
	}); err != nil {
		t.Fatalf("UpdateInsight: %v", err)
	}

	if len(s.Notifications()) != 0 {
		t.Error("expected no notification for a non-status edit")
	}
}

func TestToggleCompletionCyclesAndWraps(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	created, _ := s.CreateInsight(ctx, models.MarketInsight{Symbol: "BTC", FocusPoints: "f", Strategy: "s"})

	want := []models.CompletionStatus{
		models.CompletionCompleted,
		models.CompletionInvalidated,
		models.CompletionActive,
		models.CompletionCompleted,
	}
	for i, expected := range want {
		updated, err := s.ToggleInsightCompletion(ctx, created.ID)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if updated.CompletionStatus != expected {
			t.Errorf("toggle %d: expected %q, got %q", i, expected, updated.CompletionStatus)
		}
	}

	notes := s.Notifications()
	if len(notes) != len(want) {
		t.Fatalf("expected %d system notifications, got %d", len(want), len(notes))
	}
	for _, n := range notes {
		if n.Type != models.NotificationSystem {
			t.Errorf("expected system notification, got %q", n.Type)
		}
	}
	if !strings.Contains(notes[0].Message, string(models.CompletionCompleted)) {
		t.Errorf("expected newest notification to name the new stage, got %q", notes[0].Message)
	}
}

func TestDeleteInsightMissingIDIsNoop(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	s.CreateInsight(ctx, models.MarketInsight{Symbol: "BTC", FocusPoints: "f", Strategy: "s"})
	if err := s.DeleteInsight(ctx, "ghost"); err != nil {
		t.Fatalf("DeleteInsight: %v", err)
	}
	if len(s.Insights()) != 1 {
		t.Error("expected collection unchanged after deleting an unknown id")
	}
}

func TestJournalsSortedDescForAllInsertOrders(t *testing.T) {
	dates := []int64{100, 200, 300}
	perms := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}

	for _, perm := range perms {
		perm := perm
		t.Run(fmt.Sprintf("order_%v", perm), func(t *testing.T) {
			s, _ := newTestStore(t, nil)
			ctx := context.Background()

			for _, idx := range perm {
				if _, err := s.CreateJournal(ctx, models.JournalEntry{
					Content: "c", Date: dates[idx],
				}); err != nil {
					t.Fatalf("CreateJournal: %v", err)
				}
			}

			got := s.Journals()
			for i := 1; i < len(got); i++ {
				if got[i-1].Date < got[i].Date {
					t.Fatalf("feed not descending: %d before %d", got[i-1].Date, got[i].Date)
				}
			}
		})
	}
}

func TestJournalCreateDefaultsAndNotification(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	created, err := s.CreateJournal(ctx, models.JournalEntry{Content: "market was quiet"})
	if err != nil {
		t.Fatalf("CreateJournal: %v", err)
	}
	if created.Type != models.EntryNote || created.Mood != models.MoodCalm {
		t.Errorf("expected defaults note/calm, got %q/%q", created.Type, created.Mood)
	}
	if created.Date == 0 {
		t.Error("expected creation time stamped")
	}

	notes := s.Notifications()
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}
	if notes[0].Type != models.NotificationNote {
		t.Errorf("expected note-typed notification, got %q", notes[0].Type)
	}
	if notes[0].Message != "market was quiet" {
		t.Errorf("expected message to carry the content, got %q", notes[0].Message)
	}
}

func TestJournalEditDoesNotEmit(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	created, _ := s.CreateJournal(ctx, models.JournalEntry{Content: "v1"})
	before := len(s.Notifications())

	if _, err := s.UpdateJournal(ctx, models.JournalEntry{ID: created.ID, Content: "v2", Date: created.Date}); err != nil {
		t.Fatalf("UpdateJournal: %v", err)
	}
	if len(s.Notifications()) != before {
		t.Error("expected no notification on edit")
	}
}

func TestJournalEditedDateResorts(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	first, _ := s.CreateJournal(ctx, models.JournalEntry{Content: "a", Date: 100})
	second, _ := s.CreateJournal(ctx, models.JournalEntry{Content: "b", Date: 200})

	// Move the older entry to the top of the feed.
	if _, err := s.UpdateJournal(ctx, models.JournalEntry{ID: first.ID, Content: "a", Date: 300}); err != nil {
		t.Fatalf("UpdateJournal: %v", err)
	}

	got := s.Journals()
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Errorf("expected re-sort after date edit, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestNotificationCapDropsOldest(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	var firstNoteID string
	for i := 0; i < maxNotifications+5; i++ {
		s.CreateJournal(ctx, models.JournalEntry{Content: fmt.Sprintf("entry %d", i)})
		if i == 0 {
			firstNoteID = s.Notifications()[0].ID
		}
	}

	notes := s.Notifications()
	if len(notes) != maxNotifications {
		t.Fatalf("expected inbox capped at %d, got %d", maxNotifications, len(notes))
	}
	for _, n := range notes {
		if n.ID == firstNoteID {
			t.Error("expected the oldest notification to be dropped")
		}
	}
}

func TestMarkReadIsMonotonic(t *testing.T) {
	s, _ := newTestStore(t, nil)
	ctx := context.Background()

	s.CreateJournal(ctx, models.JournalEntry{Content: "a"})
	s.CreateJournal(ctx, models.JournalEntry{Content: "b"})

	target := s.Notifications()[1].ID
	s.MarkNotificationRead(ctx, target)
	s.MarkNotificationRead(ctx, target) // repeat is harmless

	for _, n := range s.Notifications() {
		if n.ID == target && !n.IsRead {
			t.Error("expected notification to stay read")
		}
		if n.ID != target && n.IsRead {
			t.Error("expected other notifications untouched")
		}
	}
}

func TestClearNotifications(t *testing.T) {
	s, m := newTestStore(t, nil)
	ctx := context.Background()

	s.CreateJournal(ctx, models.JournalEntry{Content: "a"})
	s.ClearNotifications(ctx)

	if len(s.Notifications()) != 0 {
		t.Error("expected an empty inbox")
	}
	var snapshot []models.AppNotification
	if _, err := m.Read(mirror.KindNotifications, &snapshot); err != nil {
		t.Fatalf("mirror read: %v", err)
	}
	if len(snapshot) != 0 {
		t.Error("expected the mirrored inbox emptied too")
	}
}

func TestFailedRemoteWriteLeavesStateUntouched(t *testing.T) {
	remote := &fakeGateway{fail: true}
	s, m := newTestStore(t, remote)
	ctx := context.Background()

	_, err := s.CreateInsight(ctx, models.MarketInsight{Symbol: "BTC", FocusPoints: "x", Strategy: "y"})
	if err == nil {
		t.Fatal("expected the failed remote write to surface")
	}

	if len(s.Insights()) != 0 {
		t.Error("expected the in-memory collection untouched")
	}
	var snapshot []models.MarketInsight
	found, _ := m.Read(mirror.KindInsights, &snapshot)
	if found {
		t.Error("expected no mirror write after an aborted create")
	}
}

func TestFailedRemoteDeleteAborts(t *testing.T) {
	remote := &fakeGateway{}
	s, _ := newTestStore(t, remote)
	ctx := context.Background()

	created, err := s.CreateInsight(ctx, models.MarketInsight{Symbol: "BTC", FocusPoints: "x", Strategy: "y"})
	if err != nil {
		t.Fatalf("CreateInsight: %v", err)
	}

	remote.fail = true
	if err := s.DeleteInsight(ctx, created.ID); err == nil {
		t.Fatal("expected the failed remote delete to surface")
	}
	if len(s.Insights()) != 1 {
		t.Error("expected the insight still present after the aborted delete")
	}
}

func TestLoadUnconfiguredSeedsEmptyMirror(t *testing.T) {
	s, _ := newTestStore(t, nil)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Insights()) != len(models.SeedInsights()) {
		t.Errorf("expected the seed board, got %d insights", len(s.Insights()))
	}
	if len(s.Journals()) != 0 || len(s.Notifications()) != 0 {
		t.Error("expected only insights to be seeded")
	}
}

func TestLoadUnconfiguredPrefersMirror(t *testing.T) {
	s, m := newTestStore(t, nil)

	saved := []models.MarketInsight{{ID: "1", Symbol: "ETH", FocusPoints: "f", Strategy: "s", CompletionStatus: models.CompletionActive}}
	if err := m.Write(mirror.KindInsights, saved); err != nil {
		t.Fatalf("mirror write: %v", err)
	}

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s.Insights()
	if len(got) != 1 || got[0].Symbol != "ETH" {
		t.Errorf("expected the mirrored board, got %+v", got)
	}
}

func TestLoadRemoteSuccessOverwritesMirror(t *testing.T) {
	remote := &fakeGateway{
		insights: []models.MarketInsight{{ID: "r1", Symbol: "NVDA", FocusPoints: "f", Strategy: "s", UpdatedAt: 10, CompletionStatus: models.CompletionActive}},
		journals: []models.JournalEntry{{ID: "j1", Content: "c", Date: 5}},
	}
	s, m := newTestStore(t, remote)

	// Stale mirror content that must be replaced.
	m.Write(mirror.KindInsights, []models.MarketInsight{{ID: "stale", Symbol: "OLD", FocusPoints: "f", Strategy: "s"}})

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := s.Insights(); len(got) != 1 || got[0].ID != "r1" {
		t.Errorf("expected remote data authoritative, got %+v", got)
	}

	var snapshot []models.MarketInsight
	if _, err := m.Read(mirror.KindInsights, &snapshot); err != nil {
		t.Fatalf("mirror read: %v", err)
	}
	if len(snapshot) != 1 || snapshot[0].ID != "r1" {
		t.Errorf("expected the mirror overwritten with remote data, got %+v", snapshot)
	}
}

func TestLoadRemoteFailureFallsBackToMirror(t *testing.T) {
	remote := &fakeGateway{fail: true}
	s, m := newTestStore(t, remote)

	saved := []models.MarketInsight{{ID: "1", Symbol: "ETH", FocusPoints: "f", Strategy: "s"}}
	m.Write(mirror.KindInsights, saved)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load should recover via the mirror, got %v", err)
	}

	got := s.Insights()
	if len(got) != 1 || got[0].Symbol != "ETH" {
		t.Errorf("expected the mirrored board, got %+v", got)
	}
}

func TestLoadPartialRemoteFailureFallsBackEntirely(t *testing.T) {
	remote := &fakeGateway{
		failJournals: true,
		insights:     []models.MarketInsight{{ID: "r1", Symbol: "NVDA", FocusPoints: "f", Strategy: "s", CompletionStatus: models.CompletionActive}},
		notes:        []models.AppNotification{{ID: "rn1", Title: "remote"}},
	}
	s, m := newTestStore(t, remote)

	m.Write(mirror.KindInsights, []models.MarketInsight{{ID: "m1", Symbol: "ETH", FocusPoints: "f", Strategy: "s"}})
	m.Write(mirror.KindNotifications, []models.AppNotification{{ID: "mn1", Title: "mirrored"}})

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load should recover via the mirror, got %v", err)
	}

	// One failed fetch abandons all remote results, even the ones that
	// succeeded: every collection comes from the mirror.
	if got := s.Insights(); len(got) != 1 || got[0].ID != "m1" {
		t.Errorf("expected mirrored insights despite the remote read succeeding, got %+v", got)
	}
	if got := s.Journals(); len(got) != 0 {
		t.Errorf("expected no journals, got %+v", got)
	}
	if got := s.Notifications(); len(got) != 1 || got[0].ID != "mn1" {
		t.Errorf("expected mirrored notifications despite the remote read succeeding, got %+v", got)
	}
}

func TestLoadRemoteFailureDoesNotSeed(t *testing.T) {
	remote := &fakeGateway{fail: true}
	s, _ := newTestStore(t, remote)

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Insights()) != 0 {
		t.Error("expected no sample seeding on the configured fallback path")
	}
}
