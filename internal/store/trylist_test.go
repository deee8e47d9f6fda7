package store

import (
	"testing"
	"time"

	"github.com/trailhead-app/trailhead/internal/database"
	"github.com/trailhead-app/trailhead/internal/model"
)

func setupTryListTestDB(t *testing.T) (*TryListStore, *ProgressStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTryListStore(db), NewProgressStore(db)
}

func TestTryListCreateAndGet(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	sourceID := int64(7)
	item, err := ts.Create("sess-1", "Shadow a designer", "Spend a day observing", model.ItemTypeCareer, "1 day", 20, &sourceID)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.Title != "Shadow a designer" {
		t.Errorf("title = %q, want %q", item.Title, "Shadow a designer")
	}
	if item.ItemType != model.ItemTypeCareer {
		t.Errorf("item_type = %q, want %q", item.ItemType, model.ItemTypeCareer)
	}
	if item.XPValue != 20 {
		t.Errorf("xp_value = %d, want 20", item.XPValue)
	}
	if item.SourceID == nil || *item.SourceID != 7 {
		t.Errorf("source_id = %v, want 7", item.SourceID)
	}
	if item.IsCompleted {
		t.Error("new item should not be completed")
	}
	if item.CompletedAt != nil {
		t.Error("new item should have nil completed_at")
	}

	got, err := ts.GetByID("sess-1", item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got == nil || got.Title != "Shadow a designer" {
		t.Errorf("got = %+v, want title %q", got, "Shadow a designer")
	}
}

func TestTryListGetByIDNotFound(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	got, err := ts.GetByID("sess-1", 9999)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent item")
	}
}

func TestTryListCrossSessionLooksLikeNotFound(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	item, err := ts.Create("sess-a", "Custom task", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	// Another session asking for the same id gets the same answer as a
	// missing row.
	got, err := ts.GetByID("sess-b", item.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got != nil {
		t.Error("expected nil for item owned by another session")
	}

	gotItem, gotProg, xp, err := ts.SetCompletion("sess-b", item.ID, true, time.Now())
	if err != nil {
		t.Fatalf("set completion: %v", err)
	}
	if gotItem != nil || gotProg != nil || xp != 0 {
		t.Errorf("cross-session completion = (%v, %v, %d), want (nil, nil, 0)", gotItem, gotProg, xp)
	}
}

func TestTryListOrderNewestFirst(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	first, _ := ts.Create("sess-1", "First", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	second, _ := ts.Create("sess-1", "Second", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	third, _ := ts.Create("sess-1", "Third", "", model.ItemTypeCustom, "1-2 hours", 10, nil)

	items, err := ts.List("sess-1")
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	// Rows created within the same second share created_at, so the id
	// tiebreaker must hold the order.
	if items[0].ID != third.ID || items[1].ID != second.ID || items[2].ID != first.ID {
		t.Errorf("order = [%d %d %d], want [%d %d %d]",
			items[0].ID, items[1].ID, items[2].ID, third.ID, second.ID, first.ID)
	}
}

func TestSetCompletionAwardsXP(t *testing.T) {
	ts, ps := setupTryListTestDB(t)

	item, _ := ts.Create("sess-1", "Try pottery", "", model.ItemTypeHobby, "1-2 hours", 10, nil)

	got, prog, xp, err := ts.SetCompletion("sess-1", item.ID, true, time.Now())
	if err != nil {
		t.Fatalf("set completion: %v", err)
	}
	if !got.IsCompleted {
		t.Error("item should be completed")
	}
	if got.CompletedAt == nil {
		t.Error("completed item should have completed_at set")
	}
	if xp != 10 {
		t.Errorf("xp_gained = %d, want 10", xp)
	}
	if prog.TotalXP != 10 {
		t.Errorf("total_xp = %d, want 10", prog.TotalXP)
	}
	if prog.TasksCompleted != 1 {
		t.Errorf("tasks_completed = %d, want 1", prog.TasksCompleted)
	}
	if prog.StreakDays != 1 {
		t.Errorf("streak_days = %d, want 1", prog.StreakDays)
	}
	if prog.LastActivityDate == nil {
		t.Error("last_activity_date should be set after completion")
	}

	// XP recorded on the ledger must match what the item carried at
	// completion time.
	stored, _ := ps.GetOrInit("sess-1")
	if stored.TotalXP != got.XPValue {
		t.Errorf("ledger xp = %d, want %d", stored.TotalXP, got.XPValue)
	}
}

func TestSetCompletionIdempotent(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	item, _ := ts.Create("sess-1", "Try pottery", "", model.ItemTypeHobby, "1-2 hours", 10, nil)

	_, _, _, err := ts.SetCompletion("sess-1", item.ID, true, time.Now())
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}

	// Repeating the same desired state is a no-op: no extra XP, no count.
	got, prog, xp, err := ts.SetCompletion("sess-1", item.ID, true, time.Now())
	if err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if xp != 0 {
		t.Errorf("repeat xp_gained = %d, want 0", xp)
	}
	if prog.TotalXP != 10 {
		t.Errorf("total_xp after repeat = %d, want 10", prog.TotalXP)
	}
	if prog.TasksCompleted != 1 {
		t.Errorf("tasks_completed after repeat = %d, want 1", prog.TasksCompleted)
	}
	if !got.IsCompleted {
		t.Error("item should remain completed")
	}
}

func TestSetCompletionRevoke(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	item, _ := ts.Create("sess-1", "Try pottery", "", model.ItemTypeHobby, "1-2 hours", 10, nil)

	_, _, _, err := ts.SetCompletion("sess-1", item.ID, true, time.Now())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, prog, xp, err := ts.SetCompletion("sess-1", item.ID, false, time.Now())
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if got.IsCompleted {
		t.Error("item should be pending again")
	}
	if got.CompletedAt != nil {
		t.Error("pending item should have nil completed_at")
	}
	// The delta is reported as a magnitude in both directions.
	if xp != 10 {
		t.Errorf("xp_gained = %d, want 10", xp)
	}
	if prog.TotalXP != 0 {
		t.Errorf("total_xp = %d, want 0", prog.TotalXP)
	}
	if prog.TasksCompleted != 0 {
		t.Errorf("tasks_completed = %d, want 0", prog.TasksCompleted)
	}
	// Streak survives an undo.
	if prog.StreakDays != 1 {
		t.Errorf("streak_days = %d, want 1", prog.StreakDays)
	}
}

func TestSetCompletionLifecycle(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	item, _ := ts.Create("sess-1", "Try pottery", "", model.ItemTypeHobby, "1-2 hours", 10, nil)

	// complete -> uncomplete -> complete again lands back where it started.
	ts.SetCompletion("sess-1", item.ID, true, time.Now())
	ts.SetCompletion("sess-1", item.ID, false, time.Now())
	got, prog, xp, err := ts.SetCompletion("sess-1", item.ID, true, time.Now())
	if err != nil {
		t.Fatalf("recomplete: %v", err)
	}
	if !got.IsCompleted {
		t.Error("item should be completed")
	}
	if xp != 10 {
		t.Errorf("xp_gained = %d, want 10", xp)
	}
	if prog.TotalXP != 10 {
		t.Errorf("total_xp = %d, want 10", prog.TotalXP)
	}
	if prog.TasksCompleted != 1 {
		t.Errorf("tasks_completed = %d, want 1", prog.TasksCompleted)
	}
}

func TestSetCompletionClampsAtZero(t *testing.T) {
	ts, ps := setupTryListTestDB(t)

	// Ledger starts at zero; uncompleting an item someone already reconciled
	// away must not drive counters negative.
	item, _ := ts.Create("sess-1", "Try pottery", "", model.ItemTypeHobby, "1-2 hours", 10, nil)
	ts.SetCompletion("sess-1", item.ID, true, time.Now())

	// Zero out the ledger behind the store's back.
	if _, _, err := ps.Reconcile("sess-1"); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	ts.db.Exec(`UPDATE user_progress SET total_xp = 0, tasks_completed = 0 WHERE session_id = 'sess-1'`)

	_, prog, _, err := ts.SetCompletion("sess-1", item.ID, false, time.Now())
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if prog.TotalXP != 0 {
		t.Errorf("total_xp = %d, want 0 (clamped)", prog.TotalXP)
	}
	if prog.TasksCompleted != 0 {
		t.Errorf("tasks_completed = %d, want 0 (clamped)", prog.TasksCompleted)
	}
}

func TestSetCompletionStreakAdvancesAcrossDays(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	a, _ := ts.Create("sess-1", "Day one", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	b, _ := ts.Create("sess-1", "Day two", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	c, _ := ts.Create("sess-1", "Same day", "", model.ItemTypeCustom, "1-2 hours", 10, nil)

	day1 := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC)

	_, prog, _, _ := ts.SetCompletion("sess-1", a.ID, true, day1)
	if prog.StreakDays != 1 {
		t.Fatalf("streak after day1 = %d, want 1", prog.StreakDays)
	}

	_, prog, _, _ = ts.SetCompletion("sess-1", b.ID, true, day2)
	if prog.StreakDays != 2 {
		t.Errorf("streak after day2 = %d, want 2", prog.StreakDays)
	}

	// Second completion on the same day holds the streak.
	_, prog, _, _ = ts.SetCompletion("sess-1", c.ID, true, day2.Add(4*time.Hour))
	if prog.StreakDays != 2 {
		t.Errorf("streak after same-day repeat = %d, want 2", prog.StreakDays)
	}
}

func TestSetCompletionStreakAdvancesInNonUTCZone(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	a, _ := ts.Create("sess-1", "Day one", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	b, _ := ts.Create("sess-1", "Day two", "", model.ItemTypeCustom, "1-2 hours", 10, nil)

	// last_activity_date round-trips as a bare date: written in the clock's
	// zone, read back at midnight UTC. A UTC-positive server zone must not
	// break consecutive-day detection.
	ist := time.FixedZone("IST", 5*3600+1800)
	day1 := time.Date(2025, 3, 10, 22, 0, 0, 0, ist)
	day2 := time.Date(2025, 3, 11, 6, 0, 0, 0, ist)

	_, prog, _, err := ts.SetCompletion("sess-1", a.ID, true, day1)
	if err != nil {
		t.Fatalf("complete day1: %v", err)
	}
	if prog.StreakDays != 1 {
		t.Fatalf("streak after day1 = %d, want 1", prog.StreakDays)
	}

	_, prog, _, err = ts.SetCompletion("sess-1", b.ID, true, day2)
	if err != nil {
		t.Fatalf("complete day2: %v", err)
	}
	if prog.StreakDays != 2 {
		t.Errorf("streak after day2 = %d, want 2", prog.StreakDays)
	}
}

func TestSetCompletionStreakResetsAfterGap(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	a, _ := ts.Create("sess-1", "Day one", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	b, _ := ts.Create("sess-1", "Much later", "", model.ItemTypeCustom, "1-2 hours", 10, nil)

	ts.SetCompletion("sess-1", a.ID, true, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	_, prog, _, err := ts.SetCompletion("sess-1", b.ID, true, time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("set completion: %v", err)
	}
	if prog.StreakDays != 1 {
		t.Errorf("streak after gap = %d, want 1", prog.StreakDays)
	}
}

func TestTryListStats(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	a, _ := ts.Create("sess-1", "A", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	ts.Create("sess-1", "B", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	ts.Create("sess-1", "C", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	ts.Create("sess-other", "Other", "", model.ItemTypeCustom, "1-2 hours", 10, nil)

	ts.SetCompletion("sess-1", a.ID, true, time.Now())

	stats, err := ts.Stats("sess-1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TryListCount != 3 {
		t.Errorf("try_list_count = %d, want 3", stats.TryListCount)
	}
	if stats.CompletedCount != 1 {
		t.Errorf("completed_count = %d, want 1", stats.CompletedCount)
	}
	if stats.PendingCount != 2 {
		t.Errorf("pending_count = %d, want 2", stats.PendingCount)
	}
}

func TestTryListRecent(t *testing.T) {
	ts, _ := setupTryListTestDB(t)

	for i := 0; i < 7; i++ {
		ts.Create("sess-1", "Item", "", model.ItemTypeCustom, "1-2 hours", 10, nil)
	}

	items, err := ts.Recent("sess-1", 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("expected 5 recent items, got %d", len(items))
	}
}
