package knowledge

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeTime provides an injectable clock for deterministic testing.
type fakeTime struct {
	mu      sync.Mutex
	current time.Time
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}

// newTestKnowledgeStore returns a store with a frozen clock and sequential
// ids (id-1, id-2, ...) for deterministic assertions.
func newTestKnowledgeStore() (*Store, *fakeTime) {
	s := NewStore()
	ft := &fakeTime{current: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s.now = ft.Now
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s, ft
}

func validEntry() NewEntry {
	return NewEntry{
		Category: CategoryFAQ,
		Question: "How do I reset my password",
		Answer:   "Use the reset link on the sign-in page.",
		Keywords: []string{"password", "reset"},
	}
}

func TestStore_Add(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()

	e, err := store.Add(validEntry())
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if e.ID != "id-1" {
		t.Errorf("ID = %q, want %q", e.ID, "id-1")
	}
	if e.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set")
	}

	got, ok := store.Get(e.ID)
	if !ok {
		t.Fatal("Get() should find the added entry")
	}
	if got.Question != e.Question {
		t.Errorf("Question = %q, want %q", got.Question, e.Question)
	}
}

func TestStore_Add_Invalid(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()

	tests := []struct {
		name  string
		entry NewEntry
	}{
		{"bad category", NewEntry{Category: "nonsense", Question: "q", Answer: "a"}},
		{"empty question", NewEntry{Category: CategoryFAQ, Answer: "a"}},
		{"empty answer", NewEntry{Category: CategoryFAQ, Question: "q"}},
	}
	for _, tt := range tests {
		if _, err := store.Add(tt.entry); err == nil {
			t.Errorf("%s: Add() should fail", tt.name)
		}
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after failed adds", store.Len())
	}
}

func TestStore_Update(t *testing.T) {
	t.Parallel()

	store, ft := newTestKnowledgeStore()
	e, _ := store.Add(validEntry())

	ft.Advance(time.Minute)
	newAnswer := "Open settings and choose Reset Password."
	updated, err := store.Update(e.ID, Patch{Answer: &newAnswer})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Answer != newAnswer {
		t.Errorf("Answer = %q, want %q", updated.Answer, newAnswer)
	}
	if updated.Question != e.Question {
		t.Errorf("Question changed on partial update: %q", updated.Question)
	}
	if updated.ID != e.ID {
		t.Errorf("ID changed on update: %q", updated.ID)
	}
	if !updated.LastUpdated.After(e.LastUpdated) {
		t.Errorf("LastUpdated not advanced: %v vs %v", updated.LastUpdated, e.LastUpdated)
	}
}

func TestStore_Update_MonotonicStamp(t *testing.T) {
	t.Parallel()

	// With a frozen clock, successive updates must still advance LastUpdated.
	store, _ := newTestKnowledgeStore()
	e, _ := store.Add(validEntry())

	q := "Changed once"
	first, err := store.Update(e.ID, Patch{Question: &q})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	q2 := "Changed twice"
	second, err := store.Update(e.ID, Patch{Question: &q2})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if !first.LastUpdated.After(e.LastUpdated) {
		t.Error("first update should advance LastUpdated despite frozen clock")
	}
	if !second.LastUpdated.After(first.LastUpdated) {
		t.Error("second update should advance LastUpdated despite frozen clock")
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	q := "q"
	_, err := store.Update("missing", Patch{Question: &q})
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Update() error = %v, want ErrEntryNotFound", err)
	}
}

func TestStore_Update_InvalidMergeLeavesEntryIntact(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	e, _ := store.Add(validEntry())

	empty := ""
	if _, err := store.Update(e.ID, Patch{Question: &empty}); err == nil {
		t.Fatal("Update() with empty question should fail")
	}

	got, _ := store.Get(e.ID)
	if got.Question != e.Question {
		t.Errorf("failed update mutated the entry: %q", got.Question)
	}
}

func TestStore_Update_Reindexes(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	e, _ := store.Add(validEntry())

	cat := CategoryTroubleshooting
	kws := []string{"login"}
	if _, err := store.Update(e.ID, Patch{Category: &cat, Keywords: &kws}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got := store.ByCategory(CategoryFAQ); len(got) != 0 {
		t.Errorf("old category still lists the entry: %d", len(got))
	}
	if got := store.ByCategory(CategoryTroubleshooting); len(got) != 1 {
		t.Errorf("new category missing the entry: %d", len(got))
	}
	if got := store.FindByKeywords([]string{"password"}); len(got) != 0 {
		t.Errorf("old keyword still resolves: %d", len(got))
	}
	if got := store.FindByKeywords([]string{"login"}); len(got) != 1 {
		t.Errorf("new keyword does not resolve: %d", len(got))
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	e, _ := store.Add(validEntry())

	if !store.Delete(e.ID) {
		t.Fatal("Delete() = false for existing entry")
	}
	if store.Delete(e.ID) {
		t.Error("Delete() = true for already-deleted entry")
	}
	if _, ok := store.Get(e.ID); ok {
		t.Error("Get() found a deleted entry")
	}

	// Index buckets for the deleted entry must be gone entirely.
	stats := store.Stats()
	if stats.DistinctKeywords != 0 {
		t.Errorf("DistinctKeywords = %d, want 0 after delete", stats.DistinctKeywords)
	}
	if len(stats.ByCategory) != 0 {
		t.Errorf("ByCategory = %v, want empty after delete", stats.ByCategory)
	}
}

func TestStore_FindByKeywords(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	store.Add(NewEntry{Category: CategoryFAQ, Question: "q1", Answer: "a1", Keywords: []string{"Billing"}})
	store.Add(NewEntry{Category: CategoryFAQ, Question: "q2", Answer: "a2", Keywords: []string{"billing", "invoice"}})
	store.Add(NewEntry{Category: CategoryFAQ, Question: "q3", Answer: "a3", Keywords: []string{"export"}})

	// Lookup is normalized, the union has no duplicates, insertion order holds.
	got := store.FindByKeywords([]string{"BILLING!", "invoice"})
	if len(got) != 2 {
		t.Fatalf("FindByKeywords() returned %d entries, want 2", len(got))
	}
	if got[0].Question != "q1" || got[1].Question != "q2" {
		t.Errorf("order = [%s, %s], want [q1, q2]", got[0].Question, got[1].Question)
	}

	if got := store.FindByKeywords([]string{"?!"}); len(got) != 0 {
		t.Errorf("punctuation-only keyword matched %d entries", len(got))
	}
}

func TestStore_InsertionOrder(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	for i := 0; i < 5; i++ {
		store.Add(NewEntry{Category: CategoryFAQ, Question: fmt.Sprintf("q%d", i), Answer: "a"})
	}

	all := store.All()
	for i, e := range all {
		if want := fmt.Sprintf("q%d", i); e.Question != want {
			t.Errorf("All()[%d].Question = %q, want %q", i, e.Question, want)
		}
	}
}

func TestStore_BulkImport(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	report := store.BulkImport([]NewEntry{
		validEntry(),
		{Category: "bogus", Question: "q", Answer: "a"},
		{Category: CategoryProduct, Question: "q", Answer: "a"},
	})

	if report.Imported != 2 || report.Skipped != 1 {
		t.Errorf("report = %+v, want Imported=2 Skipped=1", report)
	}
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestStore_ExportRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	store.Add(validEntry())
	store.Add(NewEntry{Category: CategoryProduct, Question: "q2", Answer: "a2"})

	exported := store.Export()

	fresh, _ := newTestKnowledgeStore()
	report := fresh.BulkImport(exported)
	if report.Imported != 2 || report.Skipped != 0 {
		t.Fatalf("re-import report = %+v", report)
	}
	if fresh.Len() != store.Len() {
		t.Errorf("re-imported Len() = %d, want %d", fresh.Len(), store.Len())
	}
}

func TestStore_Clear(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	store.Add(validEntry())
	store.Clear()

	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Clear", store.Len())
	}
	stats := store.Stats()
	if stats.DistinctKeywords != 0 || len(stats.ByCategory) != 0 {
		t.Errorf("indexes not cleared: %+v", stats)
	}
}

func TestStore_ReturnedEntriesAreCopies(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()
	e, _ := store.Add(validEntry())

	got, _ := store.Get(e.ID)
	got.Keywords[0] = "mutated"

	again, _ := store.Get(e.ID)
	if again.Keywords[0] == "mutated" {
		t.Error("mutating a returned entry leaked into the store")
	}
}

func TestStore_Concurrent(t *testing.T) {
	t.Parallel()

	store, _ := newTestKnowledgeStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			store.Add(validEntry())
		}()
		go func() {
			defer wg.Done()
			store.All()
		}()
		go func() {
			defer wg.Done()
			store.Stats()
		}()
	}
	wg.Wait()

	if store.Len() != 20 {
		t.Errorf("Len() = %d, want 20", store.Len())
	}
}
