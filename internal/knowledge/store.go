package knowledge

import (
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the entry table and both derived indexes. All mutations update
// the table and the indexes inside a single critical section, so readers
// never observe an entry listed under a stale category or keyword.
//
// Ordering: every entry carries an insertion sequence number. All, ByCategory,
// FindByKeywords, and search candidates are returned in insertion order,
// which also serves as the deterministic tie-break for equal search scores.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]*record
	byCategory map[Category]map[string]struct{}
	byKeyword  map[string]map[string]struct{}

	nextSeq      uint64
	lastMutation time.Time

	// now and newID are injectable for deterministic testing.
	now   func() time.Time
	newID func() string
}

type record struct {
	entry Entry
	seq   uint64
}

// NewStore creates an empty knowledge store.
func NewStore() *Store {
	return &Store{
		entries:    make(map[string]*record),
		byCategory: make(map[Category]map[string]struct{}),
		byKeyword:  make(map[string]map[string]struct{}),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// ImportReport summarizes a BulkImport: entries that fail validation are
// skipped, never fatal to the batch.
type ImportReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Stats is a point-in-time summary of the store.
type Stats struct {
	Entries          int              `json:"entries"`
	ByCategory       map[Category]int `json:"by_category"`
	DistinctKeywords int              `json:"distinct_keywords"`
	LastMutation     time.Time        `json:"last_mutation"`
}

// Add validates the entry, assigns a fresh id and timestamp, and inserts it
// into the table and both indexes.
func (s *Store) Add(n NewEntry) (Entry, error) {
	if err := n.Validate(); err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(n), nil
}

func (s *Store) addLocked(n NewEntry) Entry {
	stamp := s.stampLocked(time.Time{})
	e := Entry{
		ID:          s.newID(),
		Category:    n.Category,
		Question:    n.Question,
		Answer:      n.Answer,
		Keywords:    slices.Clone(n.Keywords),
		LastUpdated: stamp,
	}

	s.entries[e.ID] = &record{entry: e, seq: s.nextSeq}
	s.nextSeq++
	s.indexLocked(e)
	s.lastMutation = stamp

	return copyEntry(e)
}

// Update merges the non-nil patch fields into the entry and stamps a new
// LastUpdated strictly greater than the previous one. Old index associations
// are purged before the new ones are established. Returns ErrEntryNotFound
// on a miss, with no side effects.
func (s *Store) Update(id string, p Patch) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}

	merged := rec.entry
	if p.Category != nil {
		merged.Category = *p.Category
	}
	if p.Question != nil {
		merged.Question = *p.Question
	}
	if p.Answer != nil {
		merged.Answer = *p.Answer
	}
	if p.Keywords != nil {
		merged.Keywords = slices.Clone(*p.Keywords)
	}
	if err := (NewEntry{
		Category: merged.Category,
		Question: merged.Question,
		Answer:   merged.Answer,
		Keywords: merged.Keywords,
	}).Validate(); err != nil {
		return Entry{}, err
	}

	// Remove old associations, apply the change, add new associations —
	// all under the same lock so the indexes never go stale.
	s.unindexLocked(rec.entry)
	merged.LastUpdated = s.stampLocked(rec.entry.LastUpdated)
	rec.entry = merged
	s.indexLocked(merged)
	s.lastMutation = merged.LastUpdated

	return copyEntry(merged), nil
}

// Delete removes the entry and all its index associations. The return value
// reports whether an entry existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[id]
	if !ok {
		return false
	}

	s.unindexLocked(rec.entry)
	delete(s.entries, id)
	s.lastMutation = s.stampLocked(s.lastMutation)
	return true
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return copyEntry(rec.entry), true
}

// All returns every entry in insertion order.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(nil)
}

// ByCategory returns the entries of the given category in insertion order.
func (s *Store) ByCategory(c Category) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectLocked(s.byCategory[c])
}

// FindByKeywords returns the union of keyword-index lookups for the given
// keywords, after normalization, without duplicates, in insertion order.
func (s *Store) FindByKeywords(keywords []string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]struct{})
	for _, kw := range keywords {
		norm := Normalize(kw)
		if norm == "" {
			continue
		}
		for id := range s.byKeyword[norm] {
			ids[id] = struct{}{}
		}
	}
	return s.collectLocked(ids)
}

// Clear empties the entry table and both indexes.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*record)
	s.byCategory = make(map[Category]map[string]struct{})
	s.byKeyword = make(map[string]map[string]struct{})
	s.lastMutation = s.stampLocked(s.lastMutation)
}

// BulkImport applies Add to each entry. Invalid entries are counted as
// skipped; the batch never aborts.
func (s *Store) BulkImport(entries []NewEntry) ImportReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report ImportReport
	for _, n := range entries {
		if err := n.Validate(); err != nil {
			report.Skipped++
			continue
		}
		s.addLocked(n)
		report.Imported++
	}
	return report
}

// Export returns every entry as the plain importable shape, in insertion
// order. Export followed by BulkImport on a fresh store reproduces the
// content (with new ids and timestamps).
func (s *Store) Export() []NewEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.collectLocked(nil)
	out := make([]NewEntry, 0, len(all))
	for _, e := range all {
		out = append(out, NewEntry{
			Category: e.Category,
			Question: e.Question,
			Answer:   e.Answer,
			Keywords: slices.Clone(e.Keywords),
		})
	}
	return out
}

// Stats returns entry and keyword counts plus the most recent mutation time.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byCat := make(map[Category]int, len(s.byCategory))
	for cat, ids := range s.byCategory {
		byCat[cat] = len(ids)
	}
	return Stats{
		Entries:          len(s.entries),
		ByCategory:       byCat,
		DistinctKeywords: len(s.byKeyword),
		LastMutation:     s.lastMutation,
	}
}

// Len returns the total number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// indexLocked establishes the entry's category and keyword associations.
func (s *Store) indexLocked(e Entry) {
	ids, ok := s.byCategory[e.Category]
	if !ok {
		ids = make(map[string]struct{})
		s.byCategory[e.Category] = ids
	}
	ids[e.ID] = struct{}{}

	for _, kw := range e.Keywords {
		norm := Normalize(kw)
		if norm == "" {
			continue
		}
		kwIDs, ok := s.byKeyword[norm]
		if !ok {
			kwIDs = make(map[string]struct{})
			s.byKeyword[norm] = kwIDs
		}
		kwIDs[e.ID] = struct{}{}
	}
}

// unindexLocked purges the entry's associations. Empty buckets are removed
// so no empty category or keyword keys persist.
func (s *Store) unindexLocked(e Entry) {
	if ids, ok := s.byCategory[e.Category]; ok {
		delete(ids, e.ID)
		if len(ids) == 0 {
			delete(s.byCategory, e.Category)
		}
	}

	for _, kw := range e.Keywords {
		norm := Normalize(kw)
		if norm == "" {
			continue
		}
		if ids, ok := s.byKeyword[norm]; ok {
			delete(ids, e.ID)
			if len(ids) == 0 {
				delete(s.byKeyword, norm)
			}
		}
	}
}

// collectLocked gathers entries (optionally restricted to the given id set)
// sorted by insertion sequence. Returned entries are copies.
func (s *Store) collectLocked(ids map[string]struct{}) []Entry {
	var recs []*record
	if ids == nil {
		recs = make([]*record, 0, len(s.entries))
		for _, rec := range s.entries {
			recs = append(recs, rec)
		}
	} else {
		recs = make([]*record, 0, len(ids))
		for id := range ids {
			if rec, ok := s.entries[id]; ok {
				recs = append(recs, rec)
			}
		}
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	out := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, copyEntry(rec.entry))
	}
	return out
}

// stampLocked returns the current time, nudged forward by a nanosecond when
// the clock has not advanced past prev. Guarantees strict monotonicity of
// LastUpdated under rapid successive mutations.
func (s *Store) stampLocked(prev time.Time) time.Time {
	t := s.now()
	if !t.After(prev) {
		t = prev.Add(time.Nanosecond)
	}
	return t
}

func copyEntry(e Entry) Entry {
	e.Keywords = slices.Clone(e.Keywords)
	return e
}
