// Package cache holds the process-local, never-persisted tier of records.
package cache

import (
	"sync"

	"github.com/jask/jaskwallet/internal/record"
)

// Store maps record id to record. It is safe for concurrent use and keeps
// value copies, so readers observe either the previous or the new value of an
// entry, never a partial write.
type Store struct {
	mu        sync.RWMutex
	items     map[string]record.Record
	populated bool
}

// New returns an empty, unpopulated store.
func New() *Store {
	return &Store{items: make(map[string]record.Record)}
}

func (s *Store) Get(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.items[id]
	return r, ok
}

// All returns the entries in no particular order.
func (s *Store) All() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]record.Record, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	return out
}

func (s *Store) Put(r record.Record) {
	s.mu.Lock()
	s.items[r.ID] = r
	s.mu.Unlock()
}

// Update applies fn to the entry for id under the write lock and returns the
// stored result. ok is false when id is unknown.
func (s *Store) Update(id string, fn func(*record.Record)) (record.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return record.Record{}, false
	}
	fn(&r)
	s.items[id] = r
	return r, true
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// RemoveWhere deletes every entry matching pred and returns how many went.
func (s *Store) RemoveWhere(pred func(record.Record) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, r := range s.items {
		if pred(r) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// Clear drops every entry. The populated flag is left as is.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = make(map[string]record.Record)
	s.mu.Unlock()
}

// Replace swaps the whole content for list and marks the store populated.
func (s *Store) Replace(list []record.Record) {
	items := make(map[string]record.Record, len(list))
	for _, r := range list {
		items[r.ID] = r
	}
	s.mu.Lock()
	s.items = items
	s.populated = true
	s.mu.Unlock()
}

// Populated reports whether a full-set refresh has ever succeeded.
func (s *Store) Populated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.populated
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
