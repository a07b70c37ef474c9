package hotkeys

import (
	"sync"
	"sync/atomic"
)

// generation pairs a table with its sequence number so both are published
// together.
type generation struct {
	table *Table
	seq   uint64
}

// Store holds the current Table. Readers never block and always observe one
// complete generation; Replace may be called from any goroutine.
type Store struct {
	current atomic.Pointer[generation]
	// writeMu orders concurrent Replace calls so sequence numbers match
	// publication order.
	writeMu sync.Mutex
}

// NewStore creates a store publishing initial as generation 1.
// A nil initial table is replaced by an empty one.
func NewStore(initial *Table) *Store {
	if initial == nil {
		initial = EmptyTable()
	}
	s := &Store{}
	s.current.Store(&generation{table: initial, seq: 1})
	return s
}

// Current returns the table of the latest completed Replace.
func (s *Store) Current() *Table {
	return s.current.Load().table
}

// Snapshot returns the current table together with its generation number.
func (s *Store) Snapshot() (*Table, uint64) {
	g := s.current.Load()
	return g.table, g.seq
}

// Replace publishes t as the next generation and returns its number.
func (s *Store) Replace(t *Table) uint64 {
	if t == nil {
		t = EmptyTable()
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	next := s.current.Load().seq + 1
	s.current.Store(&generation{table: t, seq: next})
	return next
}
