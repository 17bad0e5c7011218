// Package store is the in-memory last-known-good cache of the console. Each
// snapshot is keyed by a scope string (entity kind plus the query that
// produced it) and tagged with the sequence number of the refresh that
// fetched it; a snapshot older than what is already applied is discarded.
package store

import "sync"

// Entity is anything the store can hold.
type Entity interface {
	EntityID() int64
}

type snapshot[T Entity] struct {
	items []T
	seq   uint64
	// patched marks ids carrying a transient optimistic patch. Any Replace
	// wipes them: optimistic state never survives an authoritative refresh.
	patched map[int64]struct{}
}

// Table holds scope-keyed snapshots of one entity kind.
type Table[T Entity] struct {
	mu   sync.Mutex
	data map[string]*snapshot[T]
}

// NewTable constructs an empty Table.
func NewTable[T Entity]() *Table[T] {
	return &Table[T]{data: make(map[string]*snapshot[T])}
}

// Replace installs an authoritative snapshot for scope. It returns false and
// leaves the table untouched when seq is below the last-applied sequence for
// that scope, which is how late responses from superseded refreshes are
// dropped.
func (t *Table[T]) Replace(scope string, items []T, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.data[scope]; ok && seq < cur.seq {
		return false
	}
	copied := make([]T, len(items))
	copy(copied, items)
	t.data[scope] = &snapshot[T]{items: copied, seq: seq}
	return true
}

// Get returns the snapshot for scope, or ok=false when nothing was fetched
// for it yet. The returned slice is a copy; callers may not mutate the cache.
func (t *Table[T]) Get(scope string) ([]T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.data[scope]
	if !ok {
		return nil, false
	}
	out := make([]T, len(cur.items))
	copy(out, cur.items)
	return out, true
}

// One returns the item with the given id inside scope.
func (t *Table[T]) One(scope string, id int64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	cur, ok := t.data[scope]
	if !ok {
		return zero, false
	}
	for _, item := range cur.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	return zero, false
}

// Seq returns the last-applied sequence number for scope.
func (t *Table[T]) Seq(scope string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.data[scope]; ok {
		return cur.seq
	}
	return 0
}

// Find scans every cached scope for id and returns the first match along
// with the scope holding it. Used when an action needs an entity whose
// owning period is not known up front, e.g. the salary linked to a payment
// request.
func (t *Table[T]) Find(id int64) (T, string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	for scope, cur := range t.data {
		for _, item := range cur.items {
			if item.EntityID() == id {
				return item, scope, true
			}
		}
	}
	return zero, "", false
}

// PatchOne applies fn to the cached item with the given id. This is the
// optimistic-update path only: the patch lives until the next Replace on the
// scope, confirmed or not.
func (t *Table[T]) PatchOne(scope string, id int64, fn func(*T)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur, ok := t.data[scope]
	if !ok {
		return false
	}
	for i := range cur.items {
		if cur.items[i].EntityID() == id {
			fn(&cur.items[i])
			if cur.patched == nil {
				cur.patched = make(map[int64]struct{})
			}
			cur.patched[id] = struct{}{}
			return true
		}
	}
	return false
}
