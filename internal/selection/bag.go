package selection

import (
	"sync"

	"github.com/agropaie/agropaie/internal/paie"
)

// Bag tracks the bulk-mode selection. A selection belongs to exactly one
// scope at a time: activating a different scope clears whatever the previous
// tab had selected, which is what keeps selections from leaking across tabs.
// Insertion order is preserved so bulk results can be rendered in the order
// the user picked the rows.
type Bag struct {
	mu    sync.Mutex
	scope string
	ids   map[int64]struct{}
	order []int64
}

// NewBag constructs an empty Bag.
func NewBag() *Bag {
	return &Bag{ids: make(map[int64]struct{})}
}

// Activate binds the bag to scope, clearing any selection held for another
// scope.
func (b *Bag) Activate(scope string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.scope != scope {
		b.scope = scope
		b.ids = make(map[int64]struct{})
		b.order = b.order[:0]
	}
}

// Scope returns the scope the bag is currently bound to.
func (b *Bag) Scope() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scope
}

// Toggle flips the selection state of id.
func (b *Bag) Toggle(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.ids[id]; ok {
		delete(b.ids, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
		return
	}
	b.ids[id] = struct{}{}
	b.order = append(b.order, id)
}

// ToggleAll implements "select all": if every visible id is already selected
// the whole selection is cleared, otherwise the selection becomes exactly the
// visible ids. Only currently visible rows are affected; this is what makes
// select-all respect the active filter.
func (b *Bag) ToggleAll(visible []int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	all := len(visible) > 0
	for _, id := range visible {
		if _, ok := b.ids[id]; !ok {
			all = false
			break
		}
	}
	b.ids = make(map[int64]struct{})
	b.order = b.order[:0]
	if all {
		return
	}
	for _, id := range visible {
		b.ids[id] = struct{}{}
		b.order = append(b.order, id)
	}
}

// Has reports whether id is selected.
func (b *Bag) Has(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.ids[id]
	return ok
}

// Count returns the number of selected ids, visible or not.
func (b *Bag) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ids)
}

// Selected returns the selected ids in the order they were picked.
func (b *Bag) Selected() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int64, len(b.order))
	copy(out, b.order)
	return out
}

// Clear empties the selection without changing the bound scope. Bulk mode is
// exited explicitly, after the outcome was rendered, never as a side effect
// of the action itself.
func (b *Bag) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ids = make(map[int64]struct{})
	b.order = b.order[:0]
}

// SelectedSalaryTotal sums the net amounts of selected salaries that are
// still visible and still payable. Ids hidden by the active filter stay
// selected but are left out of the footer total, as are rows whose status
// changed under the user.
func SelectedSalaryTotal(b *Bag, visible []paie.Salary) float64 {
	var total float64
	for _, s := range visible {
		if b.Has(s.ID) && s.Payable() {
			total += s.Net
		}
	}
	return total
}
