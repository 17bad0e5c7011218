package store

import (
	"sync"

	"github.com/agropaie/agropaie/internal/paie"
)

// Store aggregates the typed tables the console works with. Only the sync
// scheduler (Replace) and the lifecycle controller (PatchOne) write to it.
type Store struct {
	Employees       *Table[paie.Employee]
	Presences       *Table[paie.Presence]
	Leaves          *Table[paie.LeaveRequest]
	Salaries        *Table[paie.Salary]
	PaymentRequests *Table[paie.PaymentRequest]
	BudgetRequests  *Table[paie.BudgetRequest]

	mu        sync.Mutex
	overviews map[string]paie.BudgetOverview
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		Employees:       NewTable[paie.Employee](),
		Presences:       NewTable[paie.Presence](),
		Leaves:          NewTable[paie.LeaveRequest](),
		Salaries:        NewTable[paie.Salary](),
		PaymentRequests: NewTable[paie.PaymentRequest](),
		BudgetRequests:  NewTable[paie.BudgetRequest](),
		overviews:       make(map[string]paie.BudgetOverview),
	}
}

// SetOverview installs the server-computed budget aggregate for a scope.
// The overview is replaced whole; the console never derives it locally.
func (s *Store) SetOverview(scope string, o paie.BudgetOverview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overviews[scope] = o
}

// Overview returns the cached budget aggregate for a scope.
func (s *Store) Overview(scope string) (paie.BudgetOverview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.overviews[scope]
	return o, ok
}
