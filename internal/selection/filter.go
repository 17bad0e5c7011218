// Package selection derives the visible subset of a cached collection from
// the active filters and tracks multi-select state for bulk actions. Visible
// is a pure function: same snapshot and filters, same rows in the same order.
package selection

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agropaie/agropaie/internal/paie"
	"github.com/agropaie/agropaie/internal/store"
)

// Filters describes what the user narrowed a tab to. Zero values match
// everything.
type Filters struct {
	Search string
	Status string
	Role   string
}

// RowView is the filterable projection of one row.
type RowView struct {
	Name      string
	Matricule string
	Email     string
	Status    string
	Role      string
}

// Visible filters items and orders them by name with French collation so
// accented names sort where a French reader expects them, with the id as a
// deterministic tiebreak.
func Visible[T store.Entity](items []T, f Filters, view func(T) RowView) []T {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]T, 0, len(items))
	for _, item := range items {
		v := view(item)
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Role != "" && v.Role != f.Role {
			continue
		}
		if search != "" && !matches(v, search) {
			continue
		}
		out = append(out, item)
	}
	coll := collate.New(language.French, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := view(out[i]), view(out[j])
		if c := coll.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return out[i].EntityID() < out[j].EntityID()
	})
	return out
}

func matches(v RowView, search string) bool {
	return strings.Contains(strings.ToLower(v.Name), search) ||
		strings.Contains(strings.ToLower(v.Matricule), search) ||
		strings.Contains(strings.ToLower(v.Email), search)
}

// EmployeeView projects an employee for filtering.
func EmployeeView(e paie.Employee) RowView {
	return RowView{
		Name:      e.FullName,
		Matricule: e.Matricule,
		Email:     e.Email,
		Status:    string(e.Status),
		Role:      string(e.Role),
	}
}

// SalaryView projects a salary row for filtering.
func SalaryView(s paie.Salary) RowView {
	return RowView{
		Name:      s.Employee,
		Matricule: s.Matricule,
		Status:    string(s.Status),
	}
}

// PaymentRequestView projects a payment request for filtering.
func PaymentRequestView(r paie.PaymentRequest) RowView {
	return RowView{Name: r.Employee, Status: string(r.Status)}
}

// BudgetRequestView projects a budget request for filtering.
func BudgetRequestView(r paie.BudgetRequest) RowView {
	return RowView{Name: r.Category, Status: string(r.Status)}
}

// LeaveView projects a leave request for filtering.
func LeaveView(l paie.LeaveRequest) RowView {
	return RowView{Name: l.Employee, Status: string(l.Status)}
}

// PresenceView projects a presence row for filtering.
func PresenceView(p paie.Presence) RowView {
	return RowView{Name: p.Employee, Status: string(p.Status)}
}
