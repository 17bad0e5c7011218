package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropaie/agropaie/internal/paie"
)

func TestBagScopeSwitchClearsSelection(t *testing.T) {
	bag := NewBag()
	bag.Activate("salaries:2025-03")
	bag.Toggle(1)
	bag.Toggle(2)
	require.Equal(t, 2, bag.Count())

	// Entering bulk mode on another tab drops the previous tab's selection.
	bag.Activate("payment-requests:en_attente")
	assert.Zero(t, bag.Count())

	// Re-activating the same scope keeps it.
	bag.Toggle(7)
	bag.Activate("payment-requests:en_attente")
	assert.Equal(t, 1, bag.Count())
}

func TestBagPreservesSelectionOrder(t *testing.T) {
	bag := NewBag()
	bag.Activate("salaries:2025-03")
	bag.Toggle(5)
	bag.Toggle(2)
	bag.Toggle(9)
	assert.Equal(t, []int64{5, 2, 9}, bag.Selected())

	bag.Toggle(2) // deselect
	assert.Equal(t, []int64{5, 9}, bag.Selected())
}

func TestToggleAllRespectsVisibleSet(t *testing.T) {
	bag := NewBag()
	bag.Activate("salaries:2025-03")
	visible := []int64{1, 2, 3}

	bag.ToggleAll(visible)
	assert.Equal(t, []int64{1, 2, 3}, bag.Selected())

	// All visible selected: toggling again clears everything.
	bag.ToggleAll(visible)
	assert.Zero(t, bag.Count())

	// A partial selection becomes exactly the visible set, not a union of
	// everything ever loaded.
	bag.Toggle(99)
	bag.ToggleAll(visible)
	assert.Equal(t, []int64{1, 2, 3}, bag.Selected())
	assert.False(t, bag.Has(99))
}

func TestSelectedTotalSkipsHiddenAndUnpayable(t *testing.T) {
	bag := NewBag()
	bag.Activate("salaries:2025-03")
	bag.Toggle(1)
	bag.Toggle(2)
	bag.Toggle(3)

	// Id 2 got paid meanwhile, id 3 is hidden by the active filter. Both
	// stay selected but neither counts toward the footer total.
	visible := []paie.Salary{
		{ID: 1, Net: 2100, Status: paie.SalaryCalcule},
		{ID: 2, Net: 2750, Status: paie.SalaryPaye},
	}
	assert.Equal(t, 2100.0, SelectedSalaryTotal(bag, visible))
	assert.Equal(t, 3, bag.Count(), "hidden ids stay selected")
}
