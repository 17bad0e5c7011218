package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropaie/agropaie/internal/paie"
)

func salaryFixture(id int64, status paie.SalaryStatus) paie.Salary {
	return paie.Salary{ID: id, Employee: "Test", Status: status, Net: 1000}
}

func TestReplaceAndGet(t *testing.T) {
	table := NewTable[paie.Salary]()
	scope := paie.SalaryScope(3, 2025)

	_, ok := table.Get(scope)
	assert.False(t, ok, "empty table must report missing scope")

	require.True(t, table.Replace(scope, []paie.Salary{salaryFixture(1, paie.SalaryCalcule)}, 1))
	items, ok := table.Get(scope)
	require.True(t, ok)
	require.Len(t, items, 1)

	// Mutating the returned slice must not touch the cache.
	items[0].Status = paie.SalaryAnnule
	cached, _ := table.Get(scope)
	assert.Equal(t, paie.SalaryCalcule, cached[0].Status)
}

func TestReplaceDiscardsStaleSequence(t *testing.T) {
	table := NewTable[paie.Salary]()
	scope := paie.SalaryScope(3, 2025)

	require.True(t, table.Replace(scope, []paie.Salary{salaryFixture(1, paie.SalaryPaye)}, 5))
	// A response from an older refresh arriving late is dropped.
	assert.False(t, table.Replace(scope, []paie.Salary{salaryFixture(1, paie.SalaryCalcule)}, 3))

	cached, _ := table.Get(scope)
	assert.Equal(t, paie.SalaryPaye, cached[0].Status, "store must remain at sequence 5's content")
	assert.Equal(t, uint64(5), table.Seq(scope))
}

func TestScopesAreIsolated(t *testing.T) {
	table := NewTable[paie.Salary]()
	march := paie.SalaryScope(3, 2025)
	april := paie.SalaryScope(4, 2025)

	require.True(t, table.Replace(march, []paie.Salary{salaryFixture(1, paie.SalaryCalcule)}, 1))
	require.True(t, table.Replace(april, []paie.Salary{salaryFixture(2, paie.SalaryPaye)}, 1))

	m, _ := table.Get(march)
	a, _ := table.Get(april)
	require.Len(t, m, 1)
	require.Len(t, a, 1)
	assert.Equal(t, int64(1), m[0].ID)
	assert.Equal(t, int64(2), a[0].ID)
}

func TestPatchOneIsOverwrittenByReplace(t *testing.T) {
	table := NewTable[paie.Salary]()
	scope := paie.SalaryScope(3, 2025)
	require.True(t, table.Replace(scope, []paie.Salary{salaryFixture(1, paie.SalaryCalcule)}, 1))

	require.True(t, table.PatchOne(scope, 1, func(s *paie.Salary) { s.Processing = true }))
	patched, _ := table.One(scope, 1)
	assert.True(t, patched.Processing)

	// The next authoritative snapshot wins, confirmed or not.
	require.True(t, table.Replace(scope, []paie.Salary{salaryFixture(1, paie.SalaryCalcule)}, 2))
	after, _ := table.One(scope, 1)
	assert.False(t, after.Processing, "optimistic patches never survive a refresh")
}

func TestPatchOneMissing(t *testing.T) {
	table := NewTable[paie.Salary]()
	assert.False(t, table.PatchOne("salaries:2025-03", 9, func(s *paie.Salary) {}))
}

func TestFindAcrossScopes(t *testing.T) {
	table := NewTable[paie.Salary]()
	require.True(t, table.Replace(paie.SalaryScope(3, 2025), []paie.Salary{salaryFixture(1, paie.SalaryCalcule)}, 1))
	require.True(t, table.Replace(paie.SalaryScope(4, 2025), []paie.Salary{salaryFixture(2, paie.SalaryPaye)}, 1))

	got, scope, ok := table.Find(2)
	require.True(t, ok)
	assert.Equal(t, paie.SalaryScope(4, 2025), scope)
	assert.Equal(t, paie.SalaryPaye, got.Status)

	_, _, ok = table.Find(99)
	assert.False(t, ok)
}

func TestOverviewSlot(t *testing.T) {
	st := New()
	scope := paie.BudgetOverviewScope(2025)

	_, ok := st.Overview(scope)
	assert.False(t, ok)

	st.SetOverview(scope, paie.BudgetOverview{Year: 2025, Allocated: 500000})
	o, ok := st.Overview(scope)
	require.True(t, ok)
	assert.Equal(t, 500000.0, o.Allocated)
}
