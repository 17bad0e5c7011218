package paie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSalaryTransition(t *testing.T) {
	require.NoError(t, ValidateSalaryTransition(SalaryCalcule, SalaryPaye))
	require.NoError(t, ValidateSalaryTransition(SalaryCalcule, SalaryReporte))
	require.NoError(t, ValidateSalaryTransition(SalaryCalcule, SalaryAnnule))
	require.NoError(t, ValidateSalaryTransition(SalaryPaye, SalaryPaye))

	assert.ErrorIs(t, ValidateSalaryTransition(SalaryPaye, SalaryCalcule), ErrInvalidSalaryTransition)
	assert.ErrorIs(t, ValidateSalaryTransition(SalaryReporte, SalaryPaye), ErrInvalidSalaryTransition)
	assert.ErrorIs(t, ValidateSalaryTransition(SalaryAnnule, SalaryPaye), ErrInvalidSalaryTransition)
}

func TestValidateRequestTransition(t *testing.T) {
	require.NoError(t, ValidateRequestTransition(RequestEnAttente, RequestApprouve))
	require.NoError(t, ValidateRequestTransition(RequestEnAttente, RequestRejete))

	assert.ErrorIs(t, ValidateRequestTransition(RequestApprouve, RequestRejete), ErrInvalidRequestTransition)
	assert.ErrorIs(t, ValidateRequestTransition(RequestRejete, RequestApprouve), ErrInvalidRequestTransition)
	assert.ErrorIs(t, ValidateRequestTransition(RequestApprouve, RequestApprouve), ErrInvalidRequestTransition)
}

func TestPayableAndRemindable(t *testing.T) {
	s := Salary{Status: SalaryCalcule}
	assert.True(t, s.Payable())
	assert.False(t, s.Remindable())

	s.Processing = true
	assert.False(t, s.Payable(), "an in-flight row must not be payable again")

	s = Salary{Status: SalaryPaye}
	assert.False(t, s.Payable())
	assert.True(t, s.Remindable())

	s.ReceptionConfirmed = true
	assert.False(t, s.Remindable(), "reminder closes once reception is confirmed")
}

func TestUrgencyForWait(t *testing.T) {
	assert.Equal(t, UrgencyNormal, UrgencyForWait(0))
	assert.Equal(t, UrgencyNormal, UrgencyForWait(6))
	assert.Equal(t, UrgencyPrioritaire, UrgencyForWait(7))
	assert.Equal(t, UrgencyPrioritaire, UrgencyForWait(13))
	assert.Equal(t, UrgencyUrgent, UrgencyForWait(14))
	assert.Equal(t, UrgencyUrgent, UrgencyForWait(60))
}

func TestScopeKeys(t *testing.T) {
	assert.Equal(t, "salaries:2025-03", SalaryScope(3, 2025))
	assert.Equal(t, "presences:2025-03-14", PresenceScope("2025-03-14"))
	assert.Equal(t, "payment-requests:en_attente", PaymentRequestScope(RequestEnAttente))
	assert.Equal(t, "payment-requests:all", PaymentRequestScope(""))
	assert.Equal(t, "budget-overview:2025", BudgetOverviewScope(2025))
}
