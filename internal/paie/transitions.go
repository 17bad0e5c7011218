package paie

import "errors"

var (
	// ErrInvalidSalaryTransition indicates a payment-status change not allowed.
	ErrInvalidSalaryTransition = errors.New("salary transition invalid")
	// ErrInvalidRequestTransition indicates a request-status change not allowed.
	ErrInvalidRequestTransition = errors.New("request transition invalid")
)

// ValidateSalaryTransition checks payment-status changes according to policy.
// Only calculé may move, and only to payé (explicit pay action), reporté or
// annulé. payé, reporté and annulé are terminal on this axis; the
// reception-confirmation flag moves independently.
func ValidateSalaryTransition(current, target SalaryStatus) error {
	if current == target {
		return nil
	}
	if current == SalaryCalcule {
		switch target {
		case SalaryPaye, SalaryReporte, SalaryAnnule:
			return nil
		}
	}
	return ErrInvalidSalaryTransition
}

// ValidateRequestTransition checks request-status changes: en_attente may be
// approved or rejected, both terminal.
func ValidateRequestTransition(current, target RequestStatus) error {
	if current == RequestEnAttente {
		switch target {
		case RequestApprouve, RequestRejete:
			return nil
		}
	}
	return ErrInvalidRequestTransition
}
