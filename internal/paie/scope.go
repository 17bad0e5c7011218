package paie

import "fmt"

// Scope keys tie a cached snapshot to the query that produced it, so that
// switching period or date can never surface cross-period data. The format
// is "<collection>:<qualifier>", e.g. "salaries:2025-03".

func SalaryScope(month, year int) string {
	return fmt.Sprintf("salaries:%04d-%02d", year, month)
}

func EmployeeScope() string { return "employees:all" }

func PresenceScope(date string) string {
	return "presences:" + date
}

func LeaveScope(status RequestStatus) string {
	if status == "" {
		return "leaves:all"
	}
	return "leaves:" + string(status)
}

func PaymentRequestScope(status RequestStatus) string {
	if status == "" {
		return "payment-requests:all"
	}
	return "payment-requests:" + string(status)
}

func BudgetRequestScope(status RequestStatus) string {
	if status == "" {
		return "budget-requests:all"
	}
	return "budget-requests:" + string(status)
}

func BudgetOverviewScope(year int) string {
	return fmt.Sprintf("budget-overview:%04d", year)
}
