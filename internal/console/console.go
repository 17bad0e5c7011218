// Package console wires the resource client, entity store, sync scheduler
// and lifecycle controller together and binds each scope key to the API
// request that fills it. Screens call a Use* method when they load or switch
// period, then refresh through the scheduler.
package console

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/agropaie/agropaie/internal/api"
	"github.com/agropaie/agropaie/internal/lifecycle"
	"github.com/agropaie/agropaie/internal/paie"
	"github.com/agropaie/agropaie/internal/refresh"
	"github.com/agropaie/agropaie/internal/store"
)

// Console is the assembled client core.
type Console struct {
	API     *api.Client
	Store   *store.Store
	Sched   *refresh.Scheduler
	Control *lifecycle.Controller
	logger  *slog.Logger
}

// New assembles a Console around a resource client.
func New(client *api.Client, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	st := store.New()
	sched := refresh.New(logger)
	return &Console{
		API:     client,
		Store:   st,
		Sched:   sched,
		Control: lifecycle.New(client, st, sched, logger),
		logger:  logger,
	}
}

// Close tears the console down; in-flight results are discarded afterwards.
func (c *Console) Close() { c.Sched.Close() }

// UseSalaries binds the salary collection for one period and returns its
// scope key.
func (c *Console) UseSalaries(month, year int) string {
	scope := paie.SalaryScope(month, year)
	c.Sched.Register(scope, func(ctx context.Context, seq uint64) error {
		q := url.Values{}
		q.Set("month", strconv.Itoa(month))
		q.Set("year", strconv.Itoa(year))
		var items []paie.Salary
		if err := c.API.Get(ctx, "/manager/salaries", q, &items); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Store.Salaries.Replace(scope, items, seq)
		return nil
	})
	return scope
}

// UseEmployees binds the employee roster.
func (c *Console) UseEmployees() string {
	scope := paie.EmployeeScope()
	c.Sched.Register(scope, func(ctx context.Context, seq uint64) error {
		var items []paie.Employee
		if err := c.API.Get(ctx, "/manager/employees", nil, &items); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Store.Employees.Replace(scope, items, seq)
		return nil
	})
	return scope
}

// UsePresences binds the attendance list for one day.
func (c *Console) UsePresences(date string) string {
	scope := paie.PresenceScope(date)
	c.Sched.Register(scope, func(ctx context.Context, seq uint64) error {
		q := url.Values{}
		q.Set("date", date)
		var items []paie.Presence
		if err := c.API.Get(ctx, "/manager/presences", q, &items); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Store.Presences.Replace(scope, items, seq)
		return nil
	})
	return scope
}

// UseLeaves binds the leave-request list, optionally narrowed to a status.
func (c *Console) UseLeaves(status paie.RequestStatus) string {
	scope := paie.LeaveScope(status)
	c.Sched.Register(scope, func(ctx context.Context, seq uint64) error {
		var items []paie.LeaveRequest
		if err := c.API.Get(ctx, "/manager/conges", statusQuery(status), &items); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Store.Leaves.Replace(scope, items, seq)
		return nil
	})
	return scope
}

// UsePaymentRequests binds the payment-request list, optionally narrowed to
// a status.
func (c *Console) UsePaymentRequests(status paie.RequestStatus) string {
	scope := paie.PaymentRequestScope(status)
	c.Sched.Register(scope, func(ctx context.Context, seq uint64) error {
		var items []paie.PaymentRequest
		if err := c.API.Get(ctx, "/manager/payment-requests", statusQuery(status), &items); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Store.PaymentRequests.Replace(scope, items, seq)
		return nil
	})
	return scope
}

// UseBudgetRequests binds the budget-request list, optionally narrowed to a
// status.
func (c *Console) UseBudgetRequests(status paie.RequestStatus) string {
	scope := paie.BudgetRequestScope(status)
	c.Sched.Register(scope, func(ctx context.Context, seq uint64) error {
		var items []paie.BudgetRequest
		if err := c.API.Get(ctx, "/manager/budget-requests", statusQuery(status), &items); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Store.BudgetRequests.Replace(scope, items, seq)
		return nil
	})
	return scope
}

// UseBudgetOverview binds the server-computed budget aggregate for a year.
func (c *Console) UseBudgetOverview(year int) string {
	scope := paie.BudgetOverviewScope(year)
	c.Sched.Register(scope, func(ctx context.Context, seq uint64) error {
		q := url.Values{}
		q.Set("year", strconv.Itoa(year))
		var overview paie.BudgetOverview
		if err := c.API.Get(ctx, "/manager/budget-overview", q, &overview); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Store.SetOverview(scope, overview)
		return nil
	})
	return scope
}

func statusQuery(status paie.RequestStatus) url.Values {
	if status == "" {
		return nil
	}
	q := url.Values{}
	q.Set("statut", string(status))
	return q
}
