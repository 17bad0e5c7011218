// Package lifecycle enforces the valid state transitions of salaries,
// payment requests and budget requests, issues the corresponding mutations
// and reconciles the optimistic local view against the server through scoped
// refreshes. Every operation checks the cached state first: a stale
// precondition fails fast as ErrInvalidState before any network call.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/agropaie/agropaie/internal/api"
	"github.com/agropaie/agropaie/internal/paie"
	"github.com/agropaie/agropaie/internal/refresh"
	"github.com/agropaie/agropaie/internal/store"
)

// Caller is the slice of the resource client the controller needs.
type Caller interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Refresher triggers user-visible refreshes after successful mutations.
// Registered filters the scopes worth refreshing: a mutation may implicate a
// scope no screen has bound yet.
type Refresher interface {
	Now(ctx context.Context, scopes ...string) error
	Registered(scope string) bool
}

// Controller drives entity lifecycles.
type Controller struct {
	caller    Caller
	store     *store.Store
	refresher Refresher
	validate  *validator.Validate
	logger    *slog.Logger
}

// New constructs a Controller.
func New(caller Caller, st *store.Store, refresher Refresher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		caller:    caller,
		store:     st,
		refresher: refresher,
		validate:  validator.New(),
		logger:    logger,
	}
}

// PayInput describes a single pay action.
type PayInput struct {
	Mode      paie.PaymentMode `json:"mode_paiement" validate:"required,oneof=virement cheque especes"`
	Date      time.Time        `json:"date_paiement" validate:"required"`
	Reference string           `json:"reference_paiement,omitempty"`
}

// BulkPayInput describes a bulk pay action applied to every selected salary.
type BulkPayInput struct {
	Mode  paie.PaymentMode `json:"mode_paiement" validate:"required,oneof=virement cheque especes"`
	Date  time.Time        `json:"date_paiement" validate:"required"`
	Notes string           `json:"notes,omitempty"`
}

// PaySalary transitions one salary calculé → payé. The cached status is
// checked before calling the server, so a stale row fails locally; the
// server may still decline if another actor paid it meanwhile.
func (c *Controller) PaySalary(ctx context.Context, scope string, id int64, in PayInput) error {
	if err := c.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	s, ok := c.store.Salaries.One(scope, id)
	if !ok {
		return fmt.Errorf("%w: salaire %d in %s", ErrNotFound, id, scope)
	}
	if !s.Payable() {
		return fmt.Errorf("%w: salaire %d est %s", ErrInvalidState, id, s.Status)
	}

	// Optimistic marker only; the next authoritative refresh overwrites it.
	c.store.Salaries.PatchOne(scope, id, func(s *paie.Salary) { s.Processing = true })

	if err := c.caller.Post(ctx, fmt.Sprintf("/manager/salaries/%d/pay", id), in, nil); err != nil {
		c.store.Salaries.PatchOne(scope, id, func(s *paie.Salary) { s.Processing = false })
		return err
	}
	c.refreshAfter(ctx, scope)
	return nil
}

// PayBulk pays the given salaries in selection order. Per-id failures are
// recorded in the outcome, never escalated: rows that changed status under
// the user or were declined by the server show up as failures next to the
// ones that went through. Only credential loss or a dead connection aborts
// the run, and then the outcome still reports what happened before the
// abort.
func (c *Controller) PayBulk(ctx context.Context, scope string, ids []int64, in BulkPayInput) (BulkOutcome, error) {
	var outcome BulkOutcome
	if err := c.validate.Struct(in); err != nil {
		return outcome, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	payload := PayInput{Mode: in.Mode, Date: in.Date}
	for i, id := range ids {
		item := BulkItem{ID: id}
		s, ok := c.store.Salaries.One(scope, id)
		if ok {
			item.Employee = s.Employee
		}
		switch {
		case !ok:
			item.Reason = "absent du cache"
		case !s.Payable():
			item.Reason = fmt.Sprintf("statut %s", s.Status)
		default:
			err := c.caller.Post(ctx, fmt.Sprintf("/manager/salaries/%d/pay", id), payload, nil)
			var rejected *api.ServerRejectedError
			switch {
			case err == nil:
				item.Paid = true
			case errors.As(err, &rejected):
				item.Reason = rejected.Reason
				if item.Reason == "" {
					item.Reason = "refusé par le serveur"
				}
			default:
				// Connectivity or credential failure: nothing after this id
				// would fare better, so stop and report what was attempted.
				item.Reason = err.Error()
				outcome.Items = append(outcome.Items, item)
				c.refreshAfter(ctx, scope)
				return outcome, fmt.Errorf("bulk pay aborted at %d/%d: %w", i+1, len(ids), err)
			}
		}
		outcome.Items = append(outcome.Items, item)
	}
	c.refreshAfter(ctx, scope)
	return outcome, nil
}

// SendReminder nudges an employee to confirm reception. Open only while the
// salary is paid and unconfirmed.
func (c *Controller) SendReminder(ctx context.Context, scope string, id int64) error {
	s, ok := c.store.Salaries.One(scope, id)
	if !ok {
		return fmt.Errorf("%w: salaire %d in %s", ErrNotFound, id, scope)
	}
	if !s.Remindable() {
		return fmt.Errorf("%w: salaire %d", ErrInvalidState, id)
	}
	return c.caller.Post(ctx, fmt.Sprintf("/manager/salaries/%d/remind", id), nil, nil)
}

// ConfirmReception records the employee-side confirmation. Legal only once
// the salary is paid; the flag can only move false → true.
func (c *Controller) ConfirmReception(ctx context.Context, scope string, id int64) error {
	s, ok := c.store.Salaries.One(scope, id)
	if !ok {
		return fmt.Errorf("%w: salaire %d in %s", ErrNotFound, id, scope)
	}
	if s.Status != paie.SalaryPaye || s.ReceptionConfirmed {
		return fmt.Errorf("%w: salaire %d", ErrInvalidState, id)
	}
	if err := c.caller.Post(ctx, fmt.Sprintf("/manager/salaries/%d/confirm-reception", id), nil, nil); err != nil {
		return err
	}
	c.refreshAfter(ctx, scope)
	return nil
}

// ProcessAction is what an admin does to a pending request.
type ProcessAction string

const (
	Approve ProcessAction = "approve"
	Reject  ProcessAction = "reject"
)

// ProcessInput carries the admin's response.
type ProcessInput struct {
	Comment        string   `json:"commentaire,omitempty"`
	ApprovedAmount *float64 `json:"montant_approuve,omitempty"`
}

type processBody struct {
	Action  ProcessAction `json:"action"`
	Comment string        `json:"commentaire,omitempty"`
}

// ProcessPaymentRequest approves or rejects a pending payment request.
// Approval also flips the linked salary to paid server-side, so the salary's
// owning scope is refreshed along with the request list.
func (c *Controller) ProcessPaymentRequest(ctx context.Context, scope string, id int64, action ProcessAction, in ProcessInput) error {
	r, ok := c.store.PaymentRequests.One(scope, id)
	if !ok {
		return fmt.Errorf("%w: demande %d in %s", ErrNotFound, id, scope)
	}
	if r.Status.Terminal() {
		return fmt.Errorf("%w: demande %d est %s", ErrAlreadyProcessed, id, r.Status)
	}
	if err := paie.ValidateRequestTransition(r.Status, statusFor(action)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	body := processBody{Action: action, Comment: in.Comment}
	if err := c.caller.Post(ctx, fmt.Sprintf("/manager/payment-requests/%d/process", id), body, nil); err != nil {
		return err
	}

	scopes := []string{scope}
	if action == Approve {
		if _, salScope, found := c.store.Salaries.Find(r.SalaryID); found {
			scopes = append(scopes, salScope)
		}
	}
	c.refreshAfter(ctx, scopes...)
	return nil
}

// ProcessBudgetRequest approves or rejects a pending budget request. Unlike
// payment requests it never touches a salary. An approved amount above the
// requested one is refused locally.
func (c *Controller) ProcessBudgetRequest(ctx context.Context, scope string, id int64, action ProcessAction, in ProcessInput) error {
	r, ok := c.store.BudgetRequests.One(scope, id)
	if !ok {
		return fmt.Errorf("%w: demande %d in %s", ErrNotFound, id, scope)
	}
	if r.Status.Terminal() {
		return fmt.Errorf("%w: demande %d est %s", ErrAlreadyProcessed, id, r.Status)
	}
	if action == Approve && in.ApprovedAmount != nil && *in.ApprovedAmount > r.Amount {
		return fmt.Errorf("%w: montant approuvé %.2f > demandé %.2f", ErrValidation, *in.ApprovedAmount, r.Amount)
	}

	body := struct {
		processBody
		ApprovedAmount *float64 `json:"montant_approuve,omitempty"`
	}{processBody{Action: action, Comment: in.Comment}, in.ApprovedAmount}
	if err := c.caller.Post(ctx, fmt.Sprintf("/manager/budget-requests/%d/process", id), body, nil); err != nil {
		return err
	}
	c.refreshAfter(ctx, scope)
	return nil
}

// SubmitBudgetInput is a new department-level budget ask.
type SubmitBudgetInput struct {
	Amount        float64      `json:"montant" validate:"required,gt=0"`
	Category      string       `json:"categorie" validate:"required"`
	Justification string       `json:"justification" validate:"required"`
	Urgency       paie.Urgency `json:"urgence" validate:"required,oneof=normal prioritaire urgent"`
}

// SubmitBudgetRequest validates the ask locally (fast-fail, not a substitute
// for server validation) and submits it. The created request comes back
// en_attente with no approved amount.
func (c *Controller) SubmitBudgetRequest(ctx context.Context, in SubmitBudgetInput) (*paie.BudgetRequest, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	var created paie.BudgetRequest
	if err := c.caller.Post(ctx, "/manager/budget-requests", in, &created); err != nil {
		return nil, err
	}
	c.refreshAfter(ctx, paie.BudgetRequestScope(""), paie.BudgetRequestScope(paie.RequestEnAttente))
	return &created, nil
}

// SubmitPaymentInput is an employee's early-payment ask against one salary.
type SubmitPaymentInput struct {
	SalaryID      int64   `json:"salaire_id" validate:"required,gt=0"`
	Amount        float64 `json:"montant" validate:"required,gt=0"`
	Justification string  `json:"justification" validate:"required"`
}

// SubmitPaymentRequest validates and submits an early-payment ask. When the
// linked salary is cached, asking for more than its net fails locally.
func (c *Controller) SubmitPaymentRequest(ctx context.Context, in SubmitPaymentInput) (*paie.PaymentRequest, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if s, _, found := c.store.Salaries.Find(in.SalaryID); found && in.Amount > s.Net {
		return nil, fmt.Errorf("%w: montant %.2f > salaire net %.2f", ErrValidation, in.Amount, s.Net)
	}
	var created paie.PaymentRequest
	if err := c.caller.Post(ctx, "/manager/payment-requests", in, &created); err != nil {
		return nil, err
	}
	c.refreshAfter(ctx, paie.PaymentRequestScope(""), paie.PaymentRequestScope(paie.RequestEnAttente))
	return &created, nil
}

func statusFor(action ProcessAction) paie.RequestStatus {
	if action == Approve {
		return paie.RequestApprouve
	}
	return paie.RequestRejete
}

// refreshAfter re-syncs scopes after a successful mutation. The mutation
// already succeeded, so a refresh failure is logged rather than returned;
// the silent loop will catch the store up on its next tick anyway.
func (c *Controller) refreshAfter(ctx context.Context, scopes ...string) {
	live := scopes[:0]
	for _, scope := range scopes {
		if c.refresher.Registered(scope) {
			live = append(live, scope)
		}
	}
	if len(live) == 0 {
		return
	}
	if err := c.refresher.Now(ctx, live...); err != nil && !errors.Is(err, refresh.ErrUnknownScope) {
		c.logger.Warn("post-mutation refresh", slog.Any("error", err))
	}
}
