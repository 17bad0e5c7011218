package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/agropaie/agropaie/internal/lifecycle"
	"github.com/agropaie/agropaie/internal/paie"
)

func (r *Runner) runRequests(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: agropaie requests <list|process|submit> …")
	}
	fs := flag.NewFlagSet("requests", flag.ContinueOnError)
	statut := fs.String("statut", "", "filter on status")
	id := fs.Int64("id", 0, "request id")
	action := fs.String("action", "", "approve or reject")
	comment := fs.String("comment", "", "admin comment")
	salaire := fs.Int64("salaire", 0, "salary id (submit)")
	montant := fs.Float64("montant", 0, "requested amount (submit)")
	justification := fs.String("justification", "", "justification (submit)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	scope := r.Console.UsePaymentRequests(paie.RequestStatus(*statut))
	if err := r.Console.Sched.Now(ctx, scope); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		items, _ := r.Console.Store.PaymentRequests.Get(scope)
		w := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMPLOYÉ\tMONTANT\tURGENCE\tSTATUT")
		for _, pr := range items {
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n", pr.ID, pr.Employee, pr.Amount, pr.Urgency, pr.Status)
		}
		return w.Flush()

	case "process":
		act, err := parseAction(*action)
		if err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("requests process: -id required")
		}
		in := lifecycle.ProcessInput{Comment: *comment}
		if err := r.Console.Control.ProcessPaymentRequest(ctx, scope, *id, act, in); err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "demande %d: %s\n", *id, *action)
		return nil

	case "submit":
		created, err := r.Console.Control.SubmitPaymentRequest(ctx, lifecycle.SubmitPaymentInput{
			SalaryID:      *salaire,
			Amount:        *montant,
			Justification: *justification,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "demande %d créée (%s)\n", created.ID, created.Status)
		return nil

	default:
		return fmt.Errorf("unknown requests action %q", args[0])
	}
}

func parseAction(raw string) (lifecycle.ProcessAction, error) {
	switch raw {
	case "approve":
		return lifecycle.Approve, nil
	case "reject":
		return lifecycle.Reject, nil
	default:
		return "", fmt.Errorf("-action must be approve or reject")
	}
}
