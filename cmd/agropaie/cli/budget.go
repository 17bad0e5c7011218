package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/agropaie/agropaie/internal/lifecycle"
	"github.com/agropaie/agropaie/internal/paie"
)

func (r *Runner) runBudget(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: agropaie budget <overview|list|submit|process> …")
	}
	fs := flag.NewFlagSet("budget", flag.ContinueOnError)
	year := fs.Int("year", time.Now().Year(), "budget year")
	statut := fs.String("statut", "", "filter on status")
	id := fs.Int64("id", 0, "request id")
	action := fs.String("action", "", "approve or reject")
	montant := fs.Float64("montant", 0, "requested amount (submit)")
	approuve := fs.Float64("approuve", 0, "approved amount (process)")
	categorie := fs.String("categorie", "", "category (submit)")
	justification := fs.String("justification", "", "justification (submit)")
	urgence := fs.String("urgence", string(paie.UrgencyNormal), "urgency: normal, prioritaire or urgent")
	response := fs.String("reponse", "", "admin response (process)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch args[0] {
	case "overview":
		scope := r.Console.UseBudgetOverview(*year)
		if err := r.Console.Sched.Now(ctx, scope); err != nil {
			return err
		}
		o, ok := r.Console.Store.Overview(scope)
		if !ok {
			return fmt.Errorf("budget overview %d not loaded", *year)
		}
		fmt.Fprintf(r.Out, "exercice %d: alloué %.2f, dépensé %.2f (%.0f%%), disponible %.2f (%.0f%%)\n",
			o.Year, o.Allocated, o.Spent, o.SpentPercent, o.Available, o.AvailablePercent)
		return nil

	case "list":
		scope := r.Console.UseBudgetRequests(paie.RequestStatus(*statut))
		if err := r.Console.Sched.Now(ctx, scope); err != nil {
			return err
		}
		items, _ := r.Console.Store.BudgetRequests.Get(scope)
		w := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATÉGORIE\tMONTANT\tAPPROUVÉ\tURGENCE\tSTATUT")
		for _, br := range items {
			approved := "-"
			if br.ApprovedAmount != nil {
				approved = fmt.Sprintf("%.2f", *br.ApprovedAmount)
			}
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\t%s\n", br.ID, br.Category, br.Amount, approved, br.Urgency, br.Status)
		}
		return w.Flush()

	case "submit":
		created, err := r.Console.Control.SubmitBudgetRequest(ctx, lifecycle.SubmitBudgetInput{
			Amount:        *montant,
			Category:      *categorie,
			Justification: *justification,
			Urgency:       paie.Urgency(*urgence),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "demande budget %d créée (%s)\n", created.ID, created.Status)
		return nil

	case "process":
		act, err := parseAction(*action)
		if err != nil {
			return err
		}
		if *id == 0 {
			return fmt.Errorf("budget process: -id required")
		}
		scope := r.Console.UseBudgetRequests(paie.RequestStatus(*statut))
		if err := r.Console.Sched.Now(ctx, scope); err != nil {
			return err
		}
		in := lifecycle.ProcessInput{Comment: *response}
		if act == lifecycle.Approve && *approuve > 0 {
			in.ApprovedAmount = approuve
		}
		if err := r.Console.Control.ProcessBudgetRequest(ctx, scope, *id, act, in); err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "demande budget %d: %s\n", *id, *action)
		return nil

	default:
		return fmt.Errorf("unknown budget action %q", args[0])
	}
}
