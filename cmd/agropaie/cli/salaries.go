package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agropaie/agropaie/internal/lifecycle"
	"github.com/agropaie/agropaie/internal/paie"
	"github.com/agropaie/agropaie/internal/selection"
)

func (r *Runner) runSalaries(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: agropaie salaries <list|pay|pay-bulk|remind> …")
	}
	now := time.Now()
	fs := flag.NewFlagSet("salaries", flag.ContinueOnError)
	month := fs.Int("month", int(now.Month()), "period month (1-12)")
	year := fs.Int("year", now.Year(), "period year")
	id := fs.Int64("id", 0, "salary id")
	ids := fs.String("ids", "", "comma-separated salary ids")
	mode := fs.String("mode", string(paie.ModeVirement), "payment mode: virement, cheque or especes")
	statut := fs.String("statut", "", "filter on payment status")
	search := fs.String("search", "", "filter on name or matricule")
	notes := fs.String("notes", "", "bulk payment notes")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	scope := r.Console.UseSalaries(*month, *year)
	if err := r.Console.Sched.Now(ctx, scope); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		cached, _ := r.Console.Store.Salaries.Get(scope)
		rows := selection.Visible(cached, selection.Filters{Search: *search, Status: *statut}, selection.SalaryView)
		w := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMPLOYÉ\tMATRICULE\tNET\tSTATUT\tRÉCEPTION")
		for _, s := range rows {
			confirmed := "-"
			if s.Status == paie.SalaryPaye {
				confirmed = "non"
				if s.ReceptionConfirmed {
					confirmed = "oui"
				}
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%s\n", s.ID, s.Employee, s.Matricule, s.Net, s.Status, confirmed)
		}
		return w.Flush()

	case "pay":
		if *id == 0 {
			return fmt.Errorf("salaries pay: -id required")
		}
		err := r.Console.Control.PaySalary(ctx, scope, *id, lifecycle.PayInput{
			Mode: paie.PaymentMode(*mode),
			Date: time.Now(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "salaire %d payé (%s)\n", *id, *mode)
		return nil

	case "pay-bulk":
		parsed, err := parseIDs(*ids)
		if err != nil {
			return err
		}
		r.Bag.Activate(scope)
		for _, each := range parsed {
			r.Bag.Toggle(each)
		}
		outcome, err := r.Console.Control.PayBulk(ctx, scope, r.Bag.Selected(), lifecycle.BulkPayInput{
			Mode:  paie.PaymentMode(*mode),
			Date:  time.Now(),
			Notes: *notes,
		})
		for _, item := range outcome.Items {
			if item.Paid {
				fmt.Fprintf(r.Out, "  %d %s: payé\n", item.ID, item.Employee)
			} else {
				fmt.Fprintf(r.Out, "  %d %s: échec (%s)\n", item.ID, item.Employee, item.Reason)
			}
		}
		fmt.Fprintf(r.Out, "%d payés, %d échecs\n", outcome.Paid(), outcome.Failed())
		// Selection is cleared only after the outcome was rendered.
		r.Bag.Clear()
		return err

	case "remind":
		if *id == 0 {
			return fmt.Errorf("salaries remind: -id required")
		}
		if err := r.Console.Control.SendReminder(ctx, scope, *id); err != nil {
			return err
		}
		fmt.Fprintf(r.Out, "rappel envoyé pour le salaire %d\n", *id)
		return nil

	default:
		return fmt.Errorf("unknown salaries action %q", args[0])
	}
}

func parseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("-ids required")
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", p)
		}
		out = append(out, id)
	}
	return out, nil
}
