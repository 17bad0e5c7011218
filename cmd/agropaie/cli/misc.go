package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/agropaie/agropaie/internal/paie"
	"github.com/agropaie/agropaie/internal/reports"
)

func (r *Runner) runPresences(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("presences", flag.ContinueOnError)
	date := fs.String("date", time.Now().Format("2006-01-02"), "attendance day (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	scope := r.Console.UsePresences(*date)
	if err := r.Console.Sched.Now(ctx, scope); err != nil {
		return err
	}
	items, _ := r.Console.Store.Presences.Get(scope)
	w := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMPLOYÉ\tARRIVÉE\tDÉPART\tSTATUT")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Employee, orDash(p.CheckIn), orDash(p.CheckOut), p.Status)
	}
	return w.Flush()
}

func (r *Runner) runLeaves(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("conges", flag.ContinueOnError)
	statut := fs.String("statut", "", "filter on status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	scope := r.Console.UseLeaves(paie.RequestStatus(*statut))
	if err := r.Console.Sched.Now(ctx, scope); err != nil {
		return err
	}
	items, _ := r.Console.Store.Leaves.Get(scope)
	w := tabwriter.NewWriter(r.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMPLOYÉ\tTYPE\tJOURS\tSTATUT")
	for _, l := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", l.ID, l.Employee, l.Type, l.Days, l.Status)
	}
	return w.Flush()
}

func (r *Runner) runReport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	typ := fs.String("type", "paie", "report type")
	format := fs.String("format", "pdf", "report format")
	period := fs.String("period", time.Now().Format("2006-01"), "report period")
	if err := fs.Parse(args); err != nil {
		return err
	}
	gen := reports.NewGenerator(r.Console.API)
	doc, err := gen.Generate(ctx, reports.Request{Type: *typ, Format: *format, Period: *period})
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "%s (%s, %d octets base64)\n", doc.Filename, doc.Mime, len(doc.Content))
	return nil
}

// runWatch loads the main scopes and lets the silent loop keep them fresh,
// printing a summary on each tick until interrupted.
func (r *Runner) runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	interval := fs.Duration("interval", 30*time.Second, "silent refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	now := time.Now()
	salScope := r.Console.UseSalaries(int(now.Month()), now.Year())
	reqScope := r.Console.UsePaymentRequests(paie.RequestEnAttente)
	budScope := r.Console.UseBudgetRequests(paie.RequestEnAttente)
	if err := r.Console.Sched.Now(ctx, salScope, reqScope, budScope); err != nil {
		return err
	}
	r.Console.Sched.Silent(ctx, *interval, salScope, reqScope, budScope)

	print := func() {
		salaries, _ := r.Console.Store.Salaries.Get(salScope)
		pending := 0
		for _, s := range salaries {
			if s.Status == paie.SalaryCalcule {
				pending++
			}
		}
		payReqs, _ := r.Console.Store.PaymentRequests.Get(reqScope)
		budReqs, _ := r.Console.Store.BudgetRequests.Get(budScope)
		fmt.Fprintf(r.Out, "[%s] salaires à payer: %d, demandes paiement: %d, demandes budget: %d\n",
			time.Now().Format("15:04:05"), pending, len(payReqs), len(budReqs))
	}
	print()
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			print()
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
