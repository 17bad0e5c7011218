// Package cli implements the console subcommands. Each subcommand owns its
// flag set; the Runner carries the assembled client core.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/agropaie/agropaie/internal/console"
	"github.com/agropaie/agropaie/internal/selection"
)

// Runner dispatches subcommands against one assembled console.
type Runner struct {
	Console *console.Console
	Bag     *selection.Bag
	Logger  *slog.Logger
	Out     io.Writer
}

// Run executes the subcommand named by args[0].
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: agropaie <salaries|requests|budget|presences|conges|report|watch> …")
	}
	switch args[0] {
	case "salaries":
		return r.runSalaries(ctx, args[1:])
	case "requests":
		return r.runRequests(ctx, args[1:])
	case "budget":
		return r.runBudget(ctx, args[1:])
	case "presences":
		return r.runPresences(ctx, args[1:])
	case "conges":
		return r.runLeaves(ctx, args[1:])
	case "report":
		return r.runReport(ctx, args[1:])
	case "watch":
		return r.runWatch(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
