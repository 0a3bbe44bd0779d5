package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/grid"
	"github.com/javiermolinar/turno/internal/slot"
)

func (a *App) batchCmd() *cobra.Command {
	var dateFlag string
	var yes bool

	cmd := &cobra.Command{
		Use:   "batch [open|block]",
		Short: "Open or block every eligible slot of a week at once",
		Long: `Apply one availability value to every eligible slot of a week.

"open" targets currently blocked slots; "block" targets currently
available ones. Slots with a confirmed booking are never touched.

Examples:
  turno batch open
  turno batch block --date next-week --yes`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"open", "block"},
		RunE: func(_ *cobra.Command, args []string) error {
			var available bool
			switch args[0] {
			case "open":
				available = true
			case "block":
				available = false
			default:
				return fmt.Errorf("invalid action %q: use open or block", args[0])
			}

			ref, err := a.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			ctx := context.Background()
			g := grid.New(a.store, ref)
			if _, err := g.LoadWeek(ctx); err != nil {
				return fmt.Errorf("loading week: %w", err)
			}

			candidates := g.BatchCandidates(available)
			if len(candidates) == 0 {
				fmt.Println("All eligible slots already have the requested availability.")
				return nil
			}

			if !yes {
				fmt.Printf("This will %s %d %s in the week of %s.\n",
					args[0], len(candidates), plural(len(candidates), "slot", "slots"),
					g.WeekStartDate().Format("Mon Jan 2"))
				if !promptYesNo("Continue?") {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			summary, err := g.BatchSetAvailability(ctx, available)
			if err != nil {
				if errors.Is(err, slot.ErrNothingToApply) {
					fmt.Println("All eligible slots already have the requested availability.")
					return nil
				}
				return fmt.Errorf("applying batch update: %w", err)
			}

			fmt.Printf("Batch %s applied: %s.\n", args[0], formatStats(FormatSummary(summary)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Week to update (default: this week)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
