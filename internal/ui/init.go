package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/grid"
)

func (a *App) initCmd() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a week with the default availability",
		Long: `Submit the default slot grid for every cell of a week that the
server has no record for. Existing slots are never overwritten.

Example:
  turno init --date next-week`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ref, err := a.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			g := grid.New(a.store, ref)
			summary, err := g.InitializeWeek(context.Background())
			if err != nil {
				return fmt.Errorf("initializing week: %w", err)
			}

			if summary.Total() == 0 {
				fmt.Println("Week already fully initialized, nothing to do.")
				return nil
			}
			fmt.Printf("Initialized week of %s: %s\n",
				g.WeekStartDate().Format("Mon Jan 2"),
				formatStats(FormatSummary(summary)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Week to initialize (default: this week)")
	return cmd
}
