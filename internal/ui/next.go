package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/grid"
	"github.com/javiermolinar/turno/internal/scheduler"
)

func (a *App) nextCmd() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Find the next open slot",
		Long: `Find the next open slot in a week, the longest open stretch and
how many slots are still free. Open means available and without a
confirmed booking.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ref, err := a.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			ctx := context.Background()
			g := grid.New(a.store, ref)
			if _, err := g.LoadWeek(ctx); err != nil {
				return fmt.Errorf("loading week: %w", err)
			}
			week := g.Week()

			open := scheduler.CountOpen(week)
			if open == 0 {
				fmt.Printf("No open slots in the week of %s.\n",
					g.WeekStartDate().Format("Mon Jan 2"))
				return nil
			}

			next := scheduler.NextOpen(week, ref)
			if next != nil {
				fmt.Printf("  Next open:    %s %s\n",
					formatHeader(next.Date.Format("Mon Jan 2")), next.Time)
			} else {
				fmt.Println("  Next open:    none after the given date, earlier in the week only")
			}

			longest := scheduler.LongestRun(week)
			if longest.Slots > 0 {
				fmt.Printf("  Longest run:  %s %s-%s (%s)\n",
					longest.Date.Format("Mon Jan 2"), longest.Start, longest.End,
					formatDuration(longest.Minutes()))
			}
			fmt.Printf("  Open slots:   %s\n", formatStats(fmt.Sprintf("%d", open)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Start looking from this date (default: now)")
	return cmd
}

func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
