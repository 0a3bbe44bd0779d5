package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/api"
	"github.com/javiermolinar/turno/internal/dateutil"
	"github.com/javiermolinar/turno/internal/grid"
	"github.com/javiermolinar/turno/internal/slot"
)

func (a *App) weekCmd() *cobra.Command {
	var dateFlag string
	var offline bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the weekly availability grid",
		Long: `Display a week of 30-minute slots as a time-by-day grid.

Days the server has no record for are initialized with the default
availability on first load. With --offline (or when the API is
unreachable) the last saved snapshot is shown instead.

Examples:
  turno week
  turno week --date next-monday
  turno week --date 2025-06-02 --offline`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			ref, err := a.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			if offline {
				return a.printCachedWeek(ref)
			}

			ctx := context.Background()
			g := grid.New(a.store, ref)
			result, err := g.LoadWeek(ctx)
			if err != nil {
				var netErr *api.NetworkError
				if errors.As(err, &netErr) && a.snapshots != nil {
					fmt.Printf("%s\n\n", formatWarn("API unreachable, showing last saved snapshot."))
					return a.printCachedWeek(ref)
				}
				return fmt.Errorf("loading week: %w", err)
			}

			if result.Initialized.Total() > 0 {
				fmt.Printf("Initialized %s default slots for this week.\n",
					formatStats(FormatSummary(result.Initialized)))
			}

			a.printWeek(result.Week)

			if a.snapshots != nil {
				if err := a.snapshots.SaveWeek(ctx, result.Week, time.Now()); err != nil {
					fmt.Printf("  %s\n", formatMuted("(snapshot not saved: "+err.Error()+")"))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Week to show (YYYY-MM-DD or relative like \"next-monday\", default: this week)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Show the last saved snapshot without contacting the API")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) printCachedWeek(ref time.Time) error {
	if a.snapshots == nil {
		return errors.New("no snapshot database available")
	}

	snap, err := a.snapshots.LoadWeek(context.Background(), ref)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	if snap == nil {
		return fmt.Errorf("no snapshot saved for the week of %s", dateutil.FormatDate(dateutil.WeekStart(ref)))
	}

	a.printWeek(snap.Week)
	fmt.Printf("  %s\n", formatMuted("Snapshot from "+snap.FetchedAt.Local().Format("Mon Jan 2 15:04")))
	return nil
}

func (a *App) printWeek(week *slot.Week) {
	header := fmt.Sprintf("WEEK: %s - %s",
		week.StartDate.Format("Mon Jan 2"),
		week.EndDate().Format("Mon Jan 2, 2006"))
	fmt.Printf("\n  %s\n", formatHeader(header))
	fmt.Println("  " + strings.Repeat("─", separatorWidth()))

	PrintWeekGrid(week)

	fmt.Println("  " + strings.Repeat("─", separatorWidth()))
	PrintWeekStats(week.Stats())
	fmt.Println()
	PrintLegend()
	fmt.Println()
}

func separatorWidth() int {
	w := termWidth() - 4
	if w > 63 {
		return 63
	}
	if w < 20 {
		return 20
	}
	return w
}

// resolveDate parses a --date flag value, accepting absolute and relative forms.
func (a *App) resolveDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return dateutil.TruncateToDay(time.Now()), nil
	}
	d, err := dateutil.ParseRelativeDate(value, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return d, nil
}
