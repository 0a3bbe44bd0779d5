package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/grid"
	"github.com/javiermolinar/turno/internal/slot"
)

func (a *App) bookingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booking <date> <time>",
		Short: "Show the booking details for a slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			date, err := a.resolveDate(args[0])
			if err != nil {
				return err
			}
			timeLabel := args[1]
			if err := slot.ValidateTime(timeLabel); err != nil {
				return err
			}

			ctx := context.Background()
			g := grid.New(a.store, date)
			if _, err := g.LoadWeek(ctx); err != nil {
				return fmt.Errorf("loading week: %w", err)
			}

			detail, err := g.ViewBookingDetails(ctx, date, timeLabel)
			if err != nil {
				return err
			}

			PrintBookingDetail(date.Format("Mon Jan 2"), timeLabel, detail)
			return nil
		},
	}
	return cmd
}
