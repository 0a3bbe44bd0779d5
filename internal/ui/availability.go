package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/grid"
	"github.com/javiermolinar/turno/internal/slot"
)

func (a *App) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open [date] [time]",
		Short: "Mark a single slot as available",
		Long: `Mark one 30-minute slot as available for booking.

The date accepts absolute (YYYY-MM-DD) and relative forms.

Examples:
  turno open 2025-06-02 14:00
  turno open tomorrow 09:30`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.setAvailability(args[0], args[1], true)
		},
	}
}

func (a *App) blockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block [date] [time]",
		Short: "Mark a single slot as unavailable",
		Long: `Mark one 30-minute slot as unavailable.

Slots with a confirmed booking cannot be blocked from here; cancel
the booking through the booking system first.

Examples:
  turno block 2025-06-02 14:00
  turno block friday 16:30`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.setAvailability(args[0], args[1], false)
		},
	}
}

func (a *App) setAvailability(dateArg, timeArg string, available bool) error {
	date, err := a.resolveDate(dateArg)
	if err != nil {
		return err
	}
	if err := slot.ValidateTime(timeArg); err != nil {
		return fmt.Errorf("invalid time %q: %w", timeArg, err)
	}

	ctx := context.Background()
	g := grid.New(a.store, date)
	if _, err := g.LoadWeek(ctx); err != nil {
		return fmt.Errorf("loading week: %w", err)
	}

	if s := g.GetSlot(date, timeArg); s != nil && s.HasBooking {
		return fmt.Errorf("slot %s %s has a confirmed booking for %s",
			date.Format("2006-01-02"), timeArg, s.CustomerName())
	}

	if err := g.SetSlotAvailability(ctx, date, timeArg, available); err != nil {
		return fmt.Errorf("updating slot: %w", err)
	}

	state := "available"
	if !available {
		state = "blocked"
	}
	fmt.Printf("Slot %s %s is now %s.\n", date.Format("Mon Jan 2"), timeArg, formatStats(state))
	return nil
}
