package ui

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/grid"
	"github.com/javiermolinar/turno/internal/llm"
	"github.com/javiermolinar/turno/internal/slot"
)

func (a *App) patternCmd() *cobra.Command {
	var (
		dateFlag    string
		patternFlag string
		startFlag   string
		endFlag     string
		daysFlag    []string
		fromText    string
		modelFlag   string
		dryRun      bool
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Apply a working pattern to a week",
		Long: `Apply a working pattern to a week: slots inside the working hours
become available, the rest of the grid is blocked. Slots with a
confirmed booking keep their booking.

The pattern can be given explicitly with flags, or described in
natural language with --from-text (an LLM turns the description into
a pattern, which you confirm before anything is sent).

Examples:
  turno pattern --pattern weekdays --start 09:00 --end 17:00
  turno pattern --pattern custom --days monday,wednesday,friday --start 10:00 --end 14:00
  turno pattern --from-text "mornings only during the week" --dry-run`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ref, err := a.resolveDate(dateFlag)
			if err != nil {
				return err
			}

			var p *slot.WorkingPattern
			if fromText != "" {
				p, err = a.suggestPattern(fromText, modelFlag, yes)
				if err != nil {
					return err
				}
				if p == nil {
					return nil // user cancelled
				}
			} else {
				p, err = buildPatternFromFlags(a, patternFlag, startFlag, endFlag, daysFlag)
				if err != nil {
					return err
				}
			}

			displayPattern(p)
			if dryRun {
				fmt.Println("\n(Dry run - pattern not applied)")
				return nil
			}

			ctx := context.Background()
			g := grid.New(a.store, ref)
			if _, err := g.LoadWeek(ctx); err != nil {
				return fmt.Errorf("loading week: %w", err)
			}

			if !yes && fromText == "" {
				fmt.Printf("\nThis will rewrite the availability of the week of %s.\n",
					g.WeekStartDate().Format("Mon Jan 2"))
				if !promptYesNo("Continue?") {
					fmt.Println("Cancelled.")
					return nil
				}
			}

			msg, err := g.ApplyWorkingPattern(ctx, p)
			if err != nil {
				return fmt.Errorf("applying pattern: %w", err)
			}
			if msg != "" {
				fmt.Printf("\n%s\n", msg)
			} else {
				fmt.Println("\nPattern applied.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Week to update (default: this week)")
	cmd.Flags().StringVar(&patternFlag, "pattern", "", "Pattern: weekdays, weekends, everyday or custom (default from config)")
	cmd.Flags().StringVar(&startFlag, "start", "", "Working hours start (HH:MM, default from config)")
	cmd.Flags().StringVar(&endFlag, "end", "", "Working hours end (HH:MM, default from config)")
	cmd.Flags().StringSliceVar(&daysFlag, "days", nil, "Days for a custom pattern (e.g. monday,wednesday)")
	cmd.Flags().StringVar(&fromText, "from-text", "", "Describe the pattern in natural language")
	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model for --from-text (from config if not set)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the pattern without applying it")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func buildPatternFromFlags(a *App, pattern, start, end string, days []string) (*slot.WorkingPattern, error) {
	if pattern == "" {
		pattern = a.config.Schedule.Pattern
	}
	if start == "" {
		start = a.config.Schedule.DayStart
	}
	if end == "" {
		end = a.config.Schedule.DayEnd
	}

	kind, err := slot.ParsePattern(pattern)
	if err != nil {
		return nil, err
	}

	var dayIndexes []int
	for _, name := range days {
		d, err := slot.ParseWeekdayName(name)
		if err != nil {
			return nil, err
		}
		dayIndexes = append(dayIndexes, d)
	}

	return slot.NewWorkingPattern(kind, start, end, slot.Interval, dayIndexes)
}

// suggestPattern runs the LLM suggestion loop. Returns nil when the user
// cancels.
func (a *App) suggestPattern(input, modelFlag string, yes bool) (*slot.WorkingPattern, error) {
	model := modelFlag
	if model == "" {
		model = a.config.LLM.Model
	}

	client, err := llm.NewClient(a.config.LLM.Provider, model, a.config.LLM.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	suggester := llm.NewSuggester(client)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("Interpreting request...")
		resp, err := suggester.Suggest(context.Background(), llm.SuggestRequest{
			Input:            input,
			DayStart:         a.config.Schedule.DayStart,
			DayEnd:           a.config.Schedule.DayEnd,
			DefaultPattern:   a.config.Schedule.Pattern,
			UseCompactPrompt: llm.IsLocalProvider(a.config.LLM.Provider),
		})
		if err != nil {
			return nil, fmt.Errorf("getting suggestion: %w", err)
		}

		p, warnings, err := resp.ToWorkingPattern()
		if err != nil {
			return nil, fmt.Errorf("suggestion unusable: %w", err)
		}

		fmt.Println()
		displayPattern(p)
		for _, w := range warnings {
			fmt.Printf("  %s %s\n", formatWarn("!"), w)
		}

		if yes {
			return p, nil
		}

		fmt.Print("\n[a]ccept / [m]odify / [c]ancel: ")
		choice, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		switch strings.TrimSpace(strings.ToLower(choice)) {
		case "a", "accept":
			return p, nil
		case "m", "modify":
			fmt.Print("What would you like to change? ")
			modification, err := reader.ReadString('\n')
			if err != nil {
				return nil, fmt.Errorf("reading input: %w", err)
			}
			modification = strings.TrimSpace(modification)
			if modification == "" {
				fmt.Println("No modification provided, keeping current suggestion...")
				continue
			}
			input = input + ". " + modification
		case "c", "cancel":
			fmt.Println("Cancelled.")
			return nil, nil
		default:
			fmt.Println("Invalid choice. Please enter 'a', 'm', or 'c'.")
		}
	}
}

func displayPattern(p *slot.WorkingPattern) {
	// Walk Monday..Sunday so custom patterns print their days in grid order
	// regardless of the order the user (or the LLM) listed them.
	dayNames := make([]string, 0, 7)
	for d := 0; d < 7; d++ {
		if p.CoversWeekday(d) {
			dayNames = append(dayNames, slot.WeekdayShortName(d))
		}
	}
	fmt.Printf("  Pattern: %s  %s-%s  (%s)\n",
		formatHeader(string(p.Kind)), p.StartTime, p.EndTime,
		strings.Join(dayNames, ", "))
}
