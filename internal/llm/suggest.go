package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/turno/internal/slot"
)

const suggestPrompt = `You are an assistant for a service provider managing their weekly availability.

The provider's calendar is a grid of 30-minute slots. Weekdays run 09:00 to 18:00, weekends 10:00 to 16:00.

Context:
- Provider's usual working hours: %s to %s
- Their current default pattern: %s

User request: "%s"

Your job is to translate the request into ONE working pattern:
- "pattern" must be "weekdays", "weekends", "everyday" or "custom"
- Use "custom" only when the requested days match none of the built-in patterns, and then list the days
- "start_time" and "end_time" are 24-hour HH:MM, aligned to 30-minute boundaries
- "end_time" must be after "start_time"
- Day names must be lowercase English ("monday" ... "sunday")
- Add a warning if you had to adjust the request (unaligned times, hours outside the grid, ambiguous days)
- If the request does not describe working hours at all, return empty "pattern" and explain in "warnings"

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "pattern": "string",
  "start_time": "HH:MM",
  "end_time": "HH:MM",
  "days": ["string"],
  "warnings": ["string"]
}`

const suggestPromptCompact = `You translate a provider's availability request into a working pattern. Return JSON only.

Usual hours: %s to %s
Default pattern: %s

User request: "%s"

Rules:
- "pattern" is "weekdays", "weekends", "everyday" or "custom" (then fill "days" with lowercase day names).
- Times are HH:MM (24-hour), on 30-minute boundaries, end after start.
- "warnings" is an array of strings.

JSON schema:
{
  "pattern": "string",
  "start_time": "HH:MM",
  "end_time": "HH:MM",
  "days": ["string"],
  "warnings": ["string"]
}`

// SuggestRequest contains the input for a pattern suggestion.
type SuggestRequest struct {
	Input            string
	DayStart         string // "HH:MM", the provider's configured default
	DayEnd           string // "HH:MM"
	DefaultPattern   string // e.g., "weekdays"
	UseCompactPrompt bool   // Use a shorter prompt for local models
}

// SuggestResponse contains the parsed LLM response.
type SuggestResponse struct {
	Pattern   string   `json:"pattern"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Days      []string `json:"days"`
	Warnings  []string `json:"warnings"`
}

// Suggester uses an LLM to turn natural language availability descriptions
// into working patterns.
type Suggester struct {
	client Client
}

// NewSuggester creates a new Suggester with the given LLM client.
func NewSuggester(client Client) *Suggester {
	return &Suggester{client: client}
}

// Suggest converts natural language input into a working pattern suggestion.
func (s *Suggester) Suggest(ctx context.Context, req SuggestRequest) (*SuggestResponse, error) {
	messages := s.buildInitialMessages(req)

	var resp SuggestResponse
	if err := s.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("getting suggestion from LLM: %w", err)
	}
	return &resp, nil
}

func (s *Suggester) buildInitialMessages(req SuggestRequest) []Message {
	dayStart := req.DayStart
	if dayStart == "" {
		dayStart = "09:00"
	}
	dayEnd := req.DayEnd
	if dayEnd == "" {
		dayEnd = "17:00"
	}
	defaultPattern := req.DefaultPattern
	if defaultPattern == "" {
		defaultPattern = "weekdays"
	}

	template := suggestPrompt
	if req.UseCompactPrompt {
		template = suggestPromptCompact
	}
	prompt := fmt.Sprintf(template, dayStart, dayEnd, defaultPattern, req.Input)

	return []Message{
		{Role: "system", Content: prompt},
	}
}

// ToWorkingPattern converts the suggestion into a validated working pattern.
// Times are snapped to the half-hour grid before validation; a snap that
// changed anything is reported alongside the pattern.
func (r *SuggestResponse) ToWorkingPattern() (*slot.WorkingPattern, []string, error) {
	if strings.TrimSpace(r.Pattern) == "" {
		return nil, nil, fmt.Errorf("no pattern in suggestion (warnings: %s)", strings.Join(r.Warnings, "; "))
	}

	kind, err := slot.ParsePattern(r.Pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("suggested pattern: %w", err)
	}

	warnings := append([]string(nil), r.Warnings...)

	start, changed, err := snapToGrid(r.StartTime)
	if err != nil {
		return nil, nil, fmt.Errorf("suggested start time: %w", err)
	}
	if changed {
		warnings = append(warnings, fmt.Sprintf("start time rounded to %s", start))
	}

	end, changed, err := snapToGrid(r.EndTime)
	if err != nil {
		return nil, nil, fmt.Errorf("suggested end time: %w", err)
	}
	if changed {
		warnings = append(warnings, fmt.Sprintf("end time rounded to %s", end))
	}

	var days []int
	if kind == slot.PatternCustom {
		for _, name := range r.Days {
			d, err := slot.ParseWeekdayName(name)
			if err != nil {
				return nil, nil, fmt.Errorf("suggested day: %w", err)
			}
			days = append(days, d)
		}
	}

	p, err := slot.NewWorkingPattern(kind, start, end, slot.Interval, days)
	if err != nil {
		return nil, nil, fmt.Errorf("building pattern from suggestion: %w", err)
	}
	return p, warnings, nil
}

// snapToGrid rounds an HH:MM value to the nearest half hour. It reports
// whether rounding changed the value.
func snapToGrid(value string) (string, bool, error) {
	if len(value) != 5 || value[2] != ':' ||
		!isDigit(value[0]) || !isDigit(value[1]) || !isDigit(value[3]) || !isDigit(value[4]) {
		return "", false, fmt.Errorf("invalid time %q", value)
	}
	minutes := slot.TimeToMinutes(value)

	snapped := ((minutes + slot.Interval/2) / slot.Interval) * slot.Interval
	if snapped > 23*60+30 {
		snapped = 23*60 + 30
	}
	result := slot.MinutesToTime(snapped)
	return result, result != value, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
