package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/period"
)

// PeriodOptions configures the period command.
type PeriodOptions struct {
	StartDay   int
	Calendar   string
	Today      string
	Repeat     int
	JSONOutput bool
	Now        func() time.Time
	Stdout     io.Writer
	Stderr     io.Writer
}

// PeriodSummary is the structured output of the period command.
type PeriodSummary struct {
	Calendar calendar.System `json:"calendar"`
	StartDay int             `json:"start_day"`
	Today    string          `json:"today"`
	Current  period.Period   `json:"current"`
	Repeats  []period.Period `json:"repeats"`
}

// PeriodCommand prints the billing period containing today and, when Repeat
// is above one, the periods that follow it.
func PeriodCommand(opts PeriodOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	system, err := parseSystem(opts.Calendar, calendar.Gregorian)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "period: invalid --calendar: %v\n", err)
		return 1
	}
	if opts.Repeat <= 0 {
		opts.Repeat = 1
	}

	today := calendar.GregorianFromTime(opts.Now())
	if raw := strings.TrimSpace(opts.Today); raw != "" {
		d, err := calendar.ParseDate(raw, system)
		if err != nil {
			fmt.Fprintf(opts.Stderr, "period: invalid --today: %v\n", err)
			return 1
		}
		if today, err = calendar.ToGregorian(d, system); err != nil {
			fmt.Fprintf(opts.Stderr, "period: invalid --today: %v\n", err)
			return 1
		}
	}
	todayLocal, err := calendar.FromGregorian(today, system)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "period: %v\n", err)
		return 1
	}

	current, err := period.CurrentPeriod(opts.StartDay, system, today)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "period: %v\n", err)
		return 1
	}
	repeats, err := period.GenerateRepeatedPeriods(current, opts.Repeat, system)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "period: %v\n", err)
		return 1
	}

	summary := PeriodSummary{
		Calendar: system,
		StartDay: opts.StartDay,
		Today:    todayLocal.String(),
		Current:  current,
		Repeats:  repeats,
	}
	if opts.JSONOutput {
		return writeJSON(opts.Stdout, opts.Stderr, summary)
	}
	fmt.Fprintf(opts.Stdout, "calendar: %s  start day: %d  today: %s\n", system, opts.StartDay, summary.Today)
	fmt.Fprintf(opts.Stdout, "current:  %s .. %s\n", current.StartDate, current.EndDate)
	for i, p := range repeats {
		fmt.Fprintf(opts.Stdout, "+%-2d      %s .. %s\n", i+1, p.StartDate, p.EndDate)
	}
	return 0
}
