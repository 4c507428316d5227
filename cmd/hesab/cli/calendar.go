package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/language"

	"github.com/hesab/hesab/internal/calendar"
)

// ConvertOptions configures the convert command.
type ConvertOptions struct {
	Date       string
	From       string
	To         string
	Lang       string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// ConvertResult is the structured output of the convert command.
type ConvertResult struct {
	Input     string          `json:"input"`
	From      calendar.System `json:"from"`
	Date      string          `json:"date"`
	To        calendar.System `json:"to"`
	Formatted string          `json:"formatted"`
	MonthName string          `json:"month_name"`
	Weekday   string          `json:"weekday"`
}

// ConvertCommand converts one date between calendars and returns the exit code.
func ConvertCommand(opts ConvertOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	from, err := parseSystem(opts.From, calendar.Gregorian)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "convert: invalid --from: %v\n", err)
		return 1
	}
	to, err := parseSystem(opts.To, calendar.Persian)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "convert: invalid --to: %v\n", err)
		return 1
	}
	date, err := calendar.ParseDate(opts.Date, from)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "convert: %v\n", err)
		return 1
	}
	g, err := calendar.ToGregorian(date, from)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "convert: %v\n", err)
		return 1
	}
	target, err := calendar.FromGregorian(g, to)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "convert: %v\n", err)
		return 1
	}
	formatted, err := calendar.FormatDate(g, to)
	if err != nil {
		fmt.Fprintf(opts.Stderr, "convert: %v\n", err)
		return 1
	}
	lang := parseLang(opts.Lang)
	result := ConvertResult{
		Input:     date.String(),
		From:      from,
		Date:      target.String(),
		To:        to,
		Formatted: formatted,
		MonthName: calendar.MonthName(target.Month, to, lang),
		Weekday:   calendar.WeekdayName(calendar.PersianWeekday(g), lang),
	}
	if opts.JSONOutput {
		return writeJSON(opts.Stdout, opts.Stderr, result)
	}
	fmt.Fprintf(opts.Stdout, "%s %s = %s %s (%s %s, %s)\n",
		result.Input, result.From, result.Date, result.To, result.MonthName, formatted, result.Weekday)
	return 0
}

func parseSystem(raw string, fallback calendar.System) (calendar.System, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return calendar.ParseSystem(raw)
}

func parseLang(raw string) language.Tag {
	tag, err := language.Parse(raw)
	if err != nil || raw == "" {
		return language.English
	}
	return tag
}

func writeJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "encode output: %v\n", err)
		return 1
	}
	return 0
}
