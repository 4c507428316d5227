// Package calendarhttp serves date conversion and calendar metadata.
package calendarhttp

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/platform/httpx"
)

// Handler exposes calendar routes.
type Handler struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger, now: time.Now}
}

// MountRoutes registers calendar routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/convert", h.Convert)
	r.Get("/today", h.Today)
	r.Get("/month", h.Month)
}

// DateView describes one day in a target calendar.
type DateView struct {
	Date      string          `json:"date"`
	Calendar  calendar.System `json:"calendar"`
	Formatted string          `json:"formatted"`
	MonthName string          `json:"month_name"`
	Weekday   string          `json:"weekday"`
	Gregorian string          `json:"gregorian"`
}

// Convert handles GET /convert?date=&from=&to=&lang=. from defaults to
// GREGORIAN and to defaults to PERSIAN.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := systemParam(q.Get("from"), calendar.Gregorian)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	to, err := systemParam(q.Get("to"), calendar.Persian)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	date, err := calendar.ParseDate(q.Get("date"), from)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	g, err := calendar.ToGregorian(date, from)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	view, err := describe(g, to, langParam(q.Get("lang")))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

// Today handles GET /today?calendar=&lang=.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	system, err := systemParam(q.Get("calendar"), calendar.Persian)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	view, err := describe(calendar.GregorianFromTime(h.now()), system, langParam(q.Get("lang")))
	if err != nil {
		h.logger.Error("describe today", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

type monthView struct {
	Year     int             `json:"year"`
	Month    int             `json:"month"`
	Calendar calendar.System `json:"calendar"`
	Name     string          `json:"name"`
	Days     int             `json:"days"`
	LeapYear bool            `json:"leap_year"`
}

// Month handles GET /month?year=&month=&calendar=&lang=.
func (h *Handler) Month(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	system, err := systemParam(q.Get("calendar"), calendar.Persian)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	year, errY := strconv.Atoi(q.Get("year"))
	month, errM := strconv.Atoi(q.Get("month"))
	if errY != nil || errM != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Month", "year and month must be integers")
		return
	}
	days, err := calendar.MonthLength(system, year, month)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	leap := calendar.IsGregorianLeapYear(year)
	if system == calendar.Persian {
		leap = calendar.IsPersianLeapYear(year)
	}
	httpx.JSON(w, http.StatusOK, monthView{
		Year:     year,
		Month:    month,
		Calendar: system,
		Name:     calendar.MonthName(month, system, langParam(q.Get("lang"))),
		Days:     days,
		LeapYear: leap,
	})
}

func describe(g calendar.GregorianDate, to calendar.System, lang language.Tag) (DateView, error) {
	target, err := calendar.FromGregorian(g, to)
	if err != nil {
		return DateView{}, err
	}
	formatted, err := calendar.FormatDate(g, to)
	if err != nil {
		return DateView{}, err
	}
	return DateView{
		Date:      target.String(),
		Calendar:  to,
		Formatted: formatted,
		MonthName: calendar.MonthName(target.Month, to, lang),
		Weekday:   calendar.WeekdayName(calendar.PersianWeekday(g), lang),
		Gregorian: g.String(),
	}, nil
}

func systemParam(raw string, fallback calendar.System) (calendar.System, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	s, err := calendar.ParseSystem(raw)
	if err != nil {
		return "", fmt.Errorf("calendar parameter: %w", err)
	}
	return s, nil
}

func langParam(raw string) language.Tag {
	if raw == "" {
		return language.English
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.English
	}
	return tag
}
