package transactions

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/platform/httpx"
	"github.com/hesab/hesab/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers transaction routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Delete("/{id}", h.Delete)
}

// List accepts type, category_id and Gregorian from/to bounds.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := ListFilters{Type: Type(strings.ToUpper(strings.TrimSpace(query.Get("type"))))}
	if filters.Type != "" && filters.Type != TypeExpense && filters.Type != TypeIncome {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Type", "type must be EXPENSE or INCOME")
		return
	}
	if raw := strings.TrimSpace(query.Get("category_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Category", "category_id must be a positive integer")
			return
		}
		filters.CategoryID = &id
	}
	var err error
	if filters.From, err = parseBound(query.Get("from")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if filters.To, err = parseBound(query.Get("to")); err != nil {
		httpx.RespondError(w, err)
		return
	}

	items, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, err)
		return
	}
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(items))
	start, end := pagination.Bounds()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"transactions": append([]Transaction{}, items[start:end]...),
		"pagination":   pagination,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "transaction id must be numeric")
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "transaction id must be numeric")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidAmount):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Amount", err.Error())
	default:
		if !httpx.IsClientError(err) {
			h.logger.Error("transaction request", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}

func parseBound(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := calendar.ParseDate(raw, calendar.Gregorian)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.GregorianDate(d).Time(), nil
}
