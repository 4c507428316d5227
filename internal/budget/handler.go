package budget

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/text/language"

	"github.com/hesab/hesab/internal/money"
	"github.com/hesab/hesab/internal/period"
	"github.com/hesab/hesab/internal/platform/httpx"
	"github.com/hesab/hesab/internal/shared"
)

// IdempotencyHeader carries the client supplied request key for creates.
const IdempotencyHeader = "Idempotency-Key"

const idempotencyModule = "budget.create"

// IdempotencyGuard rejects replayed create requests.
type IdempotencyGuard interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Enqueuer schedules a threshold scan after budgets change.
type Enqueuer interface {
	EnqueueThresholdScan(ctx context.Context, categoryID *int64) (*asynq.TaskInfo, error)
}

// Handler exposes budget routes.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	idempotency IdempotencyGuard
	enqueuer    Enqueuer
	formatter   *money.Formatter
}

// NewHandler constructs the handler. idempotency and enqueuer may be nil.
func NewHandler(logger *slog.Logger, service *Service, idempotency IdempotencyGuard, enqueuer Enqueuer) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		idempotency: idempotency,
		enqueuer:    enqueuer,
		formatter:   money.NewFormatter(language.English),
	}
}

// MountRoutes registers budget routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/period/current", h.CurrentPeriod)
	r.Post("/period/repeat", h.RepeatPeriods)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/usage", h.Usage)
}

type budgetView struct {
	Budget
	AmountDisplay   string `json:"amount_display"`
	AmountSecondary string `json:"amount_secondary"`
}

type usageView struct {
	Usage
	SpentDisplay     string `json:"spent_display"`
	RemainingDisplay string `json:"remaining_display"`
}

type repeatRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Repeat    int    `json:"repeat"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filters ListFilters
	if raw := strings.TrimSpace(query.Get("category_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Category", "category_id must be a positive integer")
			return
		}
		filters.CategoryID = &id
	}
	filters.Overall = query.Get("overall") == "true"

	items, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, err)
		return
	}
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(items))
	start, end := pagination.Bounds()

	currency := h.service.DisplayCurrency(r.Context())
	views := make([]budgetView, 0, end-start)
	for _, b := range items[start:end] {
		views = append(views, h.view(b, currency))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"budgets": views, "pagination": pagination})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.view(b, h.service.DisplayCurrency(r.Context())))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if key != "" && h.idempotency != nil {
		if err := h.idempotency.CheckAndInsert(ctx, key, idempotencyModule); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				httpx.Problem(w, http.StatusConflict, "Duplicate Request", err.Error())
				return
			}
			h.respondError(w, err)
			return
		}
	}

	result, err := h.service.Create(ctx, input)
	if err != nil {
		if key != "" && h.idempotency != nil {
			if delErr := h.idempotency.Delete(ctx, key); delErr != nil {
				h.logger.Warn("release idempotency key", slog.Any("error", delErr))
			}
		}
		h.respondError(w, err)
		return
	}
	if h.enqueuer != nil {
		if _, err := h.enqueuer.EnqueueThresholdScan(ctx, input.CategoryID); err != nil {
			h.logger.Warn("enqueue threshold scan", slog.Any("error", err))
		}
	}

	currency := h.service.DisplayCurrency(ctx)
	repeats := make([]budgetView, 0, len(result.Repeats))
	for _, b := range result.Repeats {
		repeats = append(repeats, h.view(b, currency))
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"budget":  h.view(result.Budget, currency),
		"repeats": repeats,
		"skipped": result.Skipped,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var input UpdateInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	b, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.view(b, h.service.DisplayCurrency(r.Context())))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	usage, err := h.service.Usage(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	currency := h.service.DisplayCurrency(r.Context())
	httpx.JSON(w, http.StatusOK, usageView{
		Usage:            usage,
		SpentDisplay:     h.formatter.Format(usage.Spent, currency),
		RemainingDisplay: h.formatter.Format(usage.Remaining, currency),
	})
}

func (h *Handler) CurrentPeriod(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.DefaultPeriod(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) RepeatPeriods(w http.ResponseWriter, r *http.Request) {
	var req repeatRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if req.Repeat < 0 || req.Repeat > MaxRepeat {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Repeat", "repeat must be between 0 and "+strconv.Itoa(MaxRepeat))
		return
	}
	periods, err := h.service.PreviewRepeats(r.Context(), period.Period{StartDate: req.StartDate, EndDate: req.EndDate}, req.Repeat)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if periods == nil {
		periods = []period.Period{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"periods": periods})
}

func (h *Handler) view(b Budget, currency string) budgetView {
	primary, secondary := h.formatter.Dual(b.AmountLimit, currency)
	return budgetView{Budget: b, AmountDisplay: primary, AmountSecondary: secondary}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var overlap *OverlapError
	switch {
	case errors.As(err, &overlap):
		httpx.Problem(w, http.StatusConflict, "Overlapping Budget", overlap.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidAmount):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Amount", err.Error())
	default:
		if !httpx.IsClientError(err) {
			h.logger.Error("budget request", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "budget id must be numeric")
		return 0, false
	}
	return id, true
}
