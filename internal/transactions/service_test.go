package transactions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesab/hesab/internal/calendar"
	"github.com/hesab/hesab/internal/settings"
)

type mockRepository struct {
	items  map[int64]Transaction
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{items: make(map[int64]Transaction), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Transaction, error) {
	var out []Transaction
	for _, t := range m.items {
		if filters.Type != "" && t.Type != filters.Type {
			continue
		}
		if filters.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filters.CategoryID) {
			continue
		}
		if !filters.From.IsZero() && t.OccurredOn.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && t.OccurredOn.After(filters.To) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Transaction, error) {
	t, ok := m.items[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return t, nil
}

func (m *mockRepository) Create(ctx context.Context, t Transaction) (Transaction, error) {
	t.ID = m.nextID
	m.nextID++
	m.items[t.ID] = t
	return t, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type stubSettings struct {
	cfg settings.Settings
}

func (s stubSettings) Get(context.Context) (settings.Settings, error) {
	return s.cfg, nil
}

type recordingEnqueuer struct {
	scans []*int64
	err   error
}

func (e *recordingEnqueuer) EnqueueThresholdScan(_ context.Context, categoryID *int64) (*asynq.TaskInfo, error) {
	e.scans = append(e.scans, categoryID)
	if e.err != nil {
		return nil, e.err
	}
	return &asynq.TaskInfo{ID: "scan"}, nil
}

func newTestService(repo Repository, system calendar.System, enqueuer Enqueuer) *Service {
	cfg := settings.Defaults()
	cfg.Calendar = system
	svc := NewService(repo, stubSettings{cfg: cfg}, enqueuer, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return time.Date(2024, 10, 6, 12, 0, 0, 0, time.UTC) }
	return svc
}

func int64Ptr(v int64) *int64 { return &v }

func TestCreateExpenseSchedulesScan(t *testing.T) {
	repo := newMockRepository()
	enqueuer := &recordingEnqueuer{}
	svc := newTestService(repo, calendar.Gregorian, enqueuer)

	created, err := svc.Create(context.Background(), CreateInput{
		CategoryID: int64Ptr(3),
		Type:       "expense",
		Amount:     decimal.NewFromInt(40),
		Note:       "  lunch ",
		Date:       "2024-10-01",
	})
	require.NoError(t, err)
	assert.Equal(t, TypeExpense, created.Type)
	assert.Equal(t, "lunch", created.Note)
	assert.Equal(t, "2024-10-01", created.Date)
	assert.Equal(t, "2024-10-01", created.GregorianDate)
	assert.Equal(t, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), repo.items[created.ID].OccurredOn)

	require.Len(t, enqueuer.scans, 1)
	require.NotNil(t, enqueuer.scans[0])
	assert.Equal(t, int64(3), *enqueuer.scans[0])
}

func TestCreateIncomeDoesNotScan(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	svc := newTestService(newMockRepository(), calendar.Gregorian, enqueuer)

	_, err := svc.Create(context.Background(), CreateInput{Type: TypeIncome, Amount: decimal.NewFromInt(900)})
	require.NoError(t, err)
	assert.Empty(t, enqueuer.scans)
}

func TestCreateReadsDatesInSettingsCalendar(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, calendar.Persian, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Type: TypeExpense, Amount: decimal.NewFromInt(5), Date: "1403-07-15"})
	require.NoError(t, err)
	assert.Equal(t, "1403-07-15", created.Date)
	assert.Equal(t, calendar.Persian, created.Calendar)
	assert.Equal(t, "2024-10-06", created.GregorianDate)

	created, err = svc.Create(ctx, CreateInput{Type: TypeExpense, Amount: decimal.NewFromInt(5), Date: "2024-03-20", Calendar: "gregorian"})
	require.NoError(t, err)
	assert.Equal(t, "1403-01-01", created.Date)

	created, err = svc.Create(ctx, CreateInput{Type: TypeExpense, Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "2024-10-06", created.GregorianDate)

	_, err = svc.Create(ctx, CreateInput{Type: TypeExpense, Amount: decimal.NewFromInt(5), Date: "1403-12-31"})
	require.ErrorIs(t, err, calendar.ErrInvalidDate)
	_, err = svc.Create(ctx, CreateInput{Type: TypeExpense, Amount: decimal.NewFromInt(5), Calendar: "HIJRI"})
	require.ErrorIs(t, err, calendar.ErrUnsupportedCalendarSystem)

	items, err := svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, calendar.Persian, item.Calendar)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMockRepository(), calendar.Gregorian, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Type: TypeExpense, Amount: decimal.Zero})
	require.ErrorIs(t, err, ErrInvalidAmount)

	var validationErrs validator.ValidationErrors
	_, err = svc.Create(ctx, CreateInput{Type: "TRANSFER", Amount: decimal.NewFromInt(1)})
	require.ErrorAs(t, err, &validationErrs)
	_, err = svc.Create(ctx, CreateInput{Type: TypeExpense, Amount: decimal.NewFromInt(1), CategoryID: int64Ptr(0)})
	require.ErrorAs(t, err, &validationErrs)
}

func TestEnqueueFailureKeepsTransaction(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, calendar.Gregorian, &recordingEnqueuer{err: errors.New("redis down")})

	_, err := svc.Create(context.Background(), CreateInput{Type: TypeExpense, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Len(t, repo.items, 1)
}

func TestDeleteAndGet(t *testing.T) {
	svc := newTestService(newMockRepository(), calendar.Gregorian, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Type: TypeExpense, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, 0), ErrNotFound)
	_, err = svc.Get(ctx, -1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHandlerRoutes(t *testing.T) {
	enqueuer := &recordingEnqueuer{}
	svc := newTestService(newMockRepository(), calendar.Gregorian, enqueuer)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/transactions", h.MountRoutes)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		r.ServeHTTP(rr, httptest.NewRequest(method, target, reader))
		return rr
	}

	rr := do(http.MethodPost, "/transactions/", `{"category_id":1,"type":"EXPENSE","amount":"12.50","date":"2024-10-02"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = do(http.MethodPost, "/transactions/", `{"type":"INCOME","amount":"100","date":"2024-09-02"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, enqueuer.scans, 1)

	rr = do(http.MethodPost, "/transactions/", `{"type":"EXPENSE","amount":"-1"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(http.MethodPost, "/transactions/", `{"type":"EXPENSE","amount":"1","date":"2024-02-30"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(http.MethodGet, "/transactions/?type=expense&from=2024-10-01&to=2024-10-31", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Transactions []Transaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Transactions, 1)
	assert.True(t, body.Transactions[0].Amount.Equal(decimal.RequireFromString("12.5")))

	rr = do(http.MethodGet, "/transactions/?from=2024-13-01", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	rr = do(http.MethodGet, "/transactions/?type=transfer", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(http.MethodGet, "/transactions/?per_page=9223372036854775807&page=9223372036854775807", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(http.MethodDelete, "/transactions/1", "")
	require.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(http.MethodGet, "/transactions/1", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}
