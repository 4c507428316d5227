package categories

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	items  map[int64]Category
	nextID int64
}

func newMockRepository(seed ...Category) *mockRepository {
	m := &mockRepository{items: make(map[int64]Category), nextID: 1}
	for _, c := range seed {
		c.ID = m.nextID
		m.items[c.ID] = c
		m.nextID++
	}
	return m
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Category, error) {
	var out []Category
	for _, c := range m.items {
		if filters.Type != "" && c.Type != filters.Type {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Category, error) {
	c, ok := m.items[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) Create(ctx context.Context, category Category) (Category, error) {
	category.ID = m.nextID
	m.nextID++
	m.items[category.ID] = category
	return category, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, category Category) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	category.ID = id
	m.items[id] = category
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func TestDisplayName(t *testing.T) {
	svc := NewService(newMockRepository(Category{Name: "Groceries", Type: TypeExpense}))
	ctx := context.Background()

	name, err := svc.DisplayName(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Overall", name)

	id := int64(1)
	name, err = svc.DisplayName(ctx, &id)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", name)

	missing := int64(42)
	name, err = svc.DisplayName(ctx, &missing)
	require.NoError(t, err)
	assert.Equal(t, "Unknown Category", name)
}

func TestCreateNormalizesAndValidates(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	created, err := svc.Create(ctx, Category{Name: "  Rent ", Type: "expense"})
	require.NoError(t, err)
	assert.Equal(t, "Rent", created.Name)
	assert.Equal(t, TypeExpense, created.Type)
	assert.Equal(t, "#000000", created.Color)

	var validationErrs validator.ValidationErrors
	_, err = svc.Create(ctx, Category{Name: "", Type: TypeExpense})
	require.ErrorAs(t, err, &validationErrs)

	_, err = svc.Create(ctx, Category{Name: "Salary", Type: "SAVINGS"})
	require.ErrorAs(t, err, &validationErrs)

	_, err = svc.Create(ctx, Category{Name: "Salary", Type: TypeIncome, Color: "green"})
	require.ErrorAs(t, err, &validationErrs)
}

func TestInvalidIDsAreNotFound(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	_, err := svc.Get(ctx, 0)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, -1), ErrNotFound)
	require.ErrorIs(t, svc.Update(ctx, 0, Category{Name: "x", Type: TypeIncome}), ErrNotFound)
}

func TestHandlerListAndCreate(t *testing.T) {
	repo := newMockRepository(
		Category{Name: "Salary", Type: TypeIncome, Color: "#00ff00"},
		Category{Name: "Groceries", Type: TypeExpense, Color: "#ff0000"},
	)
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(repo))
	r := chi.NewRouter()
	r.Route("/categories", h.MountRoutes)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/categories/?type=expense", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Groceries")
	assert.NotContains(t, rr.Body.String(), "Salary")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/categories/?type=savings", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/categories/", strings.NewReader(`{"name":"Fuel","type":"EXPENSE"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":3`)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/categories/99", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/categories/3", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
}
