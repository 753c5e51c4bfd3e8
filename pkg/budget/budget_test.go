package budget

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/nivora/nivora/internal/event_bus"
	"github.com/nivora/nivora/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimits_Limit(t *testing.T) {
	tests := []struct {
		name     string
		limits   Limits
		category string
		want     decimal.Decimal
		wantOk   bool
	}{
		{
			name:     "configured category",
			limits:   Limits{"Food": decimal.NewFromInt(500)},
			category: "Food",
			want:     decimal.NewFromInt(500),
			wantOk:   true,
		},
		{
			name:     "unknown category",
			limits:   Limits{"Food": decimal.NewFromInt(500)},
			category: "Travel",
			want:     decimal.Zero,
			wantOk:   false,
		},
		{
			name:     "zero limit is treated as not configured",
			limits:   Limits{"Food": decimal.Zero},
			category: "Food",
			want:     decimal.Zero,
			wantOk:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.limits.Limit(tt.category)
			assert.Equal(t, tt.wantOk, ok)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestBudgetServiceImpl(t *testing.T) {
	ctx := context.Background()

	t.Run("should store, overwrite and delete limits", func(t *testing.T) {
		// given
		bus := event_bus.NewEventBus()
		changes := 0
		bus.Subscribe(event_bus.BudgetChangedEvent, func(e event_bus.Event) error {
			changes++
			return nil
		})
		service := NewBudgetServiceImpl(NewBudgetRepo(store.NewMemoryStore()), bus)

		// when
		require.NoError(t, service.SetLimit(ctx, " Food ", decimal.NewFromInt(500)))
		require.NoError(t, service.SetLimit(ctx, "Food", decimal.NewFromInt(700)))
		require.NoError(t, service.SetLimit(ctx, "Travel", decimal.NewFromInt(300)))
		require.NoError(t, service.Delete(ctx, "Travel"))

		// then
		limits, err := service.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, limits, 1)
		assert.True(t, limits["Food"].Equal(decimal.NewFromInt(700)))
		assert.Equal(t, 4, changes)
	})

	t.Run("should reject invalid input", func(t *testing.T) {
		service := NewBudgetServiceImpl(NewBudgetRepo(store.NewMemoryStore()), event_bus.NewEventBus())

		assert.ErrorIs(t, service.SetLimit(ctx, "", decimal.NewFromInt(1)), ErrInvalidCategory)
		assert.ErrorIs(t, service.SetLimit(ctx, "Food", decimal.Zero), ErrInvalidLimit)
		assert.ErrorIs(t, service.Delete(ctx, "Food"), ErrBudgetNotFound)
	})
}

func TestBudgetHandler_SetLimit(t *testing.T) {
	// given
	service := NewBudgetServiceImpl(NewBudgetRepo(store.NewMemoryStore()), event_bus.NewEventBus())
	handler := NewBudgetHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/budgets/{category}", handler.SetLimit).Methods("PUT")
	router.HandleFunc("/api/budgets", handler.GetAll).Methods("GET")

	// when
	req := httptest.NewRequest(http.MethodPut, "/api/budgets/Food", bytes.NewBufferString(`{"limit": 500}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// then
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/budgets", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Food": 500}`, w.Body.String())
}
