package finance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/nivora/nivora/internal/event_bus"
	"github.com/nivora/nivora/internal/store"
	"github.com/nivora/nivora/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func amount(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func setup(t *testing.T) (*ServiceImpl, *event_bus.EventBus, *utils.MockClock) {
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	service := NewService(NewRepository(store.NewMemoryStore()), bus, clock)
	return service, bus, clock
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should assign id, defaults and publish a change event", func(t *testing.T) {
		// given
		service, bus, clock := setup(t)
		var published []event_bus.TransactionChanged
		event_bus.SubscribeTyped(bus, event_bus.FinanceChangedEvent, func(e event_bus.EventT[event_bus.TransactionChanged]) error {
			published = append(published, e.Data)
			return nil
		})

		// when
		created, err := service.Create(ctx, Transaction{Type: Expense, Amount: amount(250)})

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.Id)
		assert.Equal(t, DefaultCategory, created.Category)
		assert.Equal(t, Cash, created.PaymentMethod)
		assert.True(t, clock.Now().Equal(created.Date))
		require.Len(t, published, 1)
		assert.Equal(t, event_bus.TransactionChanged{Id: created.Id, Kind: event_bus.Created}, published[0])
	})

	t.Run("should reject a negative amount", func(t *testing.T) {
		service, _, _ := setup(t)

		_, err := service.Create(ctx, Transaction{Type: Expense, Amount: amount(-1)})

		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("should reject a missing amount", func(t *testing.T) {
		service, _, _ := setup(t)

		_, err := service.Create(ctx, Transaction{Type: Income})

		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		service, _, _ := setup(t)

		_, err := service.Create(ctx, Transaction{Type: "transfer", Amount: amount(1)})

		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("should reject an unknown recurring frequency", func(t *testing.T) {
		service, _, _ := setup(t)

		_, err := service.Create(ctx, Transaction{
			Type:      Expense,
			Amount:    amount(10),
			Recurring: &Recurring{IsRecurring: true, Frequency: "hourly"},
		})

		assert.ErrorIs(t, err, ErrInvalidFrequency)
	})

	t.Run("should reject an unknown payment method", func(t *testing.T) {
		service, _, _ := setup(t)

		_, err := service.Create(ctx, Transaction{Type: Expense, Amount: amount(10), PaymentMethod: "barter"})

		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})
}

func TestHandler_RejectsInvalidInput(t *testing.T) {
	service, _, _ := setup(t)
	r := mux.NewRouter()
	handler := NewHandler(service)
	r.HandleFunc("/api/finance/transactions", handler.CreateTransaction).Methods("POST")

	for name, body := range map[string]string{
		"frequency":      `{"type":"expense","amount":10,"recurring":{"isRecurring":true,"frequency":"hourly"}}`,
		"payment method": `{"type":"expense","amount":10,"paymentMethod":"barter"}`,
	} {
		t.Run("should answer bad request for an invalid "+name, func(t *testing.T) {
			w := httptest.NewRecorder()

			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/finance/transactions", strings.NewReader(body)))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestServiceImpl_UpdateAndDelete(t *testing.T) {
	t.Run("should keep creation time on update", func(t *testing.T) {
		// given
		service, _, clock := setup(t)
		created, err := service.Create(ctx, Transaction{Type: Expense, Amount: amount(100), Category: "Food"})
		require.NoError(t, err)
		clock.Advance(time.Hour)

		// when
		created.Amount = amount(120)
		updated, err := service.Update(ctx, created)

		// then
		require.NoError(t, err)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		assert.True(t, clock.Now().Equal(updated.UpdatedAt))
		stored, err := service.Get(ctx, created.Id)
		require.NoError(t, err)
		assert.True(t, stored.Amount.Decimal.Equal(decimal.NewFromInt(120)))
	})

	t.Run("should return not found for unknown transaction", func(t *testing.T) {
		service, _, _ := setup(t)

		_, err := service.Update(ctx, Transaction{Id: "missing", Type: Expense, Amount: amount(1)})
		assert.ErrorIs(t, err, ErrTransactionNotFound)

		err = service.Delete(ctx, "missing")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("should delete a transaction", func(t *testing.T) {
		// given
		service, _, _ := setup(t)
		created, err := service.Create(ctx, Transaction{Type: Income, Amount: amount(5)})
		require.NoError(t, err)

		// when
		err = service.Delete(ctx, created.Id)

		// then
		require.NoError(t, err)
		all, err := service.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		{Type: Income, Amount: amount(5000), Category: "Salary", Date: now},
		{Type: Expense, Amount: amount(600), Category: "Food", Date: now},
		{Type: Expense, Amount: amount(400), Category: "Food", Date: now.AddDate(0, -1, 0)},
		{Type: Expense, Amount: amount(100), Date: now},
		{Type: Expense, Category: "Broken", Date: now},           // no amount
		{Type: Expense, Amount: amount(999), Category: "Broken"}, // no date
	}

	t.Run("should aggregate all valid transactions", func(t *testing.T) {
		summary := Summarize(transactions, nil)

		assert.Equal(t, 4, summary.Count)
		assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(5000)))
		assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(1100)))
		assert.True(t, summary.Balance.Equal(decimal.NewFromInt(3900)))
		assert.True(t, summary.ByCategory["Food"].Equal(decimal.NewFromInt(1000)))
		assert.True(t, summary.ByCategory[DefaultCategory].Equal(decimal.NewFromInt(100)))
		assert.NotContains(t, summary.ByCategory, "Broken")
	})

	t.Run("should restrict to the calendar month", func(t *testing.T) {
		summary := Summarize(transactions, InMonth(now))

		assert.True(t, summary.TotalExpenses.Equal(decimal.NewFromInt(700)))
	})
}
