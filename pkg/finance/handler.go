package finance

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type RecurringDTO struct {
	IsRecurring bool       `json:"isRecurring"`
	Frequency   string     `json:"frequency,omitempty"`
	NextDate    *time.Time `json:"nextDate,omitempty"`
}

type TransactionDTO struct {
	Id            string        `json:"id"`
	Type          string        `json:"type"`
	Amount        *float64      `json:"amount"`
	Category      string        `json:"category"`
	Description   string        `json:"description,omitempty"`
	Date          time.Time     `json:"date"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	Recurring     *RecurringDTO `json:"recurring,omitempty"`
}

type SummaryDTO struct {
	TotalIncome   float64            `json:"totalIncome"`
	TotalExpenses float64            `json:"totalExpenses"`
	Balance       float64            `json:"balance"`
	ByCategory    map[string]float64 `json:"byCategory"`
	Count         int                `json:"transactionCount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListTransactions godoc
// @Summary List all transactions
// @Tags Finance
// @Produce json
// @Success 200 {array} TransactionDTO
// @Router /api/finance/transactions [get]
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing transactions")
	transactions, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, TransactionToDTO(t))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTransaction godoc
// @Summary Record a new income or expense
// @Tags Finance
// @Accept json
// @Produce json
// @Param transaction body TransactionDTO true "Transaction"
// @Success 201 {object} TransactionDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/finance/transactions [post]
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating transaction")
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), DTOToTransaction(dto))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, TransactionToDTO(created))
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Tags Finance
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param transaction body TransactionDTO true "Transaction"
// @Success 200 {object} TransactionDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Transaction Not Found"
// @Router /api/finance/transactions/{id} [put]
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating transaction")
	id := mux.Vars(r)["id"]
	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id != "" && dto.Id != id {
		http.Error(w, "Invalid transaction id in request body", http.StatusBadRequest)
		return
	}
	dto.Id = id
	updated, err := h.service.Update(r.Context(), DTOToTransaction(dto))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TransactionToDTO(updated))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags Finance
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {string} string "Transaction Not Found"
// @Router /api/finance/transactions/{id} [delete]
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting transaction")
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary godoc
// @Summary Income, expenses, balance and per-category spend over all transactions
// @Tags Finance
// @Produce json
// @Success 200 {object} SummaryDTO
// @Router /api/finance/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	byCategory := make(map[string]float64, len(summary.ByCategory))
	for category, amount := range summary.ByCategory {
		byCategory[category] = amount.InexactFloat64()
	}
	writeJSON(w, http.StatusOK, SummaryDTO{
		TotalIncome:   summary.TotalIncome.InexactFloat64(),
		TotalExpenses: summary.TotalExpenses.InexactFloat64(),
		Balance:       summary.Balance.InexactFloat64(),
		ByCategory:    byCategory,
		Count:         summary.Count,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTransactionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidFrequency), errors.Is(err, ErrInvalidPaymentMethod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func TransactionToDTO(t Transaction) TransactionDTO {
	dto := TransactionDTO{
		Id:            t.Id,
		Type:          string(t.Type),
		Category:      t.Category,
		Description:   t.Description,
		Date:          t.Date,
		PaymentMethod: string(t.PaymentMethod),
		Tags:          t.Tags,
	}
	if t.Amount.Valid {
		amount := t.Amount.Decimal.InexactFloat64()
		dto.Amount = &amount
	}
	if t.Recurring != nil {
		dto.Recurring = &RecurringDTO{
			IsRecurring: t.Recurring.IsRecurring,
			Frequency:   string(t.Recurring.Frequency),
			NextDate:    t.Recurring.NextDate,
		}
	}
	return dto
}

func DTOToTransaction(dto TransactionDTO) Transaction {
	t := Transaction{
		Id:            dto.Id,
		Type:          TransactionType(dto.Type),
		Category:      dto.Category,
		Description:   dto.Description,
		Date:          dto.Date,
		PaymentMethod: PaymentMethod(dto.PaymentMethod),
		Tags:          dto.Tags,
	}
	if dto.Amount != nil {
		t.Amount = decimal.NewNullDecimal(decimal.NewFromFloat(*dto.Amount))
	}
	if dto.Recurring != nil {
		t.Recurring = &Recurring{
			IsRecurring: dto.Recurring.IsRecurring,
			Frequency:   Frequency(dto.Recurring.Frequency),
			NextDate:    dto.Recurring.NextDate,
		}
	}
	return t
}
