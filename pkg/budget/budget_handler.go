package budget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type LimitDTO struct {
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
}

type BudgetHandler struct {
	service BudgetService
}

func NewBudgetHandler(service BudgetService) *BudgetHandler {
	return &BudgetHandler{service}
}

// GetAll godoc
// @Summary Monthly spending limits by category
// @Tags Budget
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /api/budgets [get]
func (h *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting all budgets")
	limits, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dto := make(map[string]float64, len(limits))
	for category, limit := range limits {
		dto[category] = limit.InexactFloat64()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SetLimit godoc
// @Summary Set the monthly limit for a category
// @Tags Budget
// @Accept json
// @Param category path string true "Category"
// @Param limit body LimitDTO true "Limit"
// @Success 204
// @Failure 400 {string} string "Bad Request"
// @Router /api/budgets/{category} [put]
func (h *BudgetHandler) SetLimit(w http.ResponseWriter, r *http.Request) {
	log.Debug("Setting budget limit")
	category := mux.Vars(r)["category"]
	var dto LimitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err := h.service.SetLimit(r.Context(), category, decimal.NewFromFloat(dto.Limit))
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) || errors.Is(err, ErrInvalidLimit) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Remove the limit of a category
// @Tags Budget
// @Param category path string true "Category"
// @Success 204
// @Failure 404 {string} string "Budget Not Found"
// @Router /api/budgets/{category} [delete]
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting budget limit")
	err := h.service.Delete(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		if errors.Is(err, ErrBudgetNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
