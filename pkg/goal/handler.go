package goal

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type GoalDTO struct {
	Id            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type,omitempty"`
	TargetAmount  float64    `json:"targetAmount"`
	CurrentAmount float64    `json:"currentAmount"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	Status        string     `json:"status,omitempty"`
	Progress      float64    `json:"progress"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListGoals godoc
// @Summary List all goals with their progress
// @Tags Goal
// @Produce json
// @Success 200 {array} GoalDTO
// @Router /api/goals [get]
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing goals")
	goals, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, GoalToDTO(g))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateGoal godoc
// @Summary Create a goal
// @Tags Goal
// @Accept json
// @Produce json
// @Param goal body GoalDTO true "Goal"
// @Success 201 {object} GoalDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/goals [post]
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating goal")
	var dto GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), DTOToGoal(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, GoalToDTO(created))
}

// UpdateGoal godoc
// @Summary Update a goal
// @Tags Goal
// @Accept json
// @Produce json
// @Param id path string true "Goal ID"
// @Param goal body GoalDTO true "Goal"
// @Success 200 {object} GoalDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Goal Not Found"
// @Router /api/goals/{id} [put]
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating goal")
	id := mux.Vars(r)["id"]
	var dto GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id != "" && dto.Id != id {
		http.Error(w, "Invalid goal id in request body", http.StatusBadRequest)
		return
	}
	dto.Id = id
	updated, err := h.service.Update(r.Context(), DTOToGoal(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GoalToDTO(updated))
}

// DeleteGoal godoc
// @Summary Delete a goal
// @Tags Goal
// @Param id path string true "Goal ID"
// @Success 204
// @Failure 404 {string} string "Goal Not Found"
// @Router /api/goals/{id} [delete]
func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting goal")
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGoalNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidGoal):
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

func GoalToDTO(g Goal) GoalDTO {
	return GoalDTO{
		Id:            g.Id,
		Title:         g.Title,
		Description:   g.Description,
		Type:          string(g.Type),
		TargetAmount:  g.TargetAmount.InexactFloat64(),
		CurrentAmount: g.CurrentAmount.InexactFloat64(),
		Deadline:      g.Deadline,
		Status:        string(g.Status),
		Progress:      g.Progress().Round(2).InexactFloat64(),
	}
}

func DTOToGoal(dto GoalDTO) Goal {
	return Goal{
		Id:            dto.Id,
		Title:         dto.Title,
		Description:   dto.Description,
		Type:          Type(dto.Type),
		TargetAmount:  decimal.NewFromFloat(dto.TargetAmount),
		CurrentAmount: decimal.NewFromFloat(dto.CurrentAmount),
		Deadline:      dto.Deadline,
		Status:        Status(dto.Status),
	}
}
