package streak

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetStreak godoc
// @Summary Get the activity streak
// @Tags Streak
// @Produce json
// @Success 200 {object} State
// @Router /api/streak [get]
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Get(r.Context()))
}

// CheckIn godoc
// @Summary Record activity for today
// @Tags Streak
// @Produce json
// @Success 200 {object} State
// @Router /api/streak/checkin [post]
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.CheckIn(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
