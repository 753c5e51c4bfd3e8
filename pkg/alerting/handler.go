package alerting

import (
	"encoding/json"
	"net/http"

	"github.com/nivora/nivora/pkg/notification"
	log "github.com/sirupsen/logrus"
)

type EvaluationDTO struct {
	Skipped       bool                           `json:"skipped"`
	Candidates    int                            `json:"candidates"`
	DurationMs    int64                          `json:"durationMs"`
	Notifications []notification.NotificationDTO `json:"notifications"`
}

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine}
}

// Evaluate godoc
// @Summary Run an evaluation pass now
// @Description Skipped when a pass is already running
// @Tags Notification
// @Produce json
// @Success 200 {object} EvaluationDTO
// @Router /api/notifications/evaluate [post]
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Evaluate(r.Context())
	if err != nil {
		log.Errorf("Manual evaluation failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dto := EvaluationDTO{
		Skipped:       result.Skipped,
		Candidates:    result.Candidates,
		DurationMs:    result.Duration.Milliseconds(),
		Notifications: make([]notification.NotificationDTO, 0, len(result.Dispatched)),
	}
	for _, n := range result.Dispatched {
		nDTO, err := notification.NotificationToDTO(n)
		if err != nil {
			log.Errorf("could not encode notification %s: %v", n.Id, err)
			continue
		}
		dto.Notifications = append(dto.Notifications, nDTO)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
