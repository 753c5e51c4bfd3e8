package notification

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type NotificationDTO struct {
	Id        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Priority  string          `json:"priority"`
	Read      bool            `json:"read"`
	Timestamp string          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty" swaggertype:"object"`
}

type CreateNotificationDTO struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority,omitempty"`
}

type UnreadCountDTO struct {
	Unread int `json:"unread"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// List godoc
// @Summary List notifications, newest first
// @Tags Notification
// @Produce json
// @Success 200 {array} NotificationDTO
// @Router /api/notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	notifications := h.service.List(r.Context())
	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dto, err := NotificationToDTO(n)
		if err != nil {
			log.Errorf("could not encode notification %s: %v", n.Id, err)
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Create godoc
// @Summary Add a notification manually
// @Tags Notification
// @Accept json
// @Produce json
// @Param notification body CreateNotificationDTO true "Notification"
// @Success 201 {object} NotificationDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/notifications [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var body CreateNotificationDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Add(r.Context(), Notification{
		Type:     Kind(body.Type),
		Title:    body.Title,
		Message:  body.Message,
		Priority: Priority(body.Priority),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	dto, err := NotificationToDTO(created)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags Notification
// @Produce json
// @Success 200 {object} UnreadCountDTO
// @Router /api/notifications/unread-count [get]
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UnreadCountDTO{Unread: h.service.UnreadCount(r.Context())})
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notification
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {string} string "Notification Not Found"
// @Router /api/notifications/{id}/read [put]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary Mark all notifications as read
// @Tags Notification
// @Success 204
// @Router /api/notifications/read [put]
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkAllRead(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a notification
// @Tags Notification
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {string} string "Notification Not Found"
// @Router /api/notifications/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAll godoc
// @Summary Delete all notifications
// @Tags Notification
// @Success 204
// @Router /api/notifications [delete]
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotificationNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidNotification):
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

func NotificationToDTO(n Notification) (NotificationDTO, error) {
	dto := NotificationDTO{
		Id:        n.Id,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Priority:  string(n.Priority),
		Read:      n.Read,
		Timestamp: n.Timestamp.Format(time.RFC3339),
	}
	if n.Payload != nil {
		raw, err := json.Marshal(n.Payload)
		if err != nil {
			return NotificationDTO{}, err
		}
		dto.Payload = raw
	}
	return dto, nil
}
