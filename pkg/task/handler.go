package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TaskDTO struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListTasks godoc
// @Summary List all tasks
// @Tags Task
// @Produce json
// @Success 200 {array} TaskDTO
// @Router /api/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing tasks")
	tasks, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, TaskToDTO(t))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTask godoc
// @Summary Create a task
// @Tags Task
// @Accept json
// @Produce json
// @Param task body TaskDTO true "Task"
// @Success 201 {object} TaskDTO
// @Failure 400 {string} string "Bad Request"
// @Router /api/tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating task")
	var dto TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := h.service.Create(r.Context(), DTOToTask(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, TaskToDTO(created))
}

// UpdateTask godoc
// @Summary Update a task
// @Tags Task
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body TaskDTO true "Task"
// @Success 200 {object} TaskDTO
// @Failure 400 {string} string "Bad Request"
// @Failure 404 {string} string "Task Not Found"
// @Router /api/tasks/{id} [put]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating task")
	id := mux.Vars(r)["id"]
	var dto TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if dto.Id != "" && dto.Id != id {
		http.Error(w, "Invalid task id in request body", http.StatusBadRequest)
		return
	}
	dto.Id = id
	updated, err := h.service.Update(r.Context(), DTOToTask(dto))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TaskToDTO(updated))
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags Task
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {string} string "Task Not Found"
// @Router /api/tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting task")
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidTask):
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

func TaskToDTO(t Task) TaskDTO {
	return TaskDTO{
		Id:          t.Id,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Category:    t.Category,
		Tags:        t.Tags,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
	}
}

// DTOToTask ignores CompletedAt, the service owns it.
func DTOToTask(dto TaskDTO) Task {
	return Task{
		Id:          dto.Id,
		Title:       dto.Title,
		Description: dto.Description,
		Status:      Status(dto.Status),
		Priority:    Priority(dto.Priority),
		DueDate:     dto.DueDate,
		Category:    dto.Category,
		Tags:        dto.Tags,
		Completed:   dto.Completed,
	}
}
