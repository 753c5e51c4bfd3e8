package task

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/nivora/nivora/internal/event_bus"
	"github.com/nivora/nivora/internal/store"
	"github.com/nivora/nivora/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func setup(t *testing.T) (*ServiceImpl, *utils.MockClock) {
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	return NewService(NewRepository(store.NewMemoryStore()), event_bus.NewEventBus(), clock), clock
}

func TestServiceImpl_CompletionInvariants(t *testing.T) {
	t.Run("should default to pending and not completed", func(t *testing.T) {
		service, _ := setup(t)

		created, err := service.Create(ctx, Task{Title: "Pay rent"})

		require.NoError(t, err)
		assert.Equal(t, Pending, created.Status)
		assert.Equal(t, Medium, created.Priority)
		assert.False(t, created.Completed)
		assert.Nil(t, created.CompletedAt)
	})

	t.Run("should set completedAt exactly once", func(t *testing.T) {
		// given
		service, clock := setup(t)
		created, err := service.Create(ctx, Task{Title: "Pay rent"})
		require.NoError(t, err)
		firstCompletion := clock.Now().Add(time.Hour)
		clock.SetNow(firstCompletion)

		// when
		created.Status = Completed
		completed, err := service.Update(ctx, created)
		require.NoError(t, err)

		clock.Advance(24 * time.Hour)
		completed.Title = "Pay rent (March)"
		edited, err := service.Update(ctx, completed)
		require.NoError(t, err)

		// then
		assert.True(t, completed.Completed)
		require.NotNil(t, edited.CompletedAt)
		assert.True(t, firstCompletion.Equal(*edited.CompletedAt))
	})

	t.Run("should keep completed in sync when reopening", func(t *testing.T) {
		// given
		service, _ := setup(t)
		created, err := service.Create(ctx, Task{Title: "Gym", Status: Completed})
		require.NoError(t, err)
		require.True(t, created.Completed)

		// when
		created.Status = InProgress
		created.Completed = true
		reopened, err := service.Update(ctx, created)

		// then
		require.NoError(t, err)
		assert.False(t, reopened.Completed)
		assert.Equal(t, InProgress, reopened.Status)
	})

	t.Run("should treat legacy completed flag as completed status", func(t *testing.T) {
		service, _ := setup(t)

		created, err := service.Create(ctx, Task{Title: "Legacy", Completed: true})

		require.NoError(t, err)
		assert.Equal(t, Completed, created.Status)
		assert.NotNil(t, created.CompletedAt)
	})

	t.Run("should reject invalid tasks", func(t *testing.T) {
		service, _ := setup(t)

		_, err := service.Create(ctx, Task{Title: " "})
		assert.ErrorIs(t, err, ErrInvalidTask)

		_, err = service.Create(ctx, Task{Title: "x", Status: "done"})
		assert.ErrorIs(t, err, ErrInvalidTask)
	})
}

func TestHandler_CreateAndList(t *testing.T) {
	// given
	service, _ := setup(t)
	handler := NewHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/tasks", handler.ListTasks).Methods("GET")
	router.HandleFunc("/api/tasks", handler.CreateTask).Methods("POST")
	router.HandleFunc("/api/tasks/{id}", handler.DeleteTask).Methods("DELETE")

	// when
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"title":"Write report","priority":"high"}`)))

	// then
	require.Equal(t, http.StatusCreated, w.Code)
	var created TaskDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "Write report", created.Title)
	assert.Equal(t, "pending", created.Status)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	var listed []TaskDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	assert.Len(t, listed, 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/tasks/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString(`{"title":""}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
