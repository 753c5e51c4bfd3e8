package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Finance
	r.HandleFunc("/api/finance/transactions", deps.FinanceHandler.ListTransactions).Methods("GET")
	r.HandleFunc("/api/finance/transactions", deps.FinanceHandler.CreateTransaction).Methods("POST")
	r.HandleFunc("/api/finance/transactions/{id}", deps.FinanceHandler.UpdateTransaction).Methods("PUT")
	r.HandleFunc("/api/finance/transactions/{id}", deps.FinanceHandler.DeleteTransaction).Methods("DELETE")
	r.HandleFunc("/api/finance/summary", deps.FinanceHandler.GetSummary).Methods("GET")

	// Budgets
	r.HandleFunc("/api/budgets", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budgets/{category}", deps.BudgetHandler.SetLimit).Methods("PUT")
	r.HandleFunc("/api/budgets/{category}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Goals
	r.HandleFunc("/api/goals", deps.GoalHandler.ListGoals).Methods("GET")
	r.HandleFunc("/api/goals", deps.GoalHandler.CreateGoal).Methods("POST")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.UpdateGoal).Methods("PUT")
	r.HandleFunc("/api/goals/{id}", deps.GoalHandler.DeleteGoal).Methods("DELETE")

	// Tasks
	r.HandleFunc("/api/tasks", deps.TaskHandler.ListTasks).Methods("GET")
	r.HandleFunc("/api/tasks", deps.TaskHandler.CreateTask).Methods("POST")
	r.HandleFunc("/api/tasks/{id}", deps.TaskHandler.UpdateTask).Methods("PUT")
	r.HandleFunc("/api/tasks/{id}", deps.TaskHandler.DeleteTask).Methods("DELETE")

	// Notes
	r.HandleFunc("/api/notes", deps.NoteHandler.ListNotes).Methods("GET")
	r.HandleFunc("/api/notes", deps.NoteHandler.CreateNote).Methods("POST")
	r.HandleFunc("/api/notes/{id}", deps.NoteHandler.UpdateNote).Methods("PUT")
	r.HandleFunc("/api/notes/{id}", deps.NoteHandler.DeleteNote).Methods("DELETE")

	// Notifications
	r.HandleFunc("/api/notifications", deps.NotificationHandler.List).Methods("GET")
	r.HandleFunc("/api/notifications", deps.NotificationHandler.Create).Methods("POST")
	r.HandleFunc("/api/notifications", deps.NotificationHandler.ClearAll).Methods("DELETE")
	r.HandleFunc("/api/notifications/unread-count", deps.NotificationHandler.UnreadCount).Methods("GET")
	r.HandleFunc("/api/notifications/read", deps.NotificationHandler.MarkAllRead).Methods("PUT")
	r.HandleFunc("/api/notifications/evaluate", deps.AlertHandler.Evaluate).Methods("POST")
	r.HandleFunc("/api/notifications/{id}/read", deps.NotificationHandler.MarkRead).Methods("PUT")
	r.HandleFunc("/api/notifications/{id}", deps.NotificationHandler.Delete).Methods("DELETE")

	// Streak
	r.HandleFunc("/api/streak", deps.StreakHandler.GetStreak).Methods("GET")
	r.HandleFunc("/api/streak/checkin", deps.StreakHandler.CheckIn).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
}
