package app

import (
	"github.com/nivora/nivora/internal/config"
	"github.com/nivora/nivora/internal/event_bus"
	"github.com/nivora/nivora/internal/store"
	"github.com/nivora/nivora/internal/utils"
	"github.com/nivora/nivora/pkg/alerting"
	"github.com/nivora/nivora/pkg/budget"
	"github.com/nivora/nivora/pkg/finance"
	"github.com/nivora/nivora/pkg/goal"
	"github.com/nivora/nivora/pkg/note"
	"github.com/nivora/nivora/pkg/notification"
	"github.com/nivora/nivora/pkg/push"
	"github.com/nivora/nivora/pkg/rules"
	"github.com/nivora/nivora/pkg/streak"
	"github.com/nivora/nivora/pkg/task"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	FinanceRepo    *finance.RepositoryImpl
	FinanceService *finance.ServiceImpl
	FinanceHandler *finance.Handler

	BudgetRepo    budget.BudgetRepo
	BudgetService *budget.BudgetServiceImpl
	BudgetHandler *budget.BudgetHandler

	GoalRepo    *goal.RepositoryImpl
	GoalService *goal.ServiceImpl
	GoalHandler *goal.Handler

	TaskRepo    *task.RepositoryImpl
	TaskService *task.ServiceImpl
	TaskHandler *task.Handler

	NoteService *note.ServiceImpl
	NoteHandler *note.Handler

	StreakService *streak.ServiceImpl
	StreakHandler *streak.Handler

	Pusher              push.Pusher
	NotificationService *notification.ServiceImpl
	NotificationHandler *notification.Handler

	AlertEngine  *alerting.Engine
	AlertHandler *alerting.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(s store.Store, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.FinanceRepo = finance.NewRepository(s)
	deps.FinanceService = finance.NewService(deps.FinanceRepo, deps.EventBus, deps.Clock)
	deps.FinanceHandler = finance.NewHandler(deps.FinanceService)

	deps.BudgetRepo = budget.NewBudgetRepo(s)
	deps.BudgetService = budget.NewBudgetServiceImpl(deps.BudgetRepo, deps.EventBus)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.GoalRepo = goal.NewRepository(s)
	deps.GoalService = goal.NewService(deps.GoalRepo, deps.EventBus, deps.Clock)
	deps.GoalHandler = goal.NewHandler(deps.GoalService)

	deps.TaskRepo = task.NewRepository(s)
	deps.TaskService = task.NewService(deps.TaskRepo, deps.EventBus, deps.Clock)
	deps.TaskHandler = task.NewHandler(deps.TaskService)

	deps.NoteService = note.NewService(note.NewRepository(s), deps.Clock)
	deps.NoteHandler = note.NewHandler(deps.NoteService)

	deps.StreakService = streak.NewService(s, deps.Clock)
	deps.StreakHandler = streak.NewHandler(deps.StreakService)

	deps.Pusher = newPusher(cfg.Push)
	deps.NotificationService = notification.NewService(
		s,
		notification.DefaultPolicy(cfg.Alerts.Cooldown),
		cfg.Alerts.LogCapacity,
		deps.Pusher,
		deps.EventBus,
		deps.Clock,
	)
	deps.NotificationHandler = notification.NewHandler(deps.NotificationService)

	sources := alerting.Sources{
		Transactions: deps.FinanceRepo,
		Goals:        deps.GoalRepo,
		Tasks:        deps.TaskRepo,
		Budgets:      deps.BudgetRepo,
	}
	deps.AlertEngine = alerting.NewEngine(
		sources,
		deps.NotificationService,
		rules.Default(),
		decimal.NewFromFloat(cfg.Alerts.LowBalanceThreshold),
		deps.Clock,
	)
	deps.AlertHandler = alerting.NewHandler(deps.AlertEngine)

	return deps
}

func newPusher(cfg config.Push) push.Pusher {
	switch {
	case !cfg.Enabled:
		log.Info("Push notifications disabled")
		return push.DisabledPusher{}
	case cfg.Telegram.Token != "":
		log.Info("Push notifications go to Telegram")
		return push.NewTelegramPusher(cfg.Telegram.Token, cfg.Telegram.ChatId)
	default:
		return push.LogPusher{}
	}
}
