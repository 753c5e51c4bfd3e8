package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/nivora/nivora/internal/config"
	"github.com/nivora/nivora/internal/scheduler"
	"github.com/nivora/nivora/internal/store"
	"github.com/nivora/nivora/pkg/push"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, store, router, scheduler and server lifecycle.
type Application struct {
	cfg        config.Application
	router     *mux.Router
	srv        *http.Server
	deps       *Dependencies
	scheduler  *scheduler.Scheduler
	closeStore func() error
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	backing, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	s := store.WithNamespace(backing, cfg.Store.Namespace)

	// Build dependencies (services, handlers...)
	deps := BuildDependencies(s, cfg)

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	sched := scheduler.New(time.Local)
	_, err = sched.Schedule("alert-evaluation", cfg.Alerts.Schedule, func(ctx context.Context) error {
		result, err := deps.AlertEngine.Evaluate(ctx)
		if err == nil && result.Skipped {
			log.Info("Scheduled evaluation skipped, another pass is running")
		}
		return err
	})
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv, deps: deps, scheduler: sched, closeStore: closeStore}, nil
}

// Run starts the scheduler and the HTTP server and blocks until the process is asked to stop.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.deps.Pusher.RequestPermission(ctx) != push.Granted {
		log.Warn("Push notifications are not permitted, alerts are only kept in the notification log")
	}

	unsubscribe := a.deps.AlertEngine.Subscribe(a.deps.EventBus)
	defer unsubscribe()

	if a.cfg.Alerts.EvaluateOnStart {
		if _, err := a.deps.AlertEngine.Evaluate(ctx); err != nil {
			log.Errorf("Initial evaluation failed: %v", err)
		}
	}
	a.scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		serverErr <- a.srv.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}
	a.scheduler.Stop()
	a.deps.NotificationService.Flush()
	if err := a.closeStore(); err != nil {
		log.Errorf("Closing store: %v", err)
	}
	return runErr
}
