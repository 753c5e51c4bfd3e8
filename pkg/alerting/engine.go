// Package alerting runs evaluation passes: it snapshots the domain collections, feeds the
// snapshot to the rules and hands the candidates to the notification dispatcher.
package alerting

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nivora/nivora/internal/event_bus"
	"github.com/nivora/nivora/internal/utils"
	"github.com/nivora/nivora/pkg/budget"
	"github.com/nivora/nivora/pkg/finance"
	"github.com/nivora/nivora/pkg/goal"
	"github.com/nivora/nivora/pkg/notification"
	"github.com/nivora/nivora/pkg/rules"
	"github.com/nivora/nivora/pkg/task"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

type budgetSource interface {
	GetAll(ctx context.Context) (budget.Limits, error)
}

// Sources gives the engine read-only access to the domain collections.
type Sources struct {
	Transactions lister[finance.Transaction]
	Goals        lister[goal.Goal]
	Tasks        lister[task.Task]
	Budgets      budgetSource
}

type Result struct {
	// Skipped is set when another pass was still running and this one did nothing.
	Skipped    bool
	Candidates int
	Dispatched []notification.Notification
	Duration   time.Duration
}

type Engine struct {
	sources             Sources
	notifications       notification.Service
	rules               []rules.Rule
	lowBalanceThreshold decimal.Decimal
	clock               utils.Clock
	running             atomic.Bool
	pending             atomic.Bool
}

func NewEngine(sources Sources, notifications notification.Service, ruleSet []rules.Rule, lowBalanceThreshold decimal.Decimal, clock utils.Clock) *Engine {
	return &Engine{
		sources:             sources,
		notifications:       notifications,
		rules:               ruleSet,
		lowBalanceThreshold: lowBalanceThreshold,
		clock:               clock,
	}
}

// Evaluate runs one pass. Only one pass runs at a time: a call made while another pass is
// in progress returns immediately with Result.Skipped set, and the running call follows up
// with one more pass so the data that triggered the skipped call is still evaluated. The
// returned Result covers every pass the call ran.
func (e *Engine) Evaluate(ctx context.Context) (Result, error) {
	e.pending.Store(true)
	if !e.running.CompareAndSwap(false, true) {
		log.Debug("Evaluation pass already running, queued a follow-up pass")
		return Result{Skipped: true}, nil
	}

	started := time.Now()
	var result Result
	for {
		for e.pending.Swap(false) {
			candidates, dispatched, err := e.pass(ctx)
			if err != nil {
				e.running.Store(false)
				return Result{}, err
			}
			result.Candidates += candidates
			result.Dispatched = append(result.Dispatched, dispatched...)
		}
		e.running.Store(false)
		// a call may have queued a pass after the last check but before running was released
		if !e.pending.Load() || !e.running.CompareAndSwap(false, true) {
			break
		}
	}
	result.Duration = time.Since(started)
	log.Debugf("Evaluation finished in %s: %d candidate(s), %d dispatched", result.Duration, result.Candidates, len(result.Dispatched))
	return result, nil
}

func (e *Engine) pass(ctx context.Context) (int, []notification.Notification, error) {
	snapshot, err := e.snapshot(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("could not take snapshot: %w", err)
	}
	candidates := rules.EvaluateAll(e.rules, snapshot, e.notifications.List(ctx))
	dispatched, err := e.notifications.Dispatch(ctx, candidates)
	if err != nil {
		return 0, nil, fmt.Errorf("could not dispatch alerts: %w", err)
	}
	return len(candidates), dispatched, nil
}

func (e *Engine) snapshot(ctx context.Context) (rules.Snapshot, error) {
	transactions, err := e.sources.Transactions.List(ctx)
	if err != nil {
		return rules.Snapshot{}, err
	}
	goals, err := e.sources.Goals.List(ctx)
	if err != nil {
		return rules.Snapshot{}, err
	}
	tasks, err := e.sources.Tasks.List(ctx)
	if err != nil {
		return rules.Snapshot{}, err
	}
	budgets, err := e.sources.Budgets.GetAll(ctx)
	if err != nil {
		return rules.Snapshot{}, err
	}
	return rules.Snapshot{
		Now:                 e.clock.Now(),
		Transactions:        transactions,
		Budgets:             budgets,
		Goals:               goals,
		Tasks:               tasks,
		LowBalanceThreshold: e.lowBalanceThreshold,
	}, nil
}

// Subscribe re-evaluates whenever a transaction, budget, goal or task changes.
func (e *Engine) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	unsubscribers := []func(){
		event_bus.SubscribeTyped(bus, event_bus.FinanceChangedEvent, func(ev event_bus.EventT[event_bus.TransactionChanged]) error {
			return e.onChange(ev.Context(), string(ev.Type))
		}),
		event_bus.SubscribeTyped(bus, event_bus.BudgetChangedEvent, func(ev event_bus.EventT[event_bus.BudgetChanged]) error {
			return e.onChange(ev.Context(), string(ev.Type))
		}),
		event_bus.SubscribeTyped(bus, event_bus.GoalChangedEvent, func(ev event_bus.EventT[event_bus.GoalChanged]) error {
			return e.onChange(ev.Context(), string(ev.Type))
		}),
		event_bus.SubscribeTyped(bus, event_bus.TaskChangedEvent, func(ev event_bus.EventT[event_bus.TaskChanged]) error {
			return e.onChange(ev.Context(), string(ev.Type))
		}),
	}
	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}

func (e *Engine) onChange(ctx context.Context, cause string) error {
	log.Debugf("Evaluating alerts after %s", cause)
	_, err := e.Evaluate(ctx)
	return err
}
