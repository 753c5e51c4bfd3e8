package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nivora/nivora/internal/event_bus"
	"github.com/nivora/nivora/internal/utils"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidGoal = errors.New("invalid goal")

type Service interface {
	List(ctx context.Context) ([]Goal, error)
	Get(ctx context.Context, id string) (Goal, error)
	Create(ctx context.Context, goal Goal) (Goal, error)
	Update(ctx context.Context, goal Goal) (Goal, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Goal, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Goal, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, goal Goal) (Goal, error) {
	if err := validate(goal); err != nil {
		return Goal{}, err
	}
	now := s.clock.Now()
	goal.Id = uuid.NewString()
	goal.Title = strings.TrimSpace(goal.Title)
	goal.CreatedAt = now
	goal.UpdatedAt = now
	if goal.Type == "" {
		goal.Type = Personal
	}
	if goal.Status == "" {
		goal.Status = Active
	}
	completed := goal.settleStatus()

	if err := s.repo.Store(ctx, goal); err != nil {
		return Goal{}, err
	}
	s.publish(ctx, goal.Id, event_bus.Created, completed)
	return goal, nil
}

func (s *ServiceImpl) Update(ctx context.Context, goal Goal) (Goal, error) {
	if err := validate(goal); err != nil {
		return Goal{}, err
	}
	existing, err := s.repo.Get(ctx, goal.Id)
	if err != nil {
		return Goal{}, err
	}
	goal.Title = strings.TrimSpace(goal.Title)
	goal.CreatedAt = existing.CreatedAt
	goal.UpdatedAt = s.clock.Now()
	if goal.Type == "" {
		goal.Type = existing.Type
	}
	if goal.Status == "" || existing.Status == Completed {
		// completion is one-way
		goal.Status = existing.Status
	}
	completed := goal.settleStatus()

	updated, err := s.repo.Update(ctx, goal)
	if err != nil {
		return Goal{}, err
	}
	if !updated {
		return Goal{}, ErrGoalNotFound
	}
	s.publish(ctx, goal.Id, event_bus.Updated, completed)
	return goal, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("goal not deleted, probably because it does not exist (%s)", id)
		return ErrGoalNotFound
	}
	s.publish(ctx, id, event_bus.Deleted, false)
	return nil
}

func validate(goal Goal) error {
	if strings.TrimSpace(goal.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGoal)
	}
	if goal.TargetAmount.IsNegative() || goal.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidGoal)
	}
	switch goal.Status {
	case "", Active, Completed, Paused, Cancelled:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidGoal, goal.Status)
	}
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, id string, kind event_bus.ChangeKind, completed bool) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.GoalChangedEvent, event_bus.GoalChanged{
		Id:        id,
		Kind:      kind,
		Completed: completed,
	}))
	if err != nil {
		log.Errorf("failed to publish goal change event: %v", err)
	}
}
