package task

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

var ErrInvalidTask = errors.New("invalid task")

type Service interface {
	List(ctx context.Context) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	Create(ctx context.Context, task Task) (Task, error)
	Update(ctx context.Context, task Task) (Task, error)
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

func (s *ServiceImpl) List(ctx context.Context) ([]Task, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, task Task) (Task, error) {
	normalize(&task)
	if err := validate(task); err != nil {
		return Task{}, err
	}
	now := s.clock.Now()
	task.Id = uuid.NewString()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.CompletedAt = nil
	task.settleCompletion(now)

	if err := s.repo.Store(ctx, task); err != nil {
		return Task{}, err
	}
	s.publish(ctx, task, event_bus.Created)
	return task, nil
}

func (s *ServiceImpl) Update(ctx context.Context, task Task) (Task, error) {
	normalize(&task)
	if err := validate(task); err != nil {
		return Task{}, err
	}
	existing, err := s.repo.Get(ctx, task.Id)
	if err != nil {
		return Task{}, err
	}
	now := s.clock.Now()
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = now
	// completedAt is written once, on the first transition into completed
	task.CompletedAt = existing.CompletedAt
	task.settleCompletion(now)

	updated, err := s.repo.Update(ctx, task)
	if err != nil {
		return Task{}, err
	}
	if !updated {
		return Task{}, ErrTaskNotFound
	}
	s.publish(ctx, task, event_bus.Updated)
	return task, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("task not deleted, probably because it does not exist (%s)", id)
		return ErrTaskNotFound
	}
	s.publish(ctx, Task{Id: id}, event_bus.Deleted)
	return nil
}

// normalize accepts the legacy boolean form: completed=true without a status means completed.
func normalize(task *Task) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Status == "" {
		if task.Completed {
			task.Status = Completed
		} else {
			task.Status = Pending
		}
	}
	if task.Priority == "" {
		task.Priority = Medium
	}
}

func validate(task Task) error {
	if task.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	switch task.Status {
	case Pending, InProgress, Completed:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, task.Status)
	}
	switch task.Priority {
	case Low, Medium, High:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, task.Priority)
	}
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, task Task, kind event_bus.ChangeKind) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TaskChangedEvent, event_bus.TaskChanged{
		Id:        task.Id,
		Kind:      kind,
		Completed: task.Completed,
	}))
	if err != nil {
		log.Errorf("failed to publish task change event: %v", err)
	}
}
