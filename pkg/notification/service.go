package notification

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nivora/nivora/internal/event_bus"
	"github.com/nivora/nivora/internal/store"
	"github.com/nivora/nivora/internal/utils"
	"github.com/nivora/nivora/pkg/push"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidNotification  = errors.New("invalid notification")
)

const (
	logStoreKey     = "notifications"
	ledgerStoreKey  = "alert-ledger"
	DefaultCapacity = 50

	defaultPushTimeout = 30 * time.Second
)

type Service interface {
	// Dispatch deduplicates candidates, appends the survivors to the log and delivers them.
	// It returns the notifications that were dispatched, in candidate order.
	Dispatch(ctx context.Context, candidates []Candidate) ([]Notification, error)
	Add(ctx context.Context, notification Notification) (Notification, error)
	List(ctx context.Context) []Notification
	UnreadCount(ctx context.Context) int
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}

type ServiceImpl struct {
	log         *store.Value[[]Notification]
	ledger      *store.Value[Ledger]
	policy      Policy
	capacity    int
	pusher      push.Pusher
	pushTimeout time.Duration
	eventBus    *event_bus.EventBus
	clock       utils.Clock

	// mu serializes every write to the log so a dispatch never interleaves with a user edit
	mu     sync.Mutex
	pushes sync.WaitGroup
}

func NewService(s store.Store, policy Policy, capacity int, pusher push.Pusher, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if pusher == nil {
		pusher = push.DisabledPusher{}
	}
	return &ServiceImpl{
		log:         store.NewCollection[Notification](s, logStoreKey),
		ledger:      store.NewValue(s, ledgerStoreKey, func() Ledger { return Ledger{} }),
		policy:      policy,
		capacity:    capacity,
		pusher:      pusher,
		pushTimeout: defaultPushTimeout,
		eventBus:    eventBus,
		clock:       clock,
	}
}

func (s *ServiceImpl) Dispatch(ctx context.Context, candidates []Candidate) ([]Notification, error) {
	dispatched, err := s.record(ctx, candidates)
	if err != nil {
		return nil, err
	}
	if len(dispatched) == 0 {
		return dispatched, nil
	}
	log.Infof("Dispatched %d of %d alert(s)", len(dispatched), len(candidates))
	s.deliver(ctx, dispatched)
	return dispatched, nil
}

// record deduplicates candidates against the ledger and writes the survivors to the ledger
// and the log. Both are read before anything is written, and a failed read aborts the pass.
func (s *ServiceImpl) record(ctx context.Context, candidates []Candidate) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.ledger.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read alert ledger: %w", err)
	}
	current, err := s.log.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not read notification log: %w", err)
	}

	now := s.clock.Now()
	ledger := maps.Clone(previous)
	if ledger == nil {
		ledger = Ledger{}
	}
	ledger.prune(s.policy, now)

	dispatched := make([]Notification, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Payload == nil {
			log.Warnf("Dropping alert %q without payload", candidate.Title)
			continue
		}
		key := candidate.Key()
		if emittedAt, ok := ledger[key]; ok && s.policy.For(candidate.Kind()).Suppresses(emittedAt, now) {
			log.Debugf("Alert %s suppressed, last emitted at %s", key, emittedAt.Format(time.RFC3339))
			continue
		}
		ledger[key] = now
		dispatched = append(dispatched, s.newNotification(candidate, now))
	}
	if len(dispatched) == 0 {
		return dispatched, nil
	}

	// the ledger and the log are written together or not at all
	if err := s.ledger.Save(ctx, ledger); err != nil {
		return nil, fmt.Errorf("could not record emitted alerts: %w", err)
	}
	if err := s.log.Save(ctx, s.prepend(current, dispatched)); err != nil {
		if rollbackErr := s.ledger.Save(ctx, previous); rollbackErr != nil {
			log.Errorf("Could not restore alert ledger after failed log write: %v", rollbackErr)
		}
		return nil, fmt.Errorf("could not append alerts to the notification log: %w", err)
	}
	return dispatched, nil
}

// Add appends a notification that did not come from a rule. It bypasses deduplication.
func (s *ServiceImpl) Add(ctx context.Context, notification Notification) (Notification, error) {
	notification.Title = strings.TrimSpace(notification.Title)
	if notification.Title == "" {
		return Notification{}, fmt.Errorf("%w: title is required", ErrInvalidNotification)
	}
	if notification.Type == "" {
		return Notification{}, fmt.Errorf("%w: type is required", ErrInvalidNotification)
	}
	switch notification.Priority {
	case "":
		notification.Priority = Low
	case Low, Medium, High:
	default:
		return Notification{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidNotification, notification.Priority)
	}
	if notification.Payload != nil && notification.Payload.Kind() != notification.Type {
		return Notification{}, fmt.Errorf("%w: payload does not match type %s", ErrInvalidNotification, notification.Type)
	}
	notification.Id = uuid.NewString()
	notification.Timestamp = s.clock.Now()
	notification.Read = false

	s.mu.Lock()
	err := s.log.Update(ctx, func(current []Notification) ([]Notification, error) {
		return s.prepend(current, []Notification{notification}), nil
	})
	s.mu.Unlock()
	if err != nil {
		return Notification{}, err
	}
	s.deliver(ctx, []Notification{notification})
	return notification, nil
}

func (s *ServiceImpl) List(ctx context.Context) []Notification {
	return s.log.Load(ctx)
}

func (s *ServiceImpl) UnreadCount(ctx context.Context) int {
	count := 0
	for _, n := range s.log.Load(ctx) {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *ServiceImpl) MarkRead(ctx context.Context, id string) error {
	return s.edit(ctx, func(current []Notification) ([]Notification, error) {
		for i := range current {
			if current[i].Id == id {
				current[i].Read = true
				return current, nil
			}
		}
		return nil, ErrNotificationNotFound
	})
}

func (s *ServiceImpl) MarkAllRead(ctx context.Context) error {
	return s.edit(ctx, func(current []Notification) ([]Notification, error) {
		for i := range current {
			current[i].Read = true
		}
		return current, nil
	})
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	return s.edit(ctx, func(current []Notification) ([]Notification, error) {
		for i := range current {
			if current[i].Id == id {
				return append(current[:i], current[i+1:]...), nil
			}
		}
		return nil, ErrNotificationNotFound
	})
}

// ClearAll empties the log. The ledger is kept, so cleared alerts are not raised again
// before their cooldown ends.
func (s *ServiceImpl) ClearAll(ctx context.Context) error {
	return s.edit(ctx, func([]Notification) ([]Notification, error) {
		return []Notification{}, nil
	})
}

func (s *ServiceImpl) edit(ctx context.Context, fn func([]Notification) ([]Notification, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Update(ctx, fn)
}

func (s *ServiceImpl) newNotification(c Candidate, now time.Time) Notification {
	return Notification{
		Id:        uuid.NewString(),
		Type:      c.Kind(),
		Title:     c.Title,
		Message:   c.Message,
		Priority:  c.Priority,
		Timestamp: now,
		Payload:   c.Payload,
	}
}

// prepend puts fresh in front of current, newest first, and evicts the oldest entries
// beyond capacity.
func (s *ServiceImpl) prepend(current, fresh []Notification) []Notification {
	next := make([]Notification, 0, len(current)+len(fresh))
	for i := len(fresh) - 1; i >= 0; i-- {
		next = append(next, fresh[i])
	}
	next = append(next, current...)
	if len(next) > s.capacity {
		next = next[:s.capacity]
	}
	return next
}

// Flush waits for pending push deliveries.
func (s *ServiceImpl) Flush() {
	s.pushes.Wait()
}

// deliver publishes the batch to UI subscribers and pushes it in the background, so a slow
// push backend never holds up the log or the next evaluation. Failures are logged only.
func (s *ServiceImpl) deliver(ctx context.Context, batch []Notification) {
	for _, n := range batch {
		err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.NotificationDispatchedEvent, event_bus.NotificationDispatched{
			Id:       n.Id,
			Type:     string(n.Type),
			Title:    n.Title,
			Message:  n.Message,
			Priority: string(n.Priority),
		}))
		if err != nil {
			log.Errorf("failed to publish notification event: %v", err)
		}
	}

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.pushTimeout)
	s.pushes.Go(func() {
		defer cancel()
		if s.pusher.RequestPermission(pushCtx) != push.Granted {
			return
		}
		for _, n := range batch {
			if err := s.pusher.Send(pushCtx, n.Title, n.Message); err != nil {
				log.Warnf("Push delivery of notification %s failed: %v", n.Id, err)
			}
		}
	})
}
