package finance

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

var ErrInvalidAmount = errors.New("amount must be a non-negative number")
var ErrInvalidType = errors.New("type must be income or expense")
var ErrInvalidFrequency = errors.New("recurring frequency must be daily, weekly, monthly or yearly")
var ErrInvalidPaymentMethod = errors.New("unknown payment method")

type Service interface {
	List(ctx context.Context) ([]Transaction, error)
	Get(ctx context.Context, id string) (Transaction, error)
	Create(ctx context.Context, transaction Transaction) (Transaction, error)
	Update(ctx context.Context, transaction Transaction) (Transaction, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Transaction, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, transaction Transaction) (Transaction, error) {
	now := s.clock.Now()
	transaction.Id = uuid.NewString()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
	if err := s.normalize(&transaction); err != nil {
		return Transaction{}, err
	}

	if err := s.repo.Store(ctx, transaction); err != nil {
		return Transaction{}, err
	}
	s.publish(ctx, transaction.Id, event_bus.Created)
	return transaction, nil
}

func (s *ServiceImpl) Update(ctx context.Context, transaction Transaction) (Transaction, error) {
	existing, err := s.repo.Get(ctx, transaction.Id)
	if err != nil {
		return Transaction{}, err
	}
	transaction.CreatedAt = existing.CreatedAt
	transaction.UpdatedAt = s.clock.Now()
	if err := s.normalize(&transaction); err != nil {
		return Transaction{}, err
	}

	updated, err := s.repo.Update(ctx, transaction)
	if err != nil {
		return Transaction{}, err
	}
	if !updated {
		return Transaction{}, ErrTransactionNotFound
	}
	s.publish(ctx, transaction.Id, event_bus.Updated)
	return transaction, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("transaction not deleted, probably because it does not exist (%s)", id)
		return ErrTransactionNotFound
	}
	s.publish(ctx, id, event_bus.Deleted)
	return nil
}

func (s *ServiceImpl) Summary(ctx context.Context) (Summary, error) {
	transactions, err := s.repo.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(transactions, nil), nil
}

func (s *ServiceImpl) normalize(t *Transaction) error {
	if t.Type != Income && t.Type != Expense {
		return ErrInvalidType
	}
	if !t.Amount.Valid || t.Amount.Decimal.IsNegative() {
		return ErrInvalidAmount
	}
	t.Category = strings.TrimSpace(t.Category)
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	t.Description = strings.TrimSpace(t.Description)
	if t.Date.IsZero() {
		t.Date = s.clock.Now()
	}
	switch t.PaymentMethod {
	case "":
		t.PaymentMethod = Cash
	case Cash, Card, BankTransfer, UPI, OtherMethod:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, t.PaymentMethod)
	}
	if t.Recurring != nil && t.Recurring.IsRecurring {
		switch t.Recurring.Frequency {
		case Daily, Weekly, Monthly, Yearly:
		default:
			return fmt.Errorf("%w: got %q", ErrInvalidFrequency, t.Recurring.Frequency)
		}
	}
	return nil
}

// The change is already stored when publishing fails; subscribers only re-derive alerts,
// so a lost event costs at most one evaluation until the next scheduled pass.
func (s *ServiceImpl) publish(ctx context.Context, id string, kind event_bus.ChangeKind) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.FinanceChangedEvent, event_bus.TransactionChanged{
		Id:   id,
		Kind: kind,
	}))
	if err != nil {
		log.Errorf("failed to publish transaction change event: %v", err)
	}
}
