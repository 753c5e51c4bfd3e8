package budget

import (
	"context"
	"errors"
	"strings"

	"github.com/nivora/nivora/internal/event_bus"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetNotFound = errors.New("budget not found")
var ErrInvalidCategory = errors.New("category must not be empty")
var ErrInvalidLimit = errors.New("limit must be a positive number")

type BudgetService interface {
	GetAll(ctx context.Context) (Limits, error)
	SetLimit(ctx context.Context, category string, limit decimal.Decimal) error
	Delete(ctx context.Context, category string) error
}

type BudgetServiceImpl struct {
	repo     BudgetRepo
	eventBus *event_bus.EventBus
}

func NewBudgetServiceImpl(repo BudgetRepo, eventBus *event_bus.EventBus) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, eventBus: eventBus}
}

func (s *BudgetServiceImpl) GetAll(ctx context.Context) (Limits, error) {
	return s.repo.GetAll(ctx)
}

func (s *BudgetServiceImpl) SetLimit(ctx context.Context, category string, limit decimal.Decimal) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return ErrInvalidCategory
	}
	if !limit.IsPositive() {
		return ErrInvalidLimit
	}
	if err := s.repo.Set(ctx, category, limit); err != nil {
		return err
	}
	s.publish(ctx, category, event_bus.Updated)
	return nil
}

func (s *BudgetServiceImpl) Delete(ctx context.Context, category string) error {
	deleted, err := s.repo.Delete(ctx, category)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("budget not deleted, probably because there is no limit for category %q", category)
		return ErrBudgetNotFound
	}
	s.publish(ctx, category, event_bus.Deleted)
	return nil
}

func (s *BudgetServiceImpl) publish(ctx context.Context, category string, kind event_bus.ChangeKind) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetChangedEvent, event_bus.BudgetChanged{
		Category: category,
		Kind:     kind,
	}))
	if err != nil {
		log.Errorf("failed to publish budget change event: %v", err)
	}
}
