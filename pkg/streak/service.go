package streak

import (
	"context"

	"github.com/nivora/nivora/internal/store"
	"github.com/nivora/nivora/internal/utils"
	log "github.com/sirupsen/logrus"
)

const storeKey = "streaks"

type Service interface {
	Get(ctx context.Context) State
	CheckIn(ctx context.Context) (State, error)
}

type ServiceImpl struct {
	state *store.Value[State]
	clock utils.Clock
}

func NewService(s store.Store, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		state: store.NewValue(s, storeKey, NewState),
		clock: clock,
	}
}

func (s *ServiceImpl) Get(ctx context.Context) State {
	return s.state.Load(ctx)
}

func (s *ServiceImpl) CheckIn(ctx context.Context) (State, error) {
	var result State
	err := s.state.Update(ctx, func(current State) (State, error) {
		next, changed := current.CheckIn(s.clock.Now())
		if changed {
			log.Debugf("Streak checked in: current=%d longest=%d", next.CurrentStreak, next.LongestStreak)
		}
		result = next
		return next, nil
	})
	if err != nil {
		return State{}, err
	}
	return result, nil
}
