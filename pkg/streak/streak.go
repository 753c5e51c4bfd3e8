package streak

import (
	"time"

	"github.com/nivora/nivora/internal/utils"
)

const historyLimit = 30

type State struct {
	CurrentStreak   int      `json:"currentStreak"`
	LongestStreak   int      `json:"longestStreak"`
	LastActiveDate  string   `json:"lastActiveDate,omitempty"`
	TotalActiveDays int      `json:"totalActiveDays"`
	StreakHistory   []string `json:"streakHistory"`
}

func NewState() State {
	return State{StreakHistory: []string{}}
}

// CheckIn records activity on the calendar day of today. It reports false when the day was
// already recorded, in which case the state is returned unchanged.
func (s State) CheckIn(today time.Time) (State, bool) {
	todayKey := utils.DateKey(today)
	if s.LastActiveDate == todayKey {
		return s, false
	}

	yesterdayKey := utils.DateKey(utils.StartOfDay(today).AddDate(0, 0, -1))
	if s.LastActiveDate == yesterdayKey {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}
	s.LongestStreak = max(s.LongestStreak, s.CurrentStreak)
	s.LastActiveDate = todayKey
	s.TotalActiveDays++

	history := make([]string, 0, len(s.StreakHistory)+1)
	history = append(history, s.StreakHistory...)
	history = append(history, todayKey)
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	s.StreakHistory = history
	return s, true
}
