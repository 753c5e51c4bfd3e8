package rules

import (
	"fmt"

	"github.com/nivora/nivora/internal/utils"
	"github.com/nivora/nivora/pkg/notification"
)

const (
	goalDeadlineWindow = 7
	taskDueWindow      = 3
)

func GoalDeadlines(s Snapshot, _ []notification.Notification) []notification.Candidate {
	var candidates []notification.Candidate
	for _, g := range s.Goals {
		if !g.IsActive() || g.Deadline == nil {
			continue
		}
		days, ok := daysLeft(s.Now, *g.Deadline)
		if !ok || days > goalDeadlineWindow {
			continue
		}
		payload := notification.GoalDeadline{GoalId: g.Id, Title: g.Title, DaysLeft: days, Progress: g.ProgressPercent()}
		if days == 0 {
			candidates = append(candidates, notification.Candidate{
				Title:    "Goal Deadline Today!",
				Message:  fmt.Sprintf("%q is due today. Current progress: %d%%", g.Title, payload.Progress),
				Priority: notification.High,
				Payload:  payload,
			})
			continue
		}
		candidates = append(candidates, notification.Candidate{
			Title:    "Goal Deadline Approaching",
			Message:  fmt.Sprintf("%q is due in %d day%s", g.Title, days, plural(days)),
			Priority: notification.Medium,
			Payload:  payload,
		})
	}
	return candidates
}

func TasksDue(s Snapshot, _ []notification.Notification) []notification.Candidate {
	var candidates []notification.Candidate
	for _, t := range s.Tasks {
		if t.IsCompleted() || t.DueDate == nil {
			continue
		}
		days, ok := daysLeft(s.Now, *t.DueDate)
		if !ok || days > taskDueWindow {
			continue
		}
		payload := notification.TaskDue{TaskId: t.Id, Title: t.Title, DaysLeft: days}
		if days == 0 {
			candidates = append(candidates, notification.Candidate{
				Title:    "Task Due Today!",
				Message:  fmt.Sprintf("%q is due today", t.Title),
				Priority: notification.High,
				Payload:  payload,
			})
			continue
		}
		candidates = append(candidates, notification.Candidate{
			Title:    "Task Due Soon",
			Message:  fmt.Sprintf("%q is due in %d day%s", t.Title, days, plural(days)),
			Priority: notification.Medium,
			Payload:  payload,
		})
	}
	return candidates
}

// OverdueTasks counts open tasks whose due date is before today, comparing dates only.
func OverdueTasks(s Snapshot, _ []notification.Notification) []notification.Candidate {
	today := utils.StartOfDay(s.Now)
	var overdue []string
	for _, t := range s.Tasks {
		if t.IsCompleted() || t.DueDate == nil {
			continue
		}
		if utils.StartOfDay(t.DueDate.In(s.Now.Location())).Before(today) {
			overdue = append(overdue, t.Id)
		}
	}
	if len(overdue) == 0 {
		return nil
	}
	return []notification.Candidate{{
		Title:    "Overdue Tasks",
		Message:  fmt.Sprintf("You have %d overdue task%s", len(overdue), plural(len(overdue))),
		Priority: notification.High,
		Payload:  notification.OverdueTasks{Count: len(overdue), TaskIds: overdue},
	}}
}
