// Package calendar groups tasks by the calendar day of their due date for a
// seven-day window. It only reads tasks.
package calendar

import (
	"time"

	"github.com/sandeepkv93/taskboard/internal/filter"
	"github.com/sandeepkv93/taskboard/internal/model"
)

const DaysPerWeek = 7

type Day struct {
	Date  time.Time
	Tasks []model.Task
}

// StartOfWeek returns local midnight of the first day of date's week.
func StartOfWeek(date time.Time, weekStart time.Weekday) time.Time {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	offset := (int(midnight.Weekday()) - int(weekStart) + DaysPerWeek) % DaysPerWeek
	return midnight.AddDate(0, 0, -offset)
}

func WeekDays(date time.Time, weekStart time.Weekday) []time.Time {
	start := StartOfWeek(date, weekStart)
	out := make([]time.Time, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		out = append(out, start.AddDate(0, 0, i))
	}
	return out
}

// TasksForDate keeps the tasks due on day, preserving their order.
func TasksForDate(tasks []model.Task, day time.Time) []model.Task {
	out := make([]model.Task, 0)
	for _, task := range tasks {
		if task.DueDate != nil && filter.SameDay(*task.DueDate, day) {
			out = append(out, task.Clone())
		}
	}
	return out
}

func Week(tasks []model.Task, date time.Time, weekStart time.Weekday) []Day {
	days := WeekDays(date, weekStart)
	out := make([]Day, 0, len(days))
	for _, day := range days {
		out = append(out, Day{Date: day, Tasks: TasksForDate(tasks, day)})
	}
	return out
}
