package calendar

import (
	"time"

	"github.com/sandeepkv93/taskboard/internal/filter"
	"github.com/sandeepkv93/taskboard/internal/model"
)

// DoneStatus is the column id whose tasks are never overdue.
const DoneStatus = "done"

// IsOverdue reports a due instant already in the past on a task that is not done.
func IsOverdue(task model.Task, now time.Time) bool {
	return task.DueDate != nil && task.DueDate.Before(now) && task.Status != DoneStatus
}

func IsDueToday(task model.Task, now time.Time) bool {
	return task.DueDate != nil && filter.SameDay(*task.DueDate, now)
}
