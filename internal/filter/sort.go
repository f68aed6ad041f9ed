package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sandeepkv93/taskboard/internal/model"
)

type SortMode string

const (
	SortNone     SortMode = "none"
	SortPriority SortMode = "priority"
	SortDueDate  SortMode = "dueDate"
)

// Next cycles none -> priority -> dueDate -> none.
func (m SortMode) Next() SortMode {
	switch m {
	case SortNone, "":
		return SortPriority
	case SortPriority:
		return SortDueDate
	default:
		return SortNone
	}
}

func (m SortMode) Label() string {
	switch m {
	case SortPriority:
		return "Priority"
	case SortDueDate:
		return "Due Date"
	default:
		return "None"
	}
}

// SortTasks returns a stably sorted copy. In due-date mode tasks without a due
// date go last.
func SortTasks(tasks []model.Task, mode SortMode) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Clone())
	}
	switch mode {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Priority.Rank() < out[j].Priority.Rank()
		})
	case SortDueDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].DueDate, out[j].DueDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(*b)
		})
	}
	return out
}

// ColumnTasks selects the filtered tasks rendered in one column.
func ColumnTasks(filtered []model.Task, status string, mode SortMode) []model.Task {
	inColumn := make([]model.Task, 0)
	for _, task := range filtered {
		if task.Status == status {
			inColumn = append(inColumn, task)
		}
	}
	return SortTasks(inColumn, mode)
}

var ErrInvalidSortMode = errors.New("filter: invalid sort mode")

// ParseSortMode accepts none, priority and due (or dueDate), case-insensitively.
func ParseSortMode(raw string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "none", "":
		return SortNone, nil
	case "priority":
		return SortPriority, nil
	case "due", "duedate":
		return SortDueDate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortMode, raw)
	}
}
