// Package filter derives the visible task list from the authoritative task
// collection. Everything here is pure: inputs are never mutated and results
// never alias them.
package filter

import (
	"strings"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
)

// ComputeFilteredTasks returns the tasks, in their original order, that match
// the search term and every criterion in filters.
func ComputeFilteredTasks(tasks []model.Task, searchTerm string, filters model.Filters) []model.Task {
	needle := strings.ToLower(searchTerm)
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !matchesSearch(task, needle) {
			continue
		}
		if !matchesStatus(task, filters) {
			continue
		}
		if !matchesPriority(task, filters) {
			continue
		}
		if !matchesDueDate(task, filters) {
			continue
		}
		out = append(out, task.Clone())
	}
	return out
}

func matchesSearch(task model.Task, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle)
}

func matchesStatus(task model.Task, filters model.Filters) bool {
	return filters.MatchesAllStatuses() || task.Status == filters.Status
}

func matchesPriority(task model.Task, filters model.Filters) bool {
	return filters.MatchesAllPriorities() || task.Priority == filters.Priority
}

func matchesDueDate(task model.Task, filters model.Filters) bool {
	if filters.DueDate == nil {
		return true
	}
	return task.DueDate != nil && SameDay(*task.DueDate, *filters.DueDate)
}

// SameDay reports whether a and b fall on the same calendar day in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
