package main

import (
	"time"

	"github.com/sandeepkv93/taskboard/internal/board"
	"github.com/sandeepkv93/taskboard/internal/model"
)

func dayOffset(now time.Time, days int) *time.Time {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, days)
	return &d
}

func demoDrafts(now time.Time) []model.TaskDraft {
	return []model.TaskDraft{
		{
			Title:       "Write release notes",
			Description: "## Release notes\n\n- new **calendar** view\n- column reordering",
			Priority:    model.PriorityHigh,
			Status:      "todo",
			DueDate:     dayOffset(now, 0),
			Assignee:    "alex",
		},
		{
			Title:    "Triage bug reports",
			Priority: model.PriorityMedium,
			Status:   "todo",
			DueDate:  dayOffset(now, 3),
		},
		{
			Title:       "Refresh onboarding docs",
			Description: "Replace screenshots and link the *shortcut* table.",
			Priority:    model.PriorityLow,
			Status:      "todo",
		},
		{
			Title:    "Migrate CI runners",
			Priority: model.PriorityHigh,
			Status:   "in-progress",
			DueDate:  dayOffset(now, -1),
			Assignee: "sam",
		},
		{
			Title:       "Review search API",
			Description: "Check that `search` matches descriptions too.",
			Priority:    model.PriorityMedium,
			Status:      "review",
			DueDate:     dayOffset(now, 1),
		},
		{
			Title:    "Set up project board",
			Priority: model.PriorityLow,
			Status:   "done",
			DueDate:  dayOffset(now, -2),
		},
	}
}

func seedDemo(store *board.Store, now time.Time) error {
	for _, draft := range demoDrafts(now) {
		if _, err := store.AddTask(draft); err != nil {
			return err
		}
	}
	return nil
}
