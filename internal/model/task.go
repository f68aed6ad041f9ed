package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrEmptyTitle      = errors.New("model: task title is required")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	// AllPriorities is only meaningful inside Filters.
	AllPriorities Priority = "all"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for display: high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Prev cycles in the opposite direction of Next.
func (p Priority) Prev() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == AllPriorities || p.IsValid() {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.DueDate != nil {
		due := *t.DueDate
		out.DueDate = &due
	}
	return out
}

func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// TaskDraft is the input for creating a task. The store assigns ID and CreatedAt.
type TaskDraft struct {
	Title       string
	Description string
	Priority    Priority
	Status      string
	DueDate     *time.Time
	Assignee    string
}

// TaskPatch is a field-level merge. Nil fields keep their prior value.
type TaskPatch struct {
	Title        *string
	Description  *string
	Priority     *Priority
	Status       *string
	DueDate      *time.Time
	ClearDueDate bool
	Assignee     *string
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil &&
		p.DueDate == nil && !p.ClearDueDate && p.Assignee == nil
}

// Apply merges p onto t. ID and CreatedAt are never touched.
func (p TaskPatch) Apply(t Task) Task {
	out := t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.ClearDueDate {
		out.DueDate = nil
	}
	if p.DueDate != nil {
		due := *p.DueDate
		out.DueDate = &due
	}
	if p.Assignee != nil {
		out.Assignee = *p.Assignee
	}
	return out
}

// ValidateDraftTitle is the form-side check; the store itself accepts any title.
func ValidateDraftTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
