package model

import (
	"sort"
	"time"
)

type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

func DefaultColumns() []Column {
	return []Column{
		{ID: "todo", Title: "To Do", Order: 0},
		{ID: "in-progress", Title: "In Progress", Order: 1},
		{ID: "review", Title: "Review", Order: 2},
		{ID: "done", Title: "Done", Order: 3},
	}
}

// SortColumns returns a copy ordered by Order; ties keep list order.
func SortColumns(cols []Column) []Column {
	out := make([]Column, len(cols))
	copy(out, cols)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// AllStatuses is the Filters.Status value that matches every column.
const AllStatuses = "all"

type Filters struct {
	Status   string     `json:"status"`
	Priority Priority   `json:"priority"`
	DueDate  *time.Time `json:"due_date,omitempty"`
}

func DefaultFilters() Filters {
	return Filters{Status: AllStatuses, Priority: AllPriorities}
}

// MatchesAllStatuses treats an empty status like "all".
func (f Filters) MatchesAllStatuses() bool {
	return f.Status == "" || f.Status == AllStatuses
}

func (f Filters) MatchesAllPriorities() bool {
	return f.Priority == "" || f.Priority == AllPriorities
}

func (f Filters) IsDefault() bool {
	return f.MatchesAllStatuses() && f.MatchesAllPriorities() && f.DueDate == nil
}

func (f Filters) Clone() Filters {
	out := f
	if f.DueDate != nil {
		due := *f.DueDate
		out.DueDate = &due
	}
	return out
}
