package board

import (
	"fmt"

	"github.com/sandeepkv93/taskboard/internal/model"
)

// AddColumn appends a column whose order is the current column count.
func (s *Store) AddColumn(title string) model.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	col := model.Column{ID: s.newID(), Title: title, Order: len(s.columns)}
	s.columns = append(s.columns, col)
	s.publish(EventColumnAdded, "", col.ID, title)
	return col
}

func (s *Store) UpdateColumn(id, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.columnIndexLocked(id)
	if idx < 0 {
		return false
	}
	s.columns[idx].Title = title
	s.publish(EventColumnRenamed, "", id, title)
	return true
}

// DeleteColumn removes the column and moves its tasks to the surviving column
// with the lowest order (ties broken by list position). Deleting the last
// column is a no-op.
func (s *Store) DeleteColumn(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.columnIndexLocked(id)
	if idx < 0 || len(s.columns) == 1 {
		return false
	}
	remaining := make([]model.Column, 0, len(s.columns)-1)
	remaining = append(remaining, s.columns[:idx]...)
	remaining = append(remaining, s.columns[idx+1:]...)
	target := model.SortColumns(remaining)[0].ID

	moved := 0
	for i := range s.tasks {
		if s.tasks[i].Status == id {
			s.tasks[i].Status = target
			moved++
		}
	}
	s.columns = remaining
	s.recomputeLocked()
	s.publish(EventColumnDeleted, "", id, fmt.Sprintf("moved %d task(s) to %s", moved, target))
	return true
}

// ReorderColumns replaces the column collection wholesale. An empty list is
// rejected so the board always keeps at least one column.
func (s *Store) ReorderColumns(cols []model.Column) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reorderLocked(cols)
}

func (s *Store) reorderLocked(cols []model.Column) bool {
	if len(cols) == 0 {
		return false
	}
	s.columns = append([]model.Column(nil), cols...)
	s.recomputeLocked()
	s.publish(EventColumnsReordered, "", "", fmt.Sprintf("%d column(s)", len(cols)))
	return true
}

// MoveColumn shifts a column delta positions in display order and renumbers
// every order value.
func (s *Store) MoveColumn(id string, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := model.SortColumns(s.columns)
	from := -1
	for i, col := range sorted {
		if col.ID == id {
			from = i
			break
		}
	}
	to := from + delta
	if from < 0 || delta == 0 || to < 0 || to >= len(sorted) {
		return false
	}
	col := sorted[from]
	sorted = append(sorted[:from], sorted[from+1:]...)
	sorted = append(sorted[:to], append([]model.Column{col}, sorted[to:]...)...)
	for i := range sorted {
		sorted[i].Order = i
	}
	return s.reorderLocked(sorted)
}

func (s *Store) Columns() []model.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Column{}, s.columns...)
}

// SortedColumns is the read-time display order.
func (s *Store) SortedColumns() []model.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.SortColumns(s.columns)
}

func (s *Store) Column(id string) (model.Column, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.columnIndexLocked(id)
	if idx < 0 {
		return model.Column{}, false
	}
	return s.columns[idx], true
}

func (s *Store) HasColumn(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasColumnLocked(id)
}

func (s *Store) hasColumnLocked(id string) bool {
	return s.columnIndexLocked(id) >= 0
}

func (s *Store) columnIndexLocked(id string) int {
	for i := range s.columns {
		if s.columns[i].ID == id {
			return i
		}
	}
	return -1
}
