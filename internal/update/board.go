package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/calendar"
	"github.com/sandeepkv93/taskboard/internal/filter"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/views"
)

func (m Model) handleBoardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.FocusColumn--
		m.Cursor = 0
	case "l", "right":
		m.FocusColumn++
		m.Cursor = 0
	case "k", "up":
		m.Cursor--
	case "j", "down":
		m.Cursor++
	case "g", "home":
		m.Cursor = 0
	case "G", "end":
		m.Cursor = len(m.focusedTasks()) - 1
	case "H":
		return m, m.dropToAdjacent(-1)
	case "L":
		return m, m.dropToAdjacent(1)
	case "n":
		m.openNewForm()
	case "e", "enter":
		if task, ok := m.selectedTask(); ok {
			m.openEditForm(task)
		}
	case "x":
		if task, ok := m.selectedTask(); ok {
			m.Mode = ModeConfirm
			m.Confirm = ConfirmState{Action: ConfirmDeleteTask, TargetID: task.ID, Prompt: fmt.Sprintf("Delete task %q?", task.Title)}
		}
	case "X":
		col, ok := m.focusedColumn()
		if !ok {
			return m, nil
		}
		if len(m.Store.Columns()) == 1 {
			m.Status = StatusBar{Text: "cannot delete the last column", IsError: true}
			return m, nil
		}
		m.Mode = ModeConfirm
		m.Confirm = ConfirmState{Action: ConfirmDeleteColumn, TargetID: col.ID, Prompt: fmt.Sprintf("Delete column %q and move its tasks?", col.Title)}
	case "<":
		m.moveFocusedColumn(-1)
	case ">":
		m.moveFocusedColumn(1)
	case "s":
		if col, ok := m.focusedColumn(); ok {
			mode := m.SortModes[col.ID].Next()
			m.SortModes[col.ID] = mode
			m.Status = StatusBar{Text: fmt.Sprintf("%s sorted by %s", col.Title, mode.Label())}
		}
	case "f":
		m.toggleStatusFilter()
	case "p":
		m.cyclePriorityFilter()
	case "d":
		m.toggleDueFilter()
	case "c":
		m.clearFilters()
		m.Status = StatusBar{Text: "filters cleared"}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y":
		switch m.Confirm.Action {
		case ConfirmDeleteTask:
			task, _ := m.Store.Task(m.Confirm.TargetID)
			if m.Store.DeleteTask(m.Confirm.TargetID) {
				m.Status = StatusBar{Text: fmt.Sprintf("deleted task: %s", task.Title)}
			}
		case ConfirmDeleteColumn:
			col, _ := m.Store.Column(m.Confirm.TargetID)
			if m.Store.DeleteColumn(m.Confirm.TargetID) {
				m.Status = StatusBar{Text: fmt.Sprintf("deleted column: %s", col.Title)}
				delete(m.SortModes, col.ID)
			} else {
				m.Status = StatusBar{Text: "cannot delete the last column", IsError: true}
			}
		}
	case "n", "N", "esc":
		m.Status = StatusBar{Text: "cancelled"}
	default:
		return m
	}
	m.Mode = ModeNormal
	m.Confirm = ConfirmState{}
	return m
}

func (m Model) handleDrop(msg DropMsg) Model {
	task, ok := m.Store.Task(msg.DraggedID)
	if !ok {
		return m
	}
	if !m.Store.Drop(msg.DraggedID, msg.TargetID) {
		return m
	}
	m.focusTask(msg.DraggedID)
	moved, _ := m.Store.Task(msg.DraggedID)
	m.Status = StatusBar{Text: fmt.Sprintf("moved %s: %s -> %s", task.Title, m.columnTitle(task.Status), m.columnTitle(moved.Status))}
	return m
}

// dropToAdjacent emits the same gesture a pointer drop onto the neighbouring
// column would.
func (m Model) dropToAdjacent(delta int) tea.Cmd {
	task, ok := m.selectedTask()
	if !ok {
		return nil
	}
	cols := m.Store.SortedColumns()
	target := m.FocusColumn + delta
	if target < 0 || target >= len(cols) {
		return nil
	}
	msg := DropMsg{DraggedID: task.ID, TargetID: cols[target].ID}
	return func() tea.Msg { return msg }
}

func (m *Model) moveFocusedColumn(delta int) {
	col, ok := m.focusedColumn()
	if !ok {
		return
	}
	if !m.Store.MoveColumn(col.ID, delta) {
		return
	}
	m.FocusColumn += delta
	m.Status = StatusBar{Text: fmt.Sprintf("moved column %s", col.Title)}
}

func (m *Model) toggleStatusFilter() {
	col, ok := m.focusedColumn()
	if !ok {
		return
	}
	f := m.Store.Filters()
	if f.Status == col.ID {
		f.Status = model.AllStatuses
	} else {
		f.Status = col.ID
	}
	m.Store.SetFilters(f)
	m.Status = StatusBar{Text: "status filter: " + m.statusFilterLabel(f)}
}

func (m *Model) cyclePriorityFilter() {
	f := m.Store.Filters()
	switch f.Priority {
	case model.AllPriorities, "":
		f.Priority = model.PriorityHigh
	case model.PriorityHigh:
		f.Priority = model.PriorityMedium
	case model.PriorityMedium:
		f.Priority = model.PriorityLow
	default:
		f.Priority = model.AllPriorities
	}
	m.Store.SetFilters(f)
	m.Status = StatusBar{Text: "priority filter: " + priorityFilterLabel(f)}
}

func (m *Model) toggleDueFilter() {
	f := m.Store.Filters()
	if f.DueDate != nil {
		f.DueDate = nil
		m.Status = StatusBar{Text: "due filter cleared"}
	} else {
		today := m.now()
		f.DueDate = &today
		m.Status = StatusBar{Text: "due filter: " + today.Format(dateLayout)}
	}
	m.Store.SetFilters(f)
}

func (m *Model) clearFilters() {
	m.Store.SetFilters(model.DefaultFilters())
	if m.Store.SearchTerm() != "" {
		m.Store.SetSearchTerm("")
	}
	m.searchInput.SetValue("")
}

func (m Model) focusedColumn() (model.Column, bool) {
	cols := m.Store.SortedColumns()
	if m.FocusColumn < 0 || m.FocusColumn >= len(cols) {
		return model.Column{}, false
	}
	return cols[m.FocusColumn], true
}

func (m Model) focusedTasks() []model.Task {
	col, ok := m.focusedColumn()
	if !ok {
		return nil
	}
	return m.columnTasks(col.ID)
}

func (m Model) columnTasks(columnID string) []model.Task {
	return filter.ColumnTasks(m.Store.FilteredTasks(), columnID, m.SortModes[columnID])
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.focusedTasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

// focusTask moves the cursor onto taskID if it is visible on the board.
func (m *Model) focusTask(taskID string) {
	for ci, col := range m.Store.SortedColumns() {
		for ti, task := range m.columnTasks(col.ID) {
			if task.ID == taskID {
				m.FocusColumn = ci
				m.Cursor = ti
				return
			}
		}
	}
}

func (m *Model) clampFocus() {
	cols := len(m.Store.Columns())
	if m.FocusColumn >= cols {
		m.FocusColumn = cols - 1
	}
	if m.FocusColumn < 0 {
		m.FocusColumn = 0
	}
	tasks := len(m.focusedTasks())
	if m.Cursor >= tasks {
		m.Cursor = tasks - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) boardColumnsData() []views.ColumnData {
	now := m.now()
	selected, hasSelection := m.selectedTask()
	cols := m.Store.SortedColumns()
	out := make([]views.ColumnData, 0, len(cols))
	for i, col := range cols {
		mode := m.SortModes[col.ID]
		data := views.ColumnData{ID: col.ID, Title: col.Title, SortLabel: mode.Label(), Focused: i == m.FocusColumn}
		for _, task := range m.columnTasks(col.ID) {
			card := views.CardData{
				ID:       task.ID,
				Title:    task.Title,
				Priority: string(task.Priority),
				Assignee: task.Assignee,
				Overdue:  calendar.IsOverdue(task, now),
				DueToday: calendar.IsDueToday(task, now),
				Done:     task.Status == calendar.DoneStatus,
				Selected: hasSelection && task.ID == selected.ID,
			}
			if task.DueDate != nil {
				card.Due = task.DueDate.Format(dateLayout)
			}
			data.Cards = append(data.Cards, card)
		}
		out = append(out, data)
	}
	return out
}

func (m Model) filterBarData() views.FilterBarData {
	f := m.Store.Filters()
	data := views.FilterBarData{
		SearchView:   m.searchInput.View(),
		SearchTerm:   m.Store.SearchTerm(),
		SearchActive: m.Mode == ModeSearch,
		Status:       m.statusFilterLabel(f),
		Priority:     priorityFilterLabel(f),
		Visible:      len(m.Store.FilteredTasks()),
		Total:        len(m.Store.Tasks()),
	}
	if f.DueDate != nil {
		data.Due = f.DueDate.Format(dateLayout)
	}
	return data
}

func (m Model) statusFilterLabel(f model.Filters) string {
	if f.MatchesAllStatuses() {
		return model.AllStatuses
	}
	return m.columnTitle(f.Status)
}

func priorityFilterLabel(f model.Filters) string {
	if f.MatchesAllPriorities() {
		return string(model.AllPriorities)
	}
	return string(f.Priority)
}
