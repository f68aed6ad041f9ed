package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/commands"
	"github.com/sandeepkv93/taskboard/internal/model"
)

func (m *Model) openPalette() {
	m.Mode = ModePalette
	m.commandInput.SetValue("")
	m.commandInput.Focus()
}

func (m *Model) closePalette() {
	m.Mode = ModeNormal
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		raw := m.commandInput.Value()
		m.closePalette()
		return m.executePaletteCommand(raw)
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) executePaletteCommand(raw string) (Model, tea.Cmd) {
	cmd, err := commands.ParseIn(raw, m.now().Location())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			col, ok := m.focusedColumn()
			if !ok {
				return commands.Result{}, invalidArg("no column to add to")
			}
			task, err := m.Store.AddTask(model.TaskDraft{Title: a.Title, Priority: model.PriorityMedium, Status: col.ID})
			if err != nil {
				return commands.Result{}, err
			}
			m.focusTask(task.ID)
			return commands.Result{Message: fmt.Sprintf("added task: %s", task.Title)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.Task)
			if err != nil {
				return commands.Result{}, err
			}
			col, err := m.resolveColumn(a.Column)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Store.MoveTask(task.ID, col.ID); err != nil {
				return commands.Result{}, err
			}
			m.focusTask(task.ID)
			return commands.Result{Message: fmt.Sprintf("moved %s to %s", task.Title, col.Title)}, nil
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.Task)
			if err != nil {
				return commands.Result{}, err
			}
			m.Store.DeleteTask(task.ID)
			return commands.Result{Message: fmt.Sprintf("deleted task: %s", task.Title)}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			m.Store.SetSearchTerm(a.Term)
			m.searchInput.SetValue(a.Term)
			m.CurrentView = ViewBoard
			m.Cursor = 0
			if a.Term == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("search: %s", a.Term)}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			f := m.Store.Filters()
			if a.Status != nil {
				f.Status = model.AllStatuses
				if *a.Status != model.AllStatuses {
					col, err := m.resolveColumn(*a.Status)
					if err != nil {
						return commands.Result{}, err
					}
					f.Status = col.ID
				}
			}
			if a.Priority != nil {
				f.Priority = *a.Priority
			}
			if a.ClearDue {
				f.DueDate = nil
			}
			if a.DueDate != nil {
				due := *a.DueDate
				f.DueDate = &due
			}
			m.Store.SetFilters(f)
			m.CurrentView = ViewBoard
			m.Cursor = 0
			return commands.Result{Message: "filters applied"}, nil
		},
		Clear: func() (commands.Result, error) {
			m.clearFilters()
			return commands.Result{Message: "filters cleared"}, nil
		},
		Sort: func(a commands.SortArgs) (commands.Result, error) {
			col, ok := m.focusedColumn()
			if !ok {
				return commands.Result{}, invalidArg("no column to sort")
			}
			m.SortModes[col.ID] = a.Mode
			return commands.Result{Message: fmt.Sprintf("%s sorted by %s", col.Title, a.Mode.Label())}, nil
		},
		Column: func(a commands.ColumnArgs) (commands.Result, error) {
			return m.runColumnCommand(a)
		},
		History: func() (commands.Result, error) {
			if m.Journal == nil {
				return commands.Result{}, invalidArg("activity journal is disabled")
			}
			follow = m.switchView(ViewActivity)
			return commands.Result{Message: "showing activity"}, nil
		},
	})
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}

func (m *Model) runColumnCommand(a commands.ColumnArgs) (commands.Result, error) {
	if a.Action == commands.ColumnAdd {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			return commands.Result{}, invalidArg("column title is required")
		}
		col := m.Store.AddColumn(title)
		return commands.Result{Message: fmt.Sprintf("added column: %s", col.Title)}, nil
	}

	col, err := m.resolveColumn(a.Column)
	if err != nil {
		return commands.Result{}, err
	}
	switch a.Action {
	case commands.ColumnRename:
		title := strings.TrimSpace(a.Title)
		if title == "" {
			return commands.Result{}, invalidArg("column title is required")
		}
		m.Store.UpdateColumn(col.ID, title)
		return commands.Result{Message: fmt.Sprintf("renamed column %s to %s", col.Title, title)}, nil
	case commands.ColumnDelete:
		if !m.Store.DeleteColumn(col.ID) {
			return commands.Result{}, invalidArg("cannot delete the last column")
		}
		delete(m.SortModes, col.ID)
		return commands.Result{Message: fmt.Sprintf("deleted column: %s", col.Title)}, nil
	case commands.ColumnMove:
		if !m.Store.MoveColumn(col.ID, a.Delta) {
			return commands.Result{}, invalidArg("column %s cannot move further", col.Title)
		}
		return commands.Result{Message: fmt.Sprintf("moved column %s", col.Title)}, nil
	default:
		return commands.Result{}, invalidArg("unknown column action %q", a.Action)
	}
}

// resolveTask matches an exact id first, then a unique id prefix or suffix.
func (m Model) resolveTask(ref string) (model.Task, error) {
	tasks := m.Store.Tasks()
	for _, task := range tasks {
		if task.ID == ref {
			return task, nil
		}
	}
	var matches []model.Task
	for _, task := range tasks {
		if strings.HasPrefix(task.ID, ref) || strings.HasSuffix(task.ID, ref) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, invalidArg("no task matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Task{}, invalidArg("task reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveColumn matches an id, then a case-insensitive title.
func (m Model) resolveColumn(ref string) (model.Column, error) {
	ref = strings.TrimSpace(ref)
	if col, ok := m.Store.Column(ref); ok {
		return col, nil
	}
	for _, col := range m.Store.SortedColumns() {
		if strings.EqualFold(col.Title, ref) {
			return col, nil
		}
	}
	return model.Column{}, invalidArg("no column matches %q", ref)
}

func invalidArg(format string, args ...any) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}
