package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/views"
)

var ErrInvalidDueDate = errors.New("update: due date must be YYYY-MM-DD")

func (m *Model) openNewForm() {
	col, ok := m.focusedColumn()
	if !ok {
		m.Status = StatusBar{Text: "no column to add to", IsError: true}
		return
	}
	m.Mode = ModeForm
	m.Form = FormState{Status: col.ID, Priority: model.PriorityMedium, Field: FieldTitle}
	m.titleInput.SetValue("")
	m.descArea.SetValue("")
	m.dueInput.SetValue("")
	m.focusFormField()
}

func (m *Model) openEditForm(task model.Task) {
	m.Mode = ModeForm
	m.Form = FormState{EditingID: task.ID, Status: task.Status, Priority: task.Priority, Field: FieldTitle}
	m.titleInput.SetValue(task.Title)
	m.titleInput.CursorEnd()
	m.descArea.SetValue(task.Description)
	m.dueInput.SetValue("")
	if task.DueDate != nil {
		m.dueInput.SetValue(task.DueDate.Format(dateLayout))
	}
	m.focusFormField()
}

func (m *Model) closeForm() {
	m.Mode = ModeNormal
	m.Form = FormState{}
	m.titleInput.Blur()
	m.descArea.Blur()
	m.dueInput.Blur()
}

func (m *Model) focusFormField() {
	m.titleInput.Blur()
	m.descArea.Blur()
	m.dueInput.Blur()
	switch m.Form.Field {
	case FieldTitle:
		m.titleInput.Focus()
	case FieldDescription:
		m.descArea.Focus()
	case FieldDue:
		m.dueInput.Focus()
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeForm()
		m.Status = StatusBar{Text: "edit cancelled"}
		return m, nil
	case "tab":
		m.Form.Field = (m.Form.Field + 1) % formFieldCount
		m.focusFormField()
		return m, nil
	case "shift+tab":
		m.Form.Field = (m.Form.Field + formFieldCount - 1) % formFieldCount
		m.focusFormField()
		return m, nil
	case "ctrl+s":
		return m.submitForm(), nil
	case "enter":
		if m.Form.Field != FieldDescription {
			return m.submitForm(), nil
		}
	}

	var cmd tea.Cmd
	switch m.Form.Field {
	case FieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case FieldDescription:
		m.descArea, cmd = m.descArea.Update(msg)
	case FieldPriority:
		switch msg.String() {
		case "left", "h":
			m.Form.Priority = m.Form.Priority.Prev()
		case "right", "l", " ":
			m.Form.Priority = m.Form.Priority.Next()
		}
	case FieldDue:
		m.dueInput, cmd = m.dueInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submitForm() Model {
	title := strings.TrimSpace(m.titleInput.Value())
	if err := model.ValidateDraftTitle(title); err != nil {
		m.Form.Err = "title is required"
		m.Form.Field = FieldTitle
		m.focusFormField()
		return m
	}
	due, err := parseDueInput(m.dueInput.Value(), m.now().Location())
	if err != nil {
		m.Form.Err = err.Error()
		m.Form.Field = FieldDue
		m.focusFormField()
		return m
	}
	description := m.descArea.Value()

	if m.Form.EditingID == "" {
		task, err := m.Store.AddTask(model.TaskDraft{
			Title:       title,
			Description: description,
			Priority:    m.Form.Priority,
			Status:      m.Form.Status,
			DueDate:     due,
		})
		if err != nil {
			m.Form.Err = err.Error()
			return m
		}
		m.closeForm()
		m.focusTask(task.ID)
		m.Status = StatusBar{Text: fmt.Sprintf("added task: %s", task.Title)}
		return m
	}

	priority := m.Form.Priority
	patch := model.TaskPatch{
		Title:        &title,
		Description:  &description,
		Priority:     &priority,
		DueDate:      due,
		ClearDueDate: due == nil,
	}
	id := m.Form.EditingID
	if err := m.Store.UpdateTask(id, patch); err != nil {
		m.Form.Err = err.Error()
		return m
	}
	m.closeForm()
	m.focusTask(id)
	m.Status = StatusBar{Text: fmt.Sprintf("updated task: %s", title)}
	return m
}

// parseDueInput reads a YYYY-MM-DD day at local midnight. Blank means no date.
func parseDueInput(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	due, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDueDate, raw)
	}
	return &due, nil
}

func (m Model) renderForm() string {
	column := m.Form.Status
	if col, ok := m.Store.Column(m.Form.Status); ok {
		column = col.Title
	}
	return views.RenderForm(views.FormData{
		Editing:         m.Form.EditingID != "",
		Column:          column,
		TitleView:       m.titleInput.View(),
		DescriptionView: m.descArea.View(),
		Priority:        string(m.Form.Priority),
		DueView:         m.dueInput.View(),
		Field:           int(m.Form.Field),
		Error:           m.Form.Err,
	})
}
