package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/taskboard/internal/calendar"
	"github.com/sandeepkv93/taskboard/internal/model"
	"github.com/sandeepkv93/taskboard/internal/views"
)

const (
	detailWidth     = 44
	detailHeight    = 16
	calendarHeight  = 12
	dateLayout      = "2006-01-02"
	createdLayout   = "2006-01-02 15:04"
	activityLayout  = "15:04:05"
	activityPageLen = 50
)

func (m *Model) initBubbleComponents() {
	m.searchInput = textinput.New()
	m.searchInput.Prompt = "/"
	m.searchInput.Placeholder = "search title or description"
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 32

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "Task title"
	m.titleInput.CharLimit = 200
	m.titleInput.Width = 40

	m.dueInput = textinput.New()
	m.dueInput.Placeholder = "YYYY-MM-DD (empty for none)"
	m.dueInput.CharLimit = 10
	m.dueInput.Width = 28

	m.descArea = textarea.New()
	m.descArea.SetWidth(48)
	m.descArea.SetHeight(5)
	m.descArea.ShowLineNumbers = false
	m.descArea.Placeholder = "Description (markdown)"

	cols := []table.Column{
		{Title: "Day", Width: 12},
		{Title: "Task", Width: 30},
		{Title: "Priority", Width: 8},
		{Title: "Status", Width: 12},
	}
	m.calendarTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(calendarHeight))

	m.helpModel = help.New()
	m.detailViewport = viewport.New(detailWidth, detailHeight)
}

// syncBubbleData refreshes the components that mirror store state.
func (m *Model) syncBubbleData() {
	m.clampFocus()
	m.calendarTable.SetRows(m.calendarRows())
	m.detailViewport.SetContent(m.renderDetail())
}

func (m Model) calendarRows() []table.Row {
	rows := make([]table.Row, 0, calendar.DaysPerWeek)
	for _, day := range calendar.Week(m.Store.Tasks(), m.Calendar.FocusDate, m.Config.WeekStart) {
		label := day.Date.Format("Mon 01-02")
		if len(day.Tasks) == 0 {
			rows = append(rows, table.Row{label, "-", "", ""})
			continue
		}
		for i, task := range day.Tasks {
			if i > 0 {
				label = ""
			}
			rows = append(rows, table.Row{label, task.Title, string(task.Priority), m.columnTitle(task.Status)})
		}
	}
	return rows
}

func (m *Model) renderDetail() string {
	task, ok := m.selectedTask()
	if !ok {
		return views.RenderDetail(views.DetailData{}, "")
	}
	key := task.ID + "\x00" + task.Description
	if key != m.markdownKey {
		m.markdownKey = key
		m.markdownOut = views.RenderMarkdown(task.Description, detailWidth-4)
	}
	return views.RenderDetail(m.detailData(task), m.markdownOut)
}

func (m Model) detailData(task model.Task) views.DetailData {
	data := views.DetailData{
		ID:          task.ID,
		Title:       task.Title,
		Priority:    string(task.Priority),
		Status:      m.columnTitle(task.Status),
		Created:     task.CreatedAt.Format(createdLayout),
		Assignee:    task.Assignee,
		Overdue:     calendar.IsOverdue(task, m.now()),
		Description: task.Description,
	}
	if task.DueDate != nil {
		data.Due = task.DueDate.Format(dateLayout)
	}
	return data
}

// columnTitle falls back to the raw status for tasks whose column is gone.
func (m Model) columnTitle(status string) string {
	if col, ok := m.Store.Column(status); ok {
		return col.Title
	}
	return fmt.Sprintf("%s (missing)", status)
}
