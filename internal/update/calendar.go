package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/calendar"
	"github.com/sandeepkv93/taskboard/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.shiftCalendarWeek(-1)
	case "l", "right":
		m.shiftCalendarWeek(1)
	case "t":
		m.Calendar.FocusDate = m.now()
		m.Status = StatusBar{Text: "calendar: this week"}
	default:
		var cmd tea.Cmd
		m.calendarTable, cmd = m.calendarTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) shiftCalendarWeek(delta int) {
	m.Calendar.FocusDate = m.Calendar.FocusDate.AddDate(0, 0, calendar.DaysPerWeek*delta)
	m.Status = StatusBar{Text: "calendar: " + m.weekLabel()}
}

func (m Model) weekLabel() string {
	days := calendar.WeekDays(m.Calendar.FocusDate, m.Config.WeekStart)
	return fmt.Sprintf("%s to %s", days[0].Format(dateLayout), days[len(days)-1].Format(dateLayout))
}

func (m Model) renderCalendarView() string {
	count := 0
	for _, day := range calendar.Week(m.Store.Tasks(), m.Calendar.FocusDate, m.Config.WeekStart) {
		count += len(day.Tasks)
	}
	return views.RenderCalendarPanel(views.CalendarPanelData{
		WeekLabel: m.weekLabel(),
		TableView: m.calendarTable.View(),
		Count:     count,
	})
}
