package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Journal != nil {
		return loadActivityCmd(m.Journal, activityPageLen)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = typed.Width, typed.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case DropMsg:
		return m.handleDrop(typed), nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			return m, m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case ActivityLoadedMsg:
		m.applyActivityLoaded(typed)
		return m, nil
	case ActivityRecordedMsg:
		m.prependActivity(typed.Entry)
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.Mode {
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModePalette:
		return m.handlePaletteKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg), nil
	}

	switch keyStr {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.Board:
		return m, m.switchView(ViewBoard)
	case m.Keys.Calendar:
		return m, m.switchView(ViewCalendar)
	case m.Keys.Activity:
		return m, m.switchView(ViewActivity)
	case m.Keys.Search:
		m.openSearch()
		return m, nil
	case m.Keys.Palette:
		m.openPalette()
		return m, nil
	case "esc":
		m.Status = StatusBar{}
		return m, nil
	}

	switch m.CurrentView {
	case ViewBoard:
		return m.handleBoardKey(msg)
	case ViewCalendar:
		return m.handleCalendarKey(msg)
	case ViewActivity:
		if keyStr == "r" {
			return m, m.refreshActivity()
		}
	}
	return m, nil
}

func (m *Model) switchView(v View) tea.Cmd {
	m.CurrentView = v
	if v == ViewActivity {
		return m.refreshActivity()
	}
	return nil
}

func (m Model) View() string {
	data := views.AppData{
		Header:     m.header(),
		Tabs:       []string{string(ViewBoard), string(ViewCalendar), string(ViewActivity)},
		ActiveTab:  string(m.CurrentView),
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Footer: fmt.Sprintf("keys: %s board | %s calendar | %s activity | %s search | %s command | %s help | %s quit",
			m.Keys.Board, m.Keys.Calendar, m.Keys.Activity, m.Keys.Search, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	}

	switch m.CurrentView {
	case ViewBoard:
		data.FilterBar = views.RenderFilterBar(m.filterBarData())
		data.Body = views.RenderBoard(m.boardColumnsData(), m.columnWidth())
		data.Side = m.detailViewport.View()
	case ViewCalendar:
		data.Body = m.renderCalendarView()
	case ViewActivity:
		data.Body = m.renderActivityView()
	}
	if help := m.renderHelpIfVisible(); help != "" {
		if data.Side != "" {
			data.Side += "\n\n" + help
		} else {
			data.Side = help
		}
	}

	switch m.Mode {
	case ModeForm:
		data.Overlay = m.renderForm()
	case ModeConfirm:
		data.Overlay = views.RenderConfirm(m.Confirm.Prompt)
	case ModePalette:
		data.Overlay = views.RenderCommandPalette(true, m.commandInput.View())
	}
	return views.RenderApp(data)
}

func (m Model) header() string {
	header := fmt.Sprintf("taskboard | view: %s | tasks: %d | columns: %d",
		m.CurrentView, len(m.Store.Tasks()), len(m.Store.Columns()))
	if orphans := len(m.Store.OrphanedTasks()); orphans > 0 {
		header += fmt.Sprintf(" | orphaned: %d", orphans)
	}
	return header
}

func (m Model) columnWidth() int {
	cols := len(m.Store.Columns())
	if m.width <= 0 || cols == 0 {
		return views.DefaultColumnWidth
	}
	w := (m.width - detailWidth - 4) / cols
	if w > views.DefaultColumnWidth+12 {
		w = views.DefaultColumnWidth + 12
	}
	return w
}
