package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/taskboard/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	global := m.toKeyBindings(m.globalBindings())
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Board, Action: "board"},
		{Key: m.Keys.Calendar, Action: "calendar"},
		{Key: m.Keys.Activity, Action: "activity"},
		{Key: m.Keys.Search, Action: "search"},
		{Key: m.Keys.Palette, Action: "command"},
		{Key: m.Keys.Help, Action: "help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewBoard:
		return []KeyBinding{
			{Key: "h/l", Action: "focus column"},
			{Key: "j/k", Action: "move selection"},
			{Key: "H/L", Action: "drop task on previous/next column"},
			{Key: "n/e", Action: "new task / edit task"},
			{Key: "x/X", Action: "delete task / delete column"},
			{Key: "</>", Action: "move column left/right"},
			{Key: "s", Action: "cycle column sort"},
			{Key: "f/p/d", Action: "status / priority / due-today filter"},
			{Key: "c", Action: "clear filters and search"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next week"},
			{Key: "t", Action: "this week"},
			{Key: "j/k", Action: "move row"},
		}
	case ViewActivity:
		return []KeyBinding{
			{Key: "r", Action: "reload journal"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) toKeyBindings(in []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(in))
	for _, kb := range in {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
