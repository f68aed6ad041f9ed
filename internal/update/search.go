package update

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) openSearch() {
	m.CurrentView = ViewBoard
	m.Mode = ModeSearch
	m.searchInput.SetValue(m.Store.SearchTerm())
	m.searchInput.CursorEnd()
	m.searchInput.Focus()
}

// handleSearchKey pushes every edit straight into the store.
func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.Mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if term := m.searchInput.Value(); term != m.Store.SearchTerm() {
		m.Store.SetSearchTerm(term)
		m.Cursor = 0
	}
	return m, cmd
}
