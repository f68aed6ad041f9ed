package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskboard/internal/storage"
	"github.com/sandeepkv93/taskboard/internal/views"
)

const activityLoadTimeout = 2 * time.Second

func loadActivityCmd(repo storage.Repository, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), activityLoadTimeout)
		defer cancel()
		items, err := repo.ListActivity(ctx, storage.ActivityListFilter{Limit: limit})
		return ActivityLoadedMsg{Items: items, Err: err}
	}
}

func (m *Model) refreshActivity() tea.Cmd {
	if m.Journal == nil {
		return nil
	}
	m.Activity.Loading = true
	return loadActivityCmd(m.Journal, activityPageLen)
}

func (m *Model) applyActivityLoaded(msg ActivityLoadedMsg) {
	m.Activity.Loading = false
	m.Activity.Err = msg.Err
	if msg.Err == nil {
		m.Activity.Items = msg.Items
	}
}

// prependActivity keeps the newest entry first and the list bounded.
func (m *Model) prependActivity(entry storage.Activity) {
	for _, existing := range m.Activity.Items {
		if entry.ID != 0 && existing.ID == entry.ID {
			return
		}
	}
	items := make([]storage.Activity, 0, len(m.Activity.Items)+1)
	items = append(items, entry)
	items = append(items, m.Activity.Items...)
	if len(items) > activityPageLen {
		items = items[:activityPageLen]
	}
	m.Activity.Items = items
}

func (m Model) renderActivityView() string {
	items := make([]views.ActivityItemData, 0, len(m.Activity.Items))
	for _, a := range m.Activity.Items {
		items = append(items, views.ActivityItemData{
			Seq:    a.Seq,
			Kind:   a.Kind,
			TaskID: a.TaskID,
			Detail: a.Detail,
			At:     a.At.In(m.now().Location()).Format(activityLayout),
		})
	}
	data := views.ActivityPanelData{
		Enabled: m.Journal != nil,
		Loading: m.Activity.Loading,
		Items:   items,
	}
	if m.Activity.Err != nil {
		data.Error = m.Activity.Err.Error()
	}
	return views.RenderActivityPanel(data)
}
