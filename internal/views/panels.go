package views

import (
	"fmt"
	"strings"
)

type FilterBarData struct {
	SearchView   string
	SearchTerm   string
	SearchActive bool
	Status       string
	Priority     string
	Due          string
	Visible      int
	Total        int
}

type DetailData struct {
	ID          string
	Title       string
	Priority    string
	Status      string
	Created     string
	Due         string
	Assignee    string
	Overdue     bool
	Description string
}

type FormData struct {
	Editing         bool
	Column          string
	TitleView       string
	DescriptionView string
	Priority        string
	DueView         string
	Field           int
	Error           string
}

type CalendarPanelData struct {
	WeekLabel string
	TableView string
	Count     int
}

type ActivityItemData struct {
	Seq    uint64
	Kind   string
	TaskID string
	Detail string
	At     string
}

type ActivityPanelData struct {
	Enabled bool
	Loading bool
	Error   string
	Items   []ActivityItemData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderFilterBar(data FilterBarData) string {
	search := data.SearchTerm
	if data.SearchActive {
		search = data.SearchView
	} else if search == "" {
		search = mutedStyle.Render("(none)")
	}
	due := data.Due
	if due == "" {
		due = "any"
	}
	return fmt.Sprintf("search: %s | status: %s | priority: %s | due: %s | showing %d/%d",
		search, data.Status, data.Priority, due, data.Visible, data.Total)
}

// RenderDetail shows task metadata above its description; markdown is
// expected to be rendered already.
func RenderDetail(data DetailData, markdown string) string {
	if strings.TrimSpace(data.ID) == "" {
		return "detail:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title) + "\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("priority: %s %s\n", PriorityBadge(data.Priority), data.Priority))
	b.WriteString(fmt.Sprintf("status: %s\n", data.Status))
	b.WriteString(fmt.Sprintf("created: %s\n", data.Created))
	if data.Due != "" {
		due := data.Due
		if data.Overdue {
			due += " " + overdueStyle.Render("overdue")
		}
		b.WriteString(fmt.Sprintf("due: %s\n", due))
	}
	if data.Assignee != "" {
		b.WriteString(fmt.Sprintf("assignee: %s\n", data.Assignee))
	}
	if strings.TrimSpace(markdown) != "" {
		b.WriteString("\n" + markdown)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderForm(data FormData) string {
	heading := "new task in " + data.Column
	if data.Editing {
		heading = "edit task"
	}
	fields := []string{
		"title:       " + data.TitleView,
		"description:\n" + data.DescriptionView,
		"priority:    < " + data.Priority + " >",
		"due:         " + data.DueView,
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(heading) + "\n")
	b.WriteString("keys: [tab] next field [left/right] priority [ctrl+s] save [esc] cancel\n")
	for i, field := range fields {
		cursor := "  "
		if i == data.Field {
			cursor = "> "
		}
		b.WriteString(cursor + field + "\n")
	}
	if data.Error != "" {
		b.WriteString(errorStyle.Render("error: "+data.Error) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderConfirm(prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return ""
	}
	return fmt.Sprintf("%s [y/n]", prompt)
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("calendar: %s (%d due)\n", data.WeekLabel, data.Count))
	b.WriteString("actions: [h/l] week [t] today [j/k] rows\n")
	b.WriteString(data.TableView)
	return b.String()
}

func RenderActivityPanel(data ActivityPanelData) string {
	var b strings.Builder
	b.WriteString("activity:\n")
	switch {
	case !data.Enabled:
		b.WriteString(mutedStyle.Render("(journal disabled)"))
		return b.String()
	case data.Error != "":
		b.WriteString(errorStyle.Render("error: " + data.Error))
		return b.String()
	case data.Loading && len(data.Items) == 0:
		b.WriteString(mutedStyle.Render("(loading)"))
		return b.String()
	case len(data.Items) == 0:
		b.WriteString(mutedStyle.Render("(no activity yet)"))
		return b.String()
	}
	for _, item := range data.Items {
		line := fmt.Sprintf("#%d %s %-17s", item.Seq, item.At, item.Kind)
		if item.TaskID != "" {
			line += " " + ShortID(item.TaskID)
		}
		if item.Detail != "" {
			line += " " + item.Detail
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

// ShortID is the last eight characters of id. Time-ordered uuids share
// their leading characters, so the tail is the distinguishing part.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
