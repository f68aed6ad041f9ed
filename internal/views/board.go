package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type CardData struct {
	ID       string
	Title    string
	Priority string
	Due      string
	Assignee string
	Overdue  bool
	DueToday bool
	Done     bool
	Selected bool
}

type ColumnData struct {
	ID        string
	Title     string
	SortLabel string
	Cards     []CardData
	Focused   bool
}

const (
	DefaultColumnWidth = 28
	minColumnWidth     = 16
)

var (
	columnStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	focusedColumnStyle = columnStyle.BorderForeground(lipgloss.Color("12"))
	columnTitleStyle   = lipgloss.NewStyle().Bold(true)
	cardStyle          = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1)
	selectedCardStyle  = cardStyle.Bold(true).Reverse(true)
	overdueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	todayStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneTitleStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))

	priorityColors = map[string]lipgloss.Color{
		"low":    lipgloss.Color("4"),
		"medium": lipgloss.Color("3"),
		"high":   lipgloss.Color("1"),
	}
)

// PriorityBadge renders one, two or three dots for low, medium and high.
func PriorityBadge(priority string) string {
	dots := map[string]string{"low": "●", "medium": "●●", "high": "●●●"}[priority]
	if dots == "" {
		return "?"
	}
	return lipgloss.NewStyle().Foreground(priorityColors[priority]).Render(dots)
}

// RenderBoard lays columns out left to right in the order given.
func RenderBoard(columns []ColumnData, columnWidth int) string {
	if len(columns) == 0 {
		return mutedStyle.Render("(no columns)")
	}
	if columnWidth < minColumnWidth {
		columnWidth = minColumnWidth
	}
	rendered := make([]string, 0, len(columns))
	for _, col := range columns {
		rendered = append(rendered, RenderColumn(col, columnWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func RenderColumn(col ColumnData, width int) string {
	var b strings.Builder
	b.WriteString(columnTitleStyle.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Cards))))
	if col.SortLabel != "" && col.SortLabel != "None" {
		b.WriteString("\n" + mutedStyle.Render("sort: "+col.SortLabel))
	}
	if len(col.Cards) == 0 {
		b.WriteString("\n" + mutedStyle.Render("(empty)"))
	}
	for _, card := range col.Cards {
		b.WriteString("\n" + RenderCard(card, width-4))
	}

	style := columnStyle
	if col.Focused {
		style = focusedColumnStyle
	}
	return style.Width(width).Render(b.String())
}

func RenderCard(card CardData, width int) string {
	title := card.Title
	if card.Done {
		title = doneTitleStyle.Render(title)
	}
	lines := []string{PriorityBadge(card.Priority) + " " + title}

	meta := make([]string, 0, 4)
	if card.ID != "" {
		meta = append(meta, "#"+ShortID(card.ID))
	}
	if card.Due != "" {
		meta = append(meta, "due "+card.Due)
	}
	if card.Overdue {
		meta = append(meta, overdueStyle.Render("overdue"))
	} else if card.DueToday {
		meta = append(meta, todayStyle.Render("today"))
	}
	if card.Assignee != "" {
		meta = append(meta, "@"+card.Assignee)
	}
	if len(meta) > 0 {
		lines = append(lines, mutedStyle.Render(strings.Join(meta, " · ")))
	}

	style := cardStyle
	if card.Overdue {
		style = style.BorderForeground(lipgloss.Color("9"))
	} else if color, ok := priorityColors[card.Priority]; ok {
		style = style.BorderForeground(color)
	}
	if card.Selected {
		style = selectedCardStyle.BorderForeground(style.GetBorderLeftForeground())
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}
