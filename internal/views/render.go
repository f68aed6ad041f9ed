package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	Tabs       []string
	ActiveTab  string
	FilterBar  string
	Body       string
	Side       string
	Overlay    string
	StatusLine string
	IsError    bool
	Footer     string
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(lipgloss.Color("12"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(data AppData) string {
	lines := []string{headerStyle.Render(data.Header)}
	if len(data.Tabs) > 0 {
		tabs := make([]string, 0, len(data.Tabs))
		for _, tab := range data.Tabs {
			if tab == data.ActiveTab {
				tabs = append(tabs, activeTabStyle.Render(tab))
				continue
			}
			tabs = append(tabs, tabStyle.Render(tab))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	}
	if data.FilterBar != "" {
		lines = append(lines, data.FilterBar)
	}

	body := data.Body
	if data.Side != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panelStyle.Render(data.Side))
	}
	lines = append(lines, body)

	if data.Overlay != "" {
		lines = append(lines, panelStyle.Render(data.Overlay))
	}
	if data.StatusLine != "" {
		if data.IsError {
			lines = append(lines, errorStyle.Render("error: "+data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown falls back to the raw text when glamour cannot render it.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("dark")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
