package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vitals/internal/router"
	"github.com/abhisek/vitals/internal/screen"
	"github.com/abhisek/vitals/internal/store"
	"github.com/abhisek/vitals/internal/ui/components"
	"github.com/abhisek/vitals/internal/ui/layout"
	"github.com/abhisek/vitals/internal/ui/theme"
)

// historyLimit caps how many results the screen loads.
const historyLimit = 50

type historyLoadedMsg struct {
	Results []store.ResultEventRecord
	Err     error
}

// HistoryScreen lists past assessment results, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	results   []store.ResultEventRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
	offset    int
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		results, err := repo.QueryResults(context.Background(), store.QueryOpts{Limit: historyLimit})
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No results yet. Complete an assessment to see it here.")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	selectedLine := 0

	for i, r := range s.results {
		if i == s.selected {
			selectedLine = strings.Count(b.String(), "\n")
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%s   %3.0f%%   %2d/%d   %s",
			prefix, r.Timestamp.Local().Format("Jan 02, 2006 15:04"), r.Percentage, r.Total, r.Max, r.Tier)
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderDetails(r, cw))
		}
	}

	// Keep the selected row on screen.
	if selectedLine < s.offset {
		s.offset = selectedLine
	} else if height > 0 && selectedLine >= s.offset+height-1 {
		s.offset = selectedLine - height + 2
	}
	body := lipgloss.NewStyle().Width(cw).Render(b.String())
	visible, offset := layout.Window(body, s.offset, height-1)
	s.offset = offset
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, visible)
}

func renderDetails(r store.ResultEventRecord, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var b strings.Builder

	for _, c := range r.Categories {
		pct := 0.0
		if c.Max > 0 {
			pct = float64(c.Score) / float64(c.Max)
		}
		bar := components.NewProgressBar("    "+c.Label, pct, true, cw)
		bar.LabelWidth = 24
		b.WriteString(bar.View())
		b.WriteString("\n")
	}
	for _, rec := range r.Recommendations {
		b.WriteString(dim.Width(cw).Render("    • " + rec))
		b.WriteString("\n")
	}
	b.WriteString(dim.Render(fmt.Sprintf("    catalog %s", r.CatalogVersion)))
	b.WriteString("\n")
	return b.String()
}
