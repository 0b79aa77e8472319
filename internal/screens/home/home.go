package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vitals/internal/coach"
	"github.com/abhisek/vitals/internal/router"
	"github.com/abhisek/vitals/internal/screen"
	"github.com/abhisek/vitals/internal/screens/assessment"
	"github.com/abhisek/vitals/internal/screens/history"
	"github.com/abhisek/vitals/internal/sessions"
	"github.com/abhisek/vitals/internal/store"
	"github.com/abhisek/vitals/internal/ui/components"
	"github.com/abhisek/vitals/internal/ui/theme"
)

// Menu indices.
const (
	itemStart = iota
	itemResume
	itemHistory
	itemExit
)

type dashboardLoadedMsg struct {
	Stats  store.ResultStats
	Last   *store.ResultEventRecord
	Resume *sessions.View
	Err    error
}

// HomeScreen is the main menu with a summary of past results.
type HomeScreen struct {
	sessions *sessions.Manager
	events   store.EventRepo
	coach    *coach.Service

	menu   components.Menu
	stats  store.ResultStats
	last   *store.ResultEventRecord
	resume *sessions.View
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen. events and coachSvc may be nil.
func New(mgr *sessions.Manager, events store.EventRepo, coachSvc *coach.Service) *HomeScreen {
	h := &HomeScreen{
		sessions: mgr,
		events:   events,
		coach:    coachSvc,
	}

	items := []components.MenuItem{
		itemStart: {Label: "START ASSESSMENT", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: assessment.New(mgr, coachSvc, "")}
			}
		}},
		itemResume: {Label: "RESUME", Disabled: true, Action: func() tea.Cmd {
			if h.resume == nil {
				return nil
			}
			id := h.resume.ID
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: assessment.New(mgr, coachSvc, id)}
			}
		}},
		itemHistory: {Label: "HISTORY", Disabled: events == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(events)}
			}
		}},
		itemExit: {Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads the dashboard when returning from another screen.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	mgr, events := h.sessions, h.events
	return func() tea.Msg {
		ctx := context.Background()
		var msg dashboardLoadedMsg

		v, err := mgr.ResumeLatest(ctx)
		switch {
		case err == nil:
			msg.Resume = &v
		case !errors.Is(err, sessions.ErrNotFound):
			msg.Err = fmt.Errorf("load in-progress assessment: %w", err)
		}

		if events == nil {
			return msg
		}
		stats, err := events.ResultStats(ctx)
		if err != nil {
			msg.Err = fmt.Errorf("load result stats: %w", err)
			return msg
		}
		msg.Stats = stats
		latest, err := events.QueryResults(ctx, store.QueryOpts{Limit: 1})
		if err != nil {
			msg.Err = fmt.Errorf("load latest result: %w", err)
			return msg
		}
		if len(latest) > 0 {
			msg.Last = &latest[0]
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(dashboardLoadedMsg); ok {
		h.loaded = true
		h.errMsg = ""
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		}
		h.stats = msg.Stats
		h.last = msg.Last
		h.resume = msg.Resume

		label := "RESUME"
		if h.resume != nil {
			label = fmt.Sprintf("RESUME (%d/%d)", h.resume.Answered, h.resume.Questions)
		}
		h.menu.Items[itemResume].Label = label
		h.menu.SetDisabled(itemResume, h.resume == nil)
		if h.resume != nil {
			h.menu.Selected = itemResume
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	title := h.sessions.Catalog().Title()
	if title == "" {
		title = "Health-Risk Self-Assessment"
	}

	sections := []string{
		components.Centered(title, theme.Title, cw),
		components.Centered("Ten quick questions about your lifestyle habits", theme.Subtitle, cw),
		h.renderStats(cw),
		h.menu.View(cw),
	}
	if h.errMsg != "" {
		sections = append(sections, components.Centered(h.errMsg, theme.ErrorText, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) renderStats(cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	if !h.loaded {
		return components.Centered("Loading...", dim, cw)
	}
	if h.events == nil || h.stats.Count == 0 {
		return components.Card(
			components.Centered("No completed assessments yet.", dim, cw-6), cw)
	}

	lines := []string{
		dim.Render("Completed: ") + val.Render(fmt.Sprintf("%d", h.stats.Count)) +
			dim.Render("   Average: ") + val.Render(fmt.Sprintf("%.0f%%", h.stats.AvgPercentage)) +
			dim.Render("   Best: ") + val.Render(fmt.Sprintf("%.0f%%", h.stats.BestPercentage)),
	}
	if h.last != nil {
		lines = append(lines, dim.Render("Last result: ")+
			val.Render(fmt.Sprintf("%.0f%% %s", h.last.Percentage, h.last.Tier))+
			dim.Render(" on "+h.last.Timestamp.Local().Format("Jan 02, 2006")))
	}
	return components.Card(lipgloss.NewStyle().Width(cw-6).Align(lipgloss.Center).
		Render(strings.Join(lines, "\n")), cw)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
