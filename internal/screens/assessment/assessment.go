// Package assessment is the question-by-question screen. Every keystroke
// that changes state goes through sessions.Manager, so leaving the screen
// at any point keeps the progress made so far.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	assess "github.com/abhisek/vitals/internal/assessment"
	"github.com/abhisek/vitals/internal/coach"
	"github.com/abhisek/vitals/internal/router"
	"github.com/abhisek/vitals/internal/screen"
	"github.com/abhisek/vitals/internal/screens/result"
	"github.com/abhisek/vitals/internal/sessions"
	"github.com/abhisek/vitals/internal/ui/components"
	"github.com/abhisek/vitals/internal/ui/layout"
	"github.com/abhisek/vitals/internal/ui/theme"
)

// viewMsg carries the session state after a manager call.
type viewMsg struct {
	View sessions.View
	Err  error
}

// AssessmentScreen walks the user through the catalog.
type AssessmentScreen struct {
	sessions *sessions.Manager
	coach    *coach.Service
	id       string

	view    sessions.View
	options components.OptionList
	loaded  bool
	busy    bool
	errMsg  string // fatal: the session could not be loaded
	notice  string
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)

// New creates the screen. An empty id starts a new session; otherwise the
// session with that id is resumed.
func New(mgr *sessions.Manager, coachSvc *coach.Service, id string) *AssessmentScreen {
	return &AssessmentScreen{sessions: mgr, coach: coachSvc, id: id}
}

func (s *AssessmentScreen) Init() tea.Cmd {
	mgr, id := s.sessions, s.id
	return func() tea.Msg {
		ctx := context.Background()
		if id == "" {
			v, err := mgr.Start(ctx)
			return viewMsg{View: v, Err: err}
		}
		v, err := mgr.Get(ctx, id)
		return viewMsg{View: v, Err: err}
	}
}

func (s *AssessmentScreen) Title() string {
	return "Assessment"
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "←", Description: "Previous"},
		{Key: "Ctrl+R", Description: "Start over"},
		{Key: "Esc", Description: "Save & exit"},
	}
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		return s.handleView(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *AssessmentScreen) handleView(msg viewMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		if !s.loaded {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.notice = noticeFor(msg.Err)
		return s, nil
	}

	s.view = msg.View
	s.id = msg.View.ID
	s.loaded = true

	if s.view.Complete() {
		next := result.New(s.sessions, s.coach, s.id)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	s.options = components.NewOptionList(optionLabels(s.view), chosenIndex(s.view))
	return s, nil
}

func (s *AssessmentScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if !s.loaded || s.busy || s.view.Current == nil {
		return s, nil
	}
	s.notice = ""

	switch msg.String() {
	case "enter":
		q := *s.view.Current
		value := q.Options[s.options.Cursor].Value
		return s, s.call(func(ctx context.Context, mgr *sessions.Manager, id string) (sessions.View, error) {
			if _, err := mgr.Submit(ctx, id, q.ID, value); err != nil {
				return sessions.View{}, err
			}
			return mgr.Next(ctx, id)
		})
	case "left", "backspace":
		return s, s.call(func(ctx context.Context, mgr *sessions.Manager, id string) (sessions.View, error) {
			return mgr.Previous(ctx, id)
		})
	case "ctrl+r":
		return s, s.call(func(ctx context.Context, mgr *sessions.Manager, id string) (sessions.View, error) {
			return mgr.Reset(ctx, id)
		})
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

// call runs fn off the update loop and reports the new state as a viewMsg.
func (s *AssessmentScreen) call(fn func(context.Context, *sessions.Manager, string) (sessions.View, error)) tea.Cmd {
	s.busy = true
	mgr, id := s.sessions, s.id
	return func() tea.Msg {
		v, err := fn(context.Background(), mgr, id)
		return viewMsg{View: v, Err: err}
	}
}

func (s *AssessmentScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not open the assessment:\n%s", s.errMsg))
	}
	if !s.loaded || s.view.Current == nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading...")
	}

	cw := components.ContentWidth(width)
	q := s.view.Current
	var b strings.Builder

	b.WriteString(theme.Heading.Render(fmt.Sprintf("Question %d of %d", s.view.Cursor+1, s.view.Questions)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		"   " + s.sessions.Catalog().CategoryLabel(q.Category)))
	b.WriteString("\n\n")

	progress := float64(s.view.Answered) / float64(max(s.view.Questions, 1))
	bar := components.NewProgressBar("Answered", progress, true, cw)
	bar.Fill = theme.Primary
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(cw).Render(q.Prompt))
	b.WriteString("\n\n")
	b.WriteString(s.options.View())

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Foreground(theme.Accent).Render(s.notice))
	}

	block := lipgloss.NewStyle().Width(cw).Render(b.String())
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

func optionLabels(v sessions.View) []string {
	labels := make([]string, len(v.Current.Options))
	for i, o := range v.Current.Options {
		labels[i] = o.Label
	}
	return labels
}

func chosenIndex(v sessions.View) int {
	if v.Selected == "" {
		return -1
	}
	for i, o := range v.Current.Options {
		if o.Value == v.Selected {
			return i
		}
	}
	return -1
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, assess.ErrAtStart):
		return "This is the first question."
	case errors.Is(err, assess.ErrUnanswered):
		return "Choose an answer to continue."
	default:
		return "Error: " + err.Error()
	}
}
