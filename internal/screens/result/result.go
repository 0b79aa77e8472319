package result

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vitals/internal/coach"
	"github.com/abhisek/vitals/internal/router"
	"github.com/abhisek/vitals/internal/scoring"
	"github.com/abhisek/vitals/internal/screen"
	"github.com/abhisek/vitals/internal/sessions"
	"github.com/abhisek/vitals/internal/ui/components"
	"github.com/abhisek/vitals/internal/ui/layout"
	"github.com/abhisek/vitals/internal/ui/theme"
)

// insightPollInterval is how often the screen checks for a finished insight.
const insightPollInterval = 250 * time.Millisecond

type resultLoadedMsg struct {
	Result   scoring.Result
	Complete bool
	Input    coach.Input
	Err      error
}

type insightTickMsg time.Time

// ResultScreen shows the score, tier, category breakdown and
// recommendations of a session, plus a coach insight when one is available.
type ResultScreen struct {
	sessions *sessions.Manager
	coach    *coach.Service
	id       string

	res      scoring.Result
	complete bool
	loaded   bool
	errMsg   string

	insight      *coach.Insight
	insightErr   string
	insightState insightState
	spin         spinner.Model

	offset int
}

type insightState int

const (
	insightOff insightState = iota
	insightPending
	insightDone
)

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.Closer = (*ResultScreen)(nil)

// New creates a ResultScreen for session id. coachSvc may be nil.
func New(mgr *sessions.Manager, coachSvc *coach.Service, id string) *ResultScreen {
	return &ResultScreen{
		sessions: mgr,
		coach:    coachSvc,
		id:       id,
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary)),
		),
	}
}

func (s *ResultScreen) Init() tea.Cmd {
	mgr, id := s.sessions, s.id
	return func() tea.Msg {
		ctx := context.Background()
		res, err := mgr.Result(ctx, id)
		if err != nil {
			return resultLoadedMsg{Err: err}
		}
		snap, err := mgr.Snapshot(ctx, id)
		if err != nil {
			return resultLoadedMsg{Err: err}
		}
		return resultLoadedMsg{
			Result:   res,
			Complete: snap.Complete(),
			Input:    coach.InputFrom(snap, res),
		}
	}
}

// Close drops an insight still being generated.
func (s *ResultScreen) Close() {
	if s.insightState == insightPending {
		s.coach.Cancel()
	}
}

func (s *ResultScreen) Title() string {
	return "Your Results"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.res = msg.Result
		s.complete = msg.Complete
		if s.coach.Available() {
			s.insightState = insightPending
			s.coach.RequestInsight(context.Background(), msg.Input)
			return s, tea.Batch(pollInsight(), s.spin.Tick)
		}
		return s, nil

	case insightTickMsg:
		if s.insightState != insightPending {
			return s, nil
		}
		insight, ready, err := s.coach.ConsumeInsight()
		if !ready {
			return s, pollInsight()
		}
		s.insightState = insightDone
		s.insight = insight
		if err != nil {
			s.insightErr = err.Error()
		}
		return s, nil

	case spinner.TickMsg:
		if s.insightState != insightPending {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func pollInsight() tea.Cmd {
	return tea.Tick(insightPollInterval, func(t time.Time) tea.Msg {
		return insightTickMsg(t)
	})
}

func (s *ResultScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Scoring...")
	}

	cw := components.ContentWidth(width)
	body := lipgloss.NewStyle().Width(cw).Render(s.render(cw))
	visible, offset := layout.Window(body, s.offset, height-1)
	s.offset = offset
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, visible)
}

func (s *ResultScreen) render(cw int) string {
	res := s.res
	var b strings.Builder
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	text := lipgloss.NewStyle().Foreground(theme.Text)

	b.WriteString(theme.Heading.Render(fmt.Sprintf("Score %d / %d", res.Total, res.Max)))
	b.WriteString(text.Render(fmt.Sprintf("   %.0f%%   ", res.Percentage)))
	b.WriteString(lipgloss.NewStyle().Foreground(tierColor(res.Tier)).Bold(true).Render(res.Tier.Label()))
	b.WriteString("\n")
	b.WriteString(dim.Width(cw).Render(res.Tier.Description()))
	b.WriteString("\n")
	if !s.complete {
		b.WriteString(theme.Hint.Render("Some questions are unanswered; the score reflects your answers so far."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionTitle("By category", cw))
	labelWidth := 0
	for _, c := range res.Categories {
		labelWidth = max(labelWidth, lipgloss.Width(c.Label))
	}
	for _, c := range res.Categories {
		bar := components.NewProgressBar(c.Label, c.Percentage()/100, true, cw)
		bar.LabelWidth = labelWidth
		bar.Fill = tierColor(scoring.Classify(c.Percentage()))
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionTitle("Recommendations", cw))
	for _, r := range res.Recommendations {
		b.WriteString(text.Width(cw).Render("• " + r))
		b.WriteString("\n")
	}

	if s.insightState != insightOff {
		b.WriteString("\n")
		b.WriteString(sectionTitle("Coach", cw))
		b.WriteString(s.renderInsight(cw))
	}
	return b.String()
}

func (s *ResultScreen) renderInsight(cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	text := lipgloss.NewStyle().Foreground(theme.Text).Width(cw)

	switch {
	case s.insightState == insightPending:
		return s.spin.View() + " " + theme.Hint.Render("Preparing a personalized note...") + "\n"
	case s.insightErr != "":
		return dim.Width(cw).Render("The coach is unavailable right now: "+s.insightErr) + "\n"
	case s.insight == nil:
		return ""
	}

	in := s.insight
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Width(cw).Render(in.Headline))
	b.WriteString("\n")
	b.WriteString(text.Render(in.Summary))
	b.WriteString("\n\n")
	for _, f := range in.FocusAreas {
		b.WriteString(text.Render(theme.Chosen.Render(f.Area+": ") + f.Action))
		b.WriteString("\n")
	}
	if in.Encouragement != "" {
		b.WriteString("\n")
		b.WriteString(text.Italic(true).Render(in.Encouragement))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Italic(true).Width(cw).Render(in.Disclaimer))
	b.WriteString("\n")
	return b.String()
}

func sectionTitle(title string, cw int) string {
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(cw-lipgloss.Width(title)-1, 0)))
	return theme.Heading.Render(title) + " " + rule + "\n"
}

func tierColor(t scoring.Tier) color.Color {
	switch t {
	case scoring.TierExcellent:
		return theme.Success
	case scoring.TierGood:
		return theme.Primary
	case scoring.TierFair:
		return theme.Accent
	case scoring.TierNeedsImprovement:
		return theme.Error
	default:
		return theme.Text
	}
}
