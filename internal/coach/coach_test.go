package coach

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vitals/internal/assessment"
	"github.com/abhisek/vitals/internal/catalog"
	"github.com/abhisek/vitals/internal/llm"
	"github.com/abhisek/vitals/internal/scoring"
)

func validInsightJSON() json.RawMessage {
	return json.RawMessage(`{
		"headline": "Good habits with room to rest more",
		"summary": "You move often and eat well. Sleep and stress are pulling your score down.",
		"focus_areas": [
			{"area": "Sleep", "action": "Set a fixed bedtime on weeknights."},
			{"area": "Stress", "action": "Take a ten minute walk after lunch."}
		],
		"encouragement": "Small steps add up quickly."
	}`)
}

// completedSession answers every question with the option at idx.
func completedSession(t *testing.T, idx int) *assessment.Session {
	t.Helper()
	s := assessment.New(catalog.Default())
	for {
		q, ok := s.Current()
		if !ok {
			return s
		}
		require.NoError(t, s.Answer(q.ID, q.Options[idx].Value))
		require.NoError(t, s.Advance())
	}
}

func waitForInsight(t *testing.T, svc *Service) (*Insight, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if insight, ready, err := svc.ConsumeInsight(); ready {
			return insight, err
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for insight")
	return nil, nil
}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validInsightJSON()})
	svc := NewService(mock, DefaultConfig())

	s := completedSession(t, 2)
	insight, err := svc.Generate(context.Background(), InputFrom(s, scoring.Compute(s)))
	require.NoError(t, err)

	assert.Equal(t, "Good habits with room to rest more", insight.Headline)
	require.Len(t, insight.FocusAreas, 2)
	assert.Equal(t, "Sleep", insight.FocusAreas[0].Area)
	assert.Equal(t, Disclaimer, insight.Disclaimer)
	assert.Equal(t, "mock", insight.Model)
	assert.False(t, insight.GeneratedAt.IsZero())

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Same(t, InsightSchema, req.Schema)
	assert.Equal(t, systemPrompt, req.System)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "Overall score: 20/30 (67%), tier: Good")
	assert.Contains(t, msg, "- Rest & Recovery: ")
	assert.Contains(t, msg, scoring.GenericAdvice)
}

func TestGenerate_InvalidResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"headline":"hi"}`)})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Generate(context.Background(), Input{})
	var inv *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}

func TestUnavailable(t *testing.T) {
	svc := NewService(nil, DefaultConfig())
	assert.False(t, svc.Available())

	_, err := svc.Generate(context.Background(), Input{})
	assert.ErrorIs(t, err, ErrUnavailable)

	var nilSvc *Service
	assert.False(t, nilSvc.Available())
}

func TestRequestAndConsume(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validInsightJSON()})
	svc := NewService(mock, DefaultConfig())

	_, ready, _ := svc.ConsumeInsight()
	assert.False(t, ready, "nothing requested yet")

	svc.RequestInsight(t.Context(), Input{Tier: "Fair"})
	insight, err := waitForInsight(t, svc)
	require.NoError(t, err)
	assert.Equal(t, "Small steps add up quickly.", insight.Encouragement)

	_, ready, _ = svc.ConsumeInsight()
	assert.False(t, ready, "slot is cleared after consumption")
}

func TestRequestAndConsume_Error(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("offline")})
	svc := NewService(mock, DefaultConfig())

	svc.RequestInsight(t.Context(), Input{})
	insight, err := waitForInsight(t, svc)
	assert.Nil(t, insight)
	assert.ErrorContains(t, err, "offline")
}

func TestCancelDropsResult(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validInsightJSON()})
	svc := NewService(mock, DefaultConfig())

	svc.RequestInsight(t.Context(), Input{})
	svc.Cancel()

	time.Sleep(50 * time.Millisecond)
	_, ready, _ := svc.ConsumeInsight()
	assert.False(t, ready)
}

// blockingProvider holds every call until its context ends.
type blockingProvider struct {
	started chan struct{}
	done    chan error
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{started: make(chan struct{}, 4), done: make(chan error, 4)}
}

func (p *blockingProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.started <- struct{}{}
	<-ctx.Done()
	p.done <- ctx.Err()
	return nil, ctx.Err()
}

func (p *blockingProvider) ModelID() string { return "blocking" }

func (p *blockingProvider) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-p.started:
	case <-time.After(2 * time.Second):
		t.Fatal("provider was never called")
	}
}

func (p *blockingProvider) waitCancelled(t *testing.T) {
	t.Helper()
	select {
	case err := <-p.done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("provider call was not cancelled")
	}
}

func TestCancelStopsProviderCall(t *testing.T) {
	p := newBlockingProvider()
	svc := NewService(p, DefaultConfig())

	svc.RequestInsight(context.Background(), Input{})
	p.waitStarted(t)
	svc.Cancel()
	p.waitCancelled(t)

	time.Sleep(20 * time.Millisecond)
	_, ready, _ := svc.ConsumeInsight()
	assert.False(t, ready, "a cancelled request leaves nothing to consume")
}

func TestNewRequestCancelsPrevious(t *testing.T) {
	p := newBlockingProvider()
	svc := NewService(p, DefaultConfig())

	svc.RequestInsight(context.Background(), Input{})
	p.waitStarted(t)
	svc.RequestInsight(context.Background(), Input{})
	p.waitCancelled(t)
	p.waitStarted(t)

	svc.Cancel()
	p.waitCancelled(t)
}

func TestInputFrom(t *testing.T) {
	s := completedSession(t, 0)
	in := InputFrom(s, scoring.Compute(s))

	assert.Equal(t, 0, in.Total)
	assert.Equal(t, 30, in.Max)
	assert.Equal(t, "Needs Improvement", in.Tier)
	assert.Len(t, in.Categories, 6)
	assert.Len(t, in.Recommendations, 6)
	require.Len(t, in.Answers, 10)
	assert.True(t, strings.HasPrefix(in.Answers[0].Prompt, "How often"), in.Answers[0].Prompt)
}

func TestBuildUserMessage_NoAnswers(t *testing.T) {
	msg := buildUserMessage(Input{Max: 30, Tier: "Needs Improvement"})
	assert.Contains(t, msg, "Answers:\nNone\n")
}
