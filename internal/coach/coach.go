// Package coach turns a scored assessment into a short personalized
// narrative using an LLM. The deterministic recommendations stay the source
// of truth; an insight only adds context to them.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/vitals/internal/llm"
)

// Disclaimer is attached to every insight.
const Disclaimer = "This is general wellness information, not medical advice. " +
	"Talk to a qualified health professional about any health concern."

// ErrUnavailable is returned when no LLM provider is configured.
var ErrUnavailable = errors.New("coach unavailable: no LLM provider configured")

// FocusArea is one concrete suggestion tied to a part of the assessment.
type FocusArea struct {
	Area   string `json:"area"`
	Action string `json:"action"`
}

// Insight is a generated coaching note.
type Insight struct {
	Headline      string      `json:"headline"`
	Summary       string      `json:"summary"`
	FocusAreas    []FocusArea `json:"focus_areas"`
	Encouragement string      `json:"encouragement"`
	Disclaimer    string      `json:"disclaimer"`
	Model         string      `json:"model"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

type Config struct {
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{
		MaxTokens:   800,
		Temperature: 0.4,
	}
}

// Service generates insights. A Service with a nil provider is valid and
// always reports ErrUnavailable.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	seq     uint64
	stop    context.CancelFunc
	pending *Insight
	err     error
	ready   bool
}

func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool {
	return s != nil && s.provider != nil
}

// Generate produces an insight synchronously.
func (s *Service) Generate(ctx context.Context, in Input) (*Insight, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, "coach"), llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in)}},
		Schema:      InsightSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("coach insight: %w", err)
	}

	var out Insight
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coach insight: %w", err)
	}
	out.Disclaimer = Disclaimer
	out.Model = resp.Model
	out.GeneratedAt = time.Now().UTC()
	return &out, nil
}

// RequestInsight starts generation in the background. A newer request
// supersedes one still in flight, cancelling its provider call.
func (s *Service) RequestInsight(ctx context.Context, in Input) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.abortLocked()
	s.seq++
	seq := s.seq
	s.stop = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		insight, err := s.Generate(ctx, in)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return
		}
		s.stop = nil
		s.pending, s.err, s.ready = insight, err, true
	}()
}

// ConsumeInsight returns the finished background result, if any, and clears
// the slot. ready is false while generation is still running.
func (s *Service) ConsumeInsight() (insight *Insight, ready bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false, nil
	}
	insight, err = s.pending, s.err
	s.pending, s.err, s.ready = nil, nil, false
	return insight, true, err
}

// Cancel stops any in-flight request and drops its result.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abortLocked()
	s.seq++
}

func (s *Service) abortLocked() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.pending, s.err, s.ready = nil, nil, false
}
