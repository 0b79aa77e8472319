// Package sessions serves many assessment sessions at once. Each session is
// guarded by its own mutex, persisted after every transition and reported
// to the event store when it completes.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/vitals/internal/assessment"
	"github.com/abhisek/vitals/internal/catalog"
	"github.com/abhisek/vitals/internal/scoring"
	"github.com/abhisek/vitals/internal/store"
)

// ErrNotFound is returned for an unknown session ID.
var ErrNotFound = errors.New("assessment not found")

// Manager owns the live sessions for one catalog.
type Manager struct {
	catalog *catalog.Catalog
	repo    store.SessionRepo
	events  store.EventRepo // optional

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu        sync.Mutex
	session   *assessment.Session
	createdAt time.Time
	reported  bool // result event already appended for this pass
	discarded bool
}

// NewManager returns a Manager. events may be nil, in which case completed
// results are not recorded.
func NewManager(c *catalog.Catalog, repo store.SessionRepo, events store.EventRepo) *Manager {
	return &Manager{
		catalog: c,
		repo:    repo,
		events:  events,
		entries: make(map[string]*entry),
	}
}

// Catalog returns the catalog sessions are started against.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

// Start creates and persists a new session.
func (m *Manager) Start(ctx context.Context) (View, error) {
	id := uuid.NewString()
	e := &entry{
		session:   assessment.New(m.catalog),
		createdAt: time.Now().UTC(),
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := m.persist(ctx, id, e); err != nil {
		return View{}, err
	}

	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()

	return newView(id, e.session), nil
}

// Get returns the current view of a session.
func (m *Manager) Get(ctx context.Context, id string) (View, error) {
	var v View
	err := m.with(ctx, id, func(e *entry) error {
		v = newView(id, e.session)
		return nil
	})
	return v, err
}

// Submit answers the current question of a session.
func (m *Manager) Submit(ctx context.Context, id, questionID, value string) (View, error) {
	return m.mutate(ctx, id, func(e *entry) error {
		return e.session.Answer(questionID, value)
	})
}

// Next advances a session. The first transition into Complete appends the
// result to the event store.
func (m *Manager) Next(ctx context.Context, id string) (View, error) {
	return m.mutate(ctx, id, func(e *entry) error {
		return e.session.Advance()
	})
}

// Previous moves a session back one question.
func (m *Manager) Previous(ctx context.Context, id string) (View, error) {
	return m.mutate(ctx, id, func(e *entry) error {
		return e.session.Retreat()
	})
}

// Reset clears a session back to its first question.
func (m *Manager) Reset(ctx context.Context, id string) (View, error) {
	return m.mutate(ctx, id, func(e *entry) error {
		e.session.Reset()
		e.reported = false
		return nil
	})
}

// Result evaluates a session. Incomplete sessions are evaluated as they
// stand.
func (m *Manager) Result(ctx context.Context, id string) (scoring.Result, error) {
	var res scoring.Result
	err := m.with(ctx, id, func(e *entry) error {
		res = scoring.Compute(e.session)
		return nil
	})
	return res, err
}

// Snapshot returns an independent copy of a session. Changes to the copy
// are not persisted.
func (m *Manager) Snapshot(ctx context.Context, id string) (*assessment.Session, error) {
	var cp *assessment.Session
	err := m.with(ctx, id, func(e *entry) error {
		var err error
		cp, err = assessment.Restore(m.catalog, e.session.Record())
		return err
	})
	return cp, err
}

// Discard forgets a session and deletes its record.
func (m *Manager) Discard(ctx context.Context, id string) error {
	return m.with(ctx, id, func(e *entry) error {
		if err := m.repo.Delete(ctx, id); err != nil {
			return err
		}
		e.discarded = true
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil
	})
}

// ResumeLatest loads the most recently updated in-progress session.
func (m *Manager) ResumeLatest(ctx context.Context) (View, error) {
	rec, err := m.repo.LatestInProgress(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return View{}, ErrNotFound
	}
	if err != nil {
		return View{}, err
	}
	return m.Get(ctx, rec.SessionID)
}

// mutate applies fn to a session, persists the new state and, on the
// first transition into Complete, appends the result. The reported flag is
// saved with the state so a reloaded session never reports the same pass
// twice. A failed save rolls the session back to its prior state.
func (m *Manager) mutate(ctx context.Context, id string, fn func(*entry) error) (View, error) {
	var v View
	err := m.with(ctx, id, func(e *entry) error {
		before := e.session.Record()
		wasReported := e.reported

		if err := fn(e); err != nil {
			return err
		}

		report := e.session.Complete() && !e.reported
		if report {
			e.reported = true
		}

		if err := m.persist(ctx, id, e); err != nil {
			restored, rerr := assessment.Restore(m.catalog, before)
			if rerr == nil {
				e.session = restored
			}
			e.reported = wasReported
			return err
		}

		if report {
			m.report(ctx, id, e.session)
		}
		v = newView(id, e.session)
		return nil
	})
	return v, err
}

// with runs fn holding the session's lock, loading the session from the
// repo on first use.
func (m *Manager) with(ctx context.Context, id string, fn func(*entry) error) error {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok {
		e = &entry{}
		m.entries[id] = e
	}
	m.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.discarded {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if e.session == nil {
		if err := m.load(ctx, id, e); err != nil {
			m.mu.Lock()
			if m.entries[id] == e {
				delete(m.entries, id)
			}
			m.mu.Unlock()
			return err
		}
	}
	return fn(e)
}

func (m *Manager) load(ctx context.Context, id string, e *entry) error {
	rec, err := m.repo.Load(ctx, id)
	if errors.Is(err, store.ErrSessionNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	s, err := assessment.Restore(m.catalog, assessment.Record{
		CatalogVersion: rec.CatalogVersion,
		Answers:        rec.Answers,
		Cursor:         rec.Cursor,
		Complete:       rec.Complete,
	})
	if err != nil {
		return fmt.Errorf("restore %s: %w", id, err)
	}

	e.session = s
	e.createdAt = rec.CreatedAt
	e.reported = rec.Reported
	return nil
}

func (m *Manager) persist(ctx context.Context, id string, e *entry) error {
	rec := e.session.Record()
	return m.repo.Save(ctx, store.SessionRecord{
		SessionID:      id,
		CatalogVersion: rec.CatalogVersion,
		Answers:        rec.Answers,
		Cursor:         rec.Cursor,
		Complete:       rec.Complete,
		Reported:       e.reported,
		CreatedAt:      e.createdAt,
	})
}

// report appends the result of a completed session. The transition is
// already persisted, so a failure here only warns.
func (m *Manager) report(ctx context.Context, id string, s *assessment.Session) {
	if m.events == nil {
		return
	}
	if err := m.events.AppendResult(ctx, ResultEvent(id, s, scoring.Compute(s))); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record result for %s: %v\n", id, err)
	}
}

// ResultEvent converts an evaluated session into its stored event form.
func ResultEvent(id string, s *assessment.Session, res scoring.Result) store.ResultEventData {
	cats := make([]store.CategoryScore, len(res.Categories))
	for i, c := range res.Categories {
		cats[i] = store.CategoryScore{
			Category:  c.Category,
			Label:     c.Label,
			Score:     c.Score,
			Max:       c.Max,
			Answered:  c.Answered,
			Questions: c.Questions,
		}
	}
	return store.ResultEventData{
		SessionID:       id,
		CatalogVersion:  s.Catalog().Version(),
		Total:           res.Total,
		Max:             res.Max,
		Percentage:      res.Percentage,
		Tier:            res.Tier.Label(),
		Answers:         s.Record().Answers,
		Recommendations: res.Recommendations,
		Categories:      cats,
	}
}
