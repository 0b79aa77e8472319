package assessment

import (
	"fmt"

	"golang.org/x/mod/semver"

	"github.com/abhisek/vitals/internal/catalog"
)

// Record is the minimal durable form of a session.
type Record struct {
	CatalogVersion string            `json:"catalog_version"`
	Answers        map[string]string `json:"answers"` // question ID -> option value
	Cursor         int               `json:"cursor"`
	Complete       bool              `json:"complete"`
}

// Record snapshots the session.
func (s *Session) Record() Record {
	answers := make(map[string]string, len(s.answers))
	for id, a := range s.answers {
		answers[id] = a.Value
	}
	return Record{
		CatalogVersion: s.catalog.Version(),
		Answers:        answers,
		Cursor:         s.cursor,
		Complete:       s.Complete(),
	}
}

// Restore rebuilds a session from rec. Records taken against a catalog with
// a different major version, or that violate the session invariants, are
// rejected with ErrIncompatibleRecord.
func Restore(c *catalog.Catalog, rec Record) (*Session, error) {
	if semver.Major(rec.CatalogVersion) != semver.Major(c.Version()) {
		return nil, fmt.Errorf("%w: recorded against catalog %s, current is %s",
			ErrIncompatibleRecord, rec.CatalogVersion, c.Version())
	}

	n := c.Len()
	if rec.Cursor < 0 || rec.Cursor > n {
		return nil, fmt.Errorf("%w: cursor %d out of range [0, %d]", ErrIncompatibleRecord, rec.Cursor, n)
	}
	if rec.Complete != (rec.Cursor == n) {
		return nil, fmt.Errorf("%w: complete=%v with cursor %d of %d", ErrIncompatibleRecord, rec.Complete, rec.Cursor, n)
	}

	s := New(c)
	for id, value := range rec.Answers {
		q, _, ok := c.ByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: unknown question %q", ErrIncompatibleRecord, id)
		}
		opt, ok := q.Option(value)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an option of %q", ErrIncompatibleRecord, value, id)
		}
		s.answers[id] = Answer{QuestionID: id, Value: opt.Value, Score: opt.Score}
	}

	// Forward-only navigation means every question behind the cursor was answered.
	for i := 0; i < rec.Cursor; i++ {
		q, _ := c.Get(i)
		if _, ok := s.answers[q.ID]; !ok {
			return nil, fmt.Errorf("%w: question %q behind the cursor has no answer", ErrIncompatibleRecord, q.ID)
		}
	}

	s.cursor = rec.Cursor
	return s, nil
}
