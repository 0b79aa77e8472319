package sessions

import (
	"github.com/abhisek/vitals/internal/assessment"
	"github.com/abhisek/vitals/internal/catalog"
)

// View is a read-only snapshot of a session for callers outside the lock.
type View struct {
	ID        string            `json:"id"`
	State     string            `json:"state"`
	Cursor    int               `json:"cursor"`
	Questions int               `json:"questions"`
	Answered  int               `json:"answered"`
	Current   *catalog.Question `json:"current,omitempty"`
	Selected  string            `json:"selected,omitempty"` // answer already recorded for Current
	Answers   map[string]string `json:"answers"`
}

// Complete reports whether the session has passed its last question.
func (v View) Complete() bool {
	return v.State == assessment.StateComplete.String()
}

func newView(id string, s *assessment.Session) View {
	rec := s.Record()
	v := View{
		ID:        id,
		State:     s.State().String(),
		Cursor:    s.Cursor(),
		Questions: s.Catalog().Len(),
		Answered:  s.AnsweredCount(),
		Answers:   rec.Answers,
	}
	if q, ok := s.Current(); ok {
		v.Current = &q
		if a, ok := s.AnswerFor(q.ID); ok {
			v.Selected = a.Value
		}
	}
	return v
}
