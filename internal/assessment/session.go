package assessment

import (
	"fmt"

	"github.com/abhisek/vitals/internal/catalog"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateInProgress State = iota // Cursor points at an unanswered or revisited question
	StateComplete                // Cursor has moved past the last question
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in-progress"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Answer is the recorded selection for one question.
type Answer struct {
	QuestionID string
	Value      string
	Score      int
}

// Session is one pass through a catalog. It is not safe for concurrent use;
// callers sharing a session must serialize access.
type Session struct {
	catalog *catalog.Catalog
	cursor  int
	answers map[string]Answer
}

// New starts a session at the first question with no answers.
func New(c *catalog.Catalog) *Session {
	return &Session{
		catalog: c,
		answers: make(map[string]Answer, c.Len()),
	}
}

// Catalog returns the catalog the session runs against.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Cursor returns the index of the current question, or Len() when complete.
func (s *Session) Cursor() int {
	return s.cursor
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	if s.cursor >= s.catalog.Len() {
		return StateComplete
	}
	return StateInProgress
}

// Complete reports whether every question has been answered and passed.
func (s *Session) Complete() bool {
	return s.State() == StateComplete
}

// Current returns the question at the cursor, or false once complete.
func (s *Session) Current() (catalog.Question, bool) {
	if s.Complete() {
		return catalog.Question{}, false
	}
	q, err := s.catalog.Get(s.cursor)
	if err != nil {
		return catalog.Question{}, false
	}
	return q, true
}

// Answer records (or replaces) the answer to the current question.
func (s *Session) Answer(questionID, value string) error {
	q, ok := s.Current()
	if !ok {
		return ErrComplete
	}
	if questionID != q.ID {
		return fmt.Errorf("%w: got %q, current is %q", ErrWrongQuestion, questionID, q.ID)
	}
	opt, ok := q.Option(value)
	if !ok {
		return fmt.Errorf("%w: %q is not an option of %q", ErrInvalidOption, value, q.ID)
	}

	s.answers[q.ID] = Answer{QuestionID: q.ID, Value: opt.Value, Score: opt.Score}
	return nil
}

// Advance moves to the next question. The session becomes complete when
// the cursor passes the last question.
func (s *Session) Advance() error {
	q, ok := s.Current()
	if !ok {
		return ErrComplete
	}
	if _, answered := s.answers[q.ID]; !answered {
		return fmt.Errorf("%w: %q", ErrUnanswered, q.ID)
	}
	s.cursor++
	return nil
}

// Retreat moves back one question. Answers are kept.
func (s *Session) Retreat() error {
	if s.cursor == 0 {
		return ErrAtStart
	}
	s.cursor--
	return nil
}

// Reset clears every answer and returns to the first question.
func (s *Session) Reset() {
	s.cursor = 0
	clear(s.answers)
}

// AnswerFor returns the recorded answer for questionID.
func (s *Session) AnswerFor(questionID string) (Answer, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

// AnswerForRole returns the recorded answer for the question tagged role.
func (s *Session) AnswerForRole(role catalog.Role) (Answer, bool) {
	q, ok := s.catalog.ByRole(role)
	if !ok {
		return Answer{}, false
	}
	return s.AnswerFor(q.ID)
}

// Answers returns the recorded answers in catalog order.
func (s *Session) Answers() []Answer {
	out := make([]Answer, 0, len(s.answers))
	for _, q := range s.catalog.Questions() {
		if a, ok := s.answers[q.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}

// AnsweredCount returns how many questions have an answer.
func (s *Session) AnsweredCount() int {
	return len(s.answers)
}
