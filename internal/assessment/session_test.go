package assessment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vitals/internal/catalog"
)

// answerCurrent picks the option at idx for the current question and advances.
func answerCurrent(t *testing.T, s *Session, idx int) {
	t.Helper()
	q, ok := s.Current()
	require.True(t, ok, "session already complete")
	require.NoError(t, s.Answer(q.ID, q.Options[idx].Value))
	require.NoError(t, s.Advance())
}

func TestNew_StartsAtZero(t *testing.T) {
	s := New(catalog.Default())

	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, StateInProgress, s.State())
	assert.Empty(t, s.Answers())

	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "exercise-frequency", q.ID)
}

func TestAnswer_WrongQuestion(t *testing.T) {
	s := New(catalog.Default())

	err := s.Answer("sleep-hours", "7-8")
	assert.True(t, errors.Is(err, ErrWrongQuestion), "got %v", err)
	assert.Empty(t, s.Answers())
	assert.Equal(t, 0, s.Cursor())
}

func TestAnswer_InvalidOption(t *testing.T) {
	s := New(catalog.Default())

	err := s.Answer("exercise-frequency", "daily-marathon")
	assert.True(t, errors.Is(err, ErrInvalidOption), "got %v", err)
	_, ok := s.AnswerFor("exercise-frequency")
	assert.False(t, ok)
}

func TestAnswer_RejectionKeepsPriorAnswer(t *testing.T) {
	s := New(catalog.Default())
	require.NoError(t, s.Answer("exercise-frequency", "weekly-3-4"))

	require.Error(t, s.Answer("exercise-frequency", "bogus"))

	a, ok := s.AnswerFor("exercise-frequency")
	require.True(t, ok)
	assert.Equal(t, "weekly-3-4", a.Value)
	assert.Equal(t, 2, a.Score)
}

func TestAnswer_Idempotent(t *testing.T) {
	s := New(catalog.Default())
	require.NoError(t, s.Answer("exercise-frequency", "weekly-5-plus"))
	require.NoError(t, s.Answer("exercise-frequency", "weekly-5-plus"))

	answers := s.Answers()
	require.Len(t, answers, 1)
	assert.Equal(t, 3, answers[0].Score)
}

func TestAnswer_OverwriteReplaces(t *testing.T) {
	s := New(catalog.Default())
	require.NoError(t, s.Answer("exercise-frequency", "weekly-5-plus"))
	require.NoError(t, s.Answer("exercise-frequency", "weekly-1-2"))

	answers := s.Answers()
	require.Len(t, answers, 1)
	assert.Equal(t, "weekly-1-2", answers[0].Value)
	assert.Equal(t, 1, answers[0].Score)
	assert.Equal(t, 0, s.Cursor(), "answering must not move the cursor")
}

func TestAdvance_RequiresAnswer(t *testing.T) {
	s := New(catalog.Default())

	err := s.Advance()
	assert.True(t, errors.Is(err, ErrUnanswered), "got %v", err)
	assert.Equal(t, 0, s.Cursor())

	require.NoError(t, s.Answer("exercise-frequency", "never"))
	require.NoError(t, s.Advance())
	assert.Equal(t, 1, s.Cursor())
}

func TestAdvance_CompletesAtEnd(t *testing.T) {
	c := catalog.Default()
	s := New(c)
	for i := 0; i < c.Len(); i++ {
		assert.Equal(t, StateInProgress, s.State())
		answerCurrent(t, s, 0)
	}

	assert.Equal(t, StateComplete, s.State())
	assert.Equal(t, c.Len(), s.Cursor())
	_, ok := s.Current()
	assert.False(t, ok)
	assert.Len(t, s.Answers(), c.Len())

	assert.ErrorIs(t, s.Advance(), ErrComplete)
	assert.ErrorIs(t, s.Answer("social-connection", "always"), ErrComplete)
}

func TestRetreat(t *testing.T) {
	s := New(catalog.Default())
	assert.ErrorIs(t, s.Retreat(), ErrAtStart)

	answerCurrent(t, s, 2)
	require.NoError(t, s.Retreat())
	assert.Equal(t, 0, s.Cursor())

	a, ok := s.AnswerFor("exercise-frequency")
	require.True(t, ok, "retreat must keep the answer")
	assert.Equal(t, "weekly-3-4", a.Value)

	// Already answered, so the session can move forward again directly.
	require.NoError(t, s.Advance())
	assert.Equal(t, 1, s.Cursor())
}

func TestRetreat_FromComplete(t *testing.T) {
	c := catalog.Default()
	s := New(c)
	for i := 0; i < c.Len(); i++ {
		answerCurrent(t, s, 3)
	}
	require.True(t, s.Complete())

	require.NoError(t, s.Retreat())
	assert.Equal(t, StateInProgress, s.State())
	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "social-connection", q.ID)
}

func TestReset(t *testing.T) {
	c := catalog.Default()
	s := New(c)
	for i := 0; i < c.Len(); i++ {
		answerCurrent(t, s, 3)
	}

	s.Reset()

	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, StateInProgress, s.State())
	assert.Empty(t, s.Answers())
	assert.Equal(t, 0, s.AnsweredCount())
}

func TestAnswerForRole(t *testing.T) {
	s := New(catalog.Default())
	answerCurrent(t, s, 1)

	a, ok := s.AnswerForRole(catalog.RolePhysicalActivity)
	require.True(t, ok)
	assert.Equal(t, "exercise-frequency", a.QuestionID)
	assert.Equal(t, 1, a.Score)

	_, ok = s.AnswerForRole(catalog.RoleSleep)
	assert.False(t, ok)
	_, ok = s.AnswerForRole(catalog.RoleNone)
	assert.False(t, ok)
}

func TestAnswers_CatalogOrder(t *testing.T) {
	s := New(catalog.Default())
	answerCurrent(t, s, 0)
	answerCurrent(t, s, 1)
	answerCurrent(t, s, 2)

	var ids []string
	for _, a := range s.Answers() {
		ids = append(ids, a.QuestionID)
	}
	assert.Equal(t, []string{"exercise-frequency", "produce-servings", "water-intake"}, ids)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "in-progress", StateInProgress.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "State(7)", State(7).String())
}
