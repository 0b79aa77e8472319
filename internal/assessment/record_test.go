package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vitals/internal/catalog"
)

func TestRecord_RoundTripMidway(t *testing.T) {
	c := catalog.Default()
	s := New(c)
	answerCurrent(t, s, 3)
	answerCurrent(t, s, 1)
	require.NoError(t, s.Answer("water-intake", "1.5-2l"))

	rec := s.Record()
	assert.Equal(t, "v1.0.0", rec.CatalogVersion)
	assert.Equal(t, 2, rec.Cursor)
	assert.False(t, rec.Complete)
	assert.Equal(t, map[string]string{
		"exercise-frequency": "weekly-5-plus",
		"produce-servings":   "one-two",
		"water-intake":       "1.5-2l",
	}, rec.Answers)

	restored, err := Restore(c, rec)
	require.NoError(t, err)
	assert.Equal(t, s.Cursor(), restored.Cursor())
	assert.Equal(t, s.Answers(), restored.Answers())
}

func TestRecord_JSONShape(t *testing.T) {
	s := New(catalog.Default())
	answerCurrent(t, s, 0)

	data, err := json.Marshal(s.Record())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"catalog_version":"v1.0.0","answers":{"exercise-frequency":"never"},"cursor":1,"complete":false}`,
		string(data))
}

func TestRestore_Complete(t *testing.T) {
	c := catalog.Default()
	s := New(c)
	for i := 0; i < c.Len(); i++ {
		answerCurrent(t, s, 2)
	}

	restored, err := Restore(c, s.Record())
	require.NoError(t, err)
	assert.True(t, restored.Complete())
	assert.Len(t, restored.Answers(), c.Len())
}

func TestRestore_Rejects(t *testing.T) {
	c := catalog.Default()
	n := c.Len()

	tests := []struct {
		name string
		rec  Record
	}{
		{"major version", Record{CatalogVersion: "v2.0.0", Cursor: 0}},
		{"negative cursor", Record{CatalogVersion: "v1.0.0", Cursor: -1}},
		{"cursor past end", Record{CatalogVersion: "v1.0.0", Cursor: n + 1}},
		{"complete flag without cursor", Record{CatalogVersion: "v1.0.0", Cursor: 0, Complete: true}},
		{"cursor at end without flag", Record{CatalogVersion: "v1.0.0", Cursor: n}},
		{"unknown question", Record{CatalogVersion: "v1.0.0", Answers: map[string]string{"height": "tall"}}},
		{"illegal option", Record{CatalogVersion: "v1.0.0", Answers: map[string]string{"tobacco": "sometimes"}}},
		{"gap behind cursor", Record{CatalogVersion: "v1.0.0", Cursor: 2, Answers: map[string]string{"exercise-frequency": "never"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(c, tt.rec)
			assert.ErrorIs(t, err, ErrIncompatibleRecord)
		})
	}
}

func TestRestore_MinorVersionDriftAccepted(t *testing.T) {
	c := catalog.Default()
	rec := Record{
		CatalogVersion: "v1.4.2",
		Answers:        map[string]string{"exercise-frequency": "weekly-1-2"},
		Cursor:         0,
	}

	s, err := Restore(c, rec)
	require.NoError(t, err)
	a, ok := s.AnswerFor("exercise-frequency")
	require.True(t, ok)
	assert.Equal(t, 1, a.Score)
	assert.Equal(t, 0, s.Cursor())
}
