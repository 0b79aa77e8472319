package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
title: Mini
version: v2.1.0
questions:
  - id: move
    prompt: Do you move?
    category: lifestyle
    role: physical-activity
    options:
      - {value: "no", label: "No", score: 0}
      - {value: "yes", label: "Yes", score: 2}
`

func TestParse_Valid(t *testing.T) {
	c, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, c.MaxScore())
	assert.Equal(t, "v2.1.0", c.Version())
	assert.Equal(t, "Mini", c.Title())

	q, ok := c.ByRole(RolePhysicalActivity)
	require.True(t, ok)
	opt, ok := q.Option("yes")
	require.True(t, ok)
	assert.Equal(t, 2, opt.Score)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no questions",
			yaml:    "title: Empty\nversion: v1.0.0\nquestions: []\n",
			wantErr: "degenerate",
		},
		{
			name:    "empty document",
			yaml:    "",
			wantErr: "degenerate",
		},
		{
			name: "bad version",
			yaml: `title: T
version: "1.0"
questions:
  - {id: a, prompt: A, category: c, options: [{value: x, label: X, score: 1}]}
`,
			wantErr: "semantic version",
		},
		{
			name: "duplicate question id",
			yaml: `title: T
version: v1.0.0
questions:
  - {id: a, prompt: A, category: c, options: [{value: x, label: X, score: 1}]}
  - {id: a, prompt: B, category: c, options: [{value: x, label: X, score: 1}]}
`,
			wantErr: `duplicate question ID: "a"`,
		},
		{
			name: "duplicate option value",
			yaml: `title: T
version: v1.0.0
questions:
  - {id: a, prompt: A, category: c, options: [{value: x, label: X, score: 1}, {value: x, label: Y, score: 2}]}
`,
			wantErr: `duplicate option value "x"`,
		},
		{
			name: "negative score",
			yaml: `title: T
version: v1.0.0
questions:
  - {id: a, prompt: A, category: c, options: [{value: x, label: X, score: -1}]}
`,
			wantErr: "Score",
		},
		{
			name: "no options",
			yaml: `title: T
version: v1.0.0
questions:
  - {id: a, prompt: A, category: c, options: []}
`,
			wantErr: "Options",
		},
		{
			name: "unknown role",
			yaml: `title: T
version: v1.0.0
questions:
  - {id: a, prompt: A, category: c, role: hydration, options: [{value: x, label: X, score: 1}]}
`,
			wantErr: `unknown role "hydration"`,
		},
		{
			name: "role reused",
			yaml: `title: T
version: v1.0.0
questions:
  - {id: a, prompt: A, category: c, role: sleep, options: [{value: x, label: X, score: 1}]}
  - {id: b, prompt: B, category: c, role: sleep, options: [{value: x, label: X, score: 1}]}
`,
			wantErr: `role "sleep" assigned to both`,
		},
		{
			name: "unknown field",
			yaml: `title: T
version: v1.0.0
colour: blue
questions:
  - {id: a, prompt: A, category: c, options: [{value: x, label: X, score: 1}]}
`,
			wantErr: "colour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_ReportsAllProblems(t *testing.T) {
	yml := `title: T
version: nope
questions:
  - {id: a, prompt: A, category: c, role: bogus, options: [{value: x, label: X, score: 1}]}
  - {id: a, prompt: B, category: c, options: [{value: x, label: X, score: 1}]}
`
	_, err := Parse([]byte(yml))
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"semantic version", "duplicate question ID", "unknown role"} {
		assert.True(t, strings.Contains(msg, want), "missing %q in %s", want, msg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadFile_Degenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: E\nversion: v1.0.0\n"), 0o644))

	_, err := LoadFile(path)
	assert.True(t, errors.Is(err, ErrDegenerateCatalog))
}
