package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDegenerateCatalog is returned when a catalog has no questions.
var ErrDegenerateCatalog = errors.New("degenerate catalog: no questions")

// Catalog is an immutable, ordered questionnaire.
type Catalog struct {
	version    string
	title      string
	categories map[string]string
	questions  []Question
	byID       map[string]int
	byRole     map[Role]int
	maxScore   int
}

// New validates questions and builds a Catalog. The slice is copied.
func New(title, version string, categories map[string]string, questions []Question) (*Catalog, error) {
	doc := Document{Title: title, Version: version, Categories: categories, Questions: questions}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}
	return build(doc), nil
}

func build(doc Document) *Catalog {
	c := &Catalog{
		version:    doc.Version,
		title:      doc.Title,
		categories: make(map[string]string, len(doc.Categories)),
		questions:  make([]Question, len(doc.Questions)),
		byID:       make(map[string]int, len(doc.Questions)),
		byRole:     make(map[Role]int),
	}
	for k, v := range doc.Categories {
		c.categories[k] = v
	}
	for i, q := range doc.Questions {
		q.Options = slices.Clone(q.Options)
		c.questions[i] = q
		c.byID[q.ID] = i
		if q.Tracked() {
			c.byRole[q.Role] = i
		}
		c.maxScore += q.MaxScore()
	}
	return c
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Get returns the question at position index.
func (c *Catalog) Get(index int) (Question, error) {
	if index < 0 || index >= len(c.questions) {
		return Question{}, fmt.Errorf("question index %d out of range [0, %d)", index, len(c.questions))
	}
	return c.questions[index].clone(), nil
}

// ByID returns the question with the given id and its position.
func (c *Catalog) ByID(id string) (Question, int, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, -1, false
	}
	return c.questions[i].clone(), i, true
}

// ByRole returns the question tagged with role.
func (c *Catalog) ByRole(role Role) (Question, bool) {
	if role == RoleNone {
		return Question{}, false
	}
	i, ok := c.byRole[role]
	if !ok {
		return Question{}, false
	}
	return c.questions[i].clone(), true
}

// Tracked returns the role-tagged questions in catalog order.
func (c *Catalog) Tracked() []Question {
	var out []Question
	for _, q := range c.questions {
		if q.Tracked() {
			out = append(out, q.clone())
		}
	}
	return out
}

// Questions returns a copy of all questions in order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.clone()
	}
	return out
}

// MaxScore is the sum of every question's highest option score.
func (c *Catalog) MaxScore() int {
	return c.maxScore
}

// Version returns the catalog's semantic version.
func (c *Catalog) Version() string {
	return c.version
}

// Title returns the catalog's display title.
func (c *Catalog) Title() string {
	return c.title
}

// CategoryLabel returns the display label for a category key.
// Unknown keys are title-cased.
func (c *Catalog) CategoryLabel(key string) string {
	if l, ok := c.categories[key]; ok && l != "" {
		return l
	}
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

//go:embed default.yaml
var defaultYAML []byte

// def is the built-in catalog, parsed once at package load.
var def *Catalog

func init() {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default catalog is invalid: %v", err))
	}
	def = c
}

// Default returns the built-in questionnaire.
func Default() *Catalog {
	return def
}
