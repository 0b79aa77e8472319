package scoring

import (
	"github.com/abhisek/vitals/internal/assessment"
)

// CategoryScore aggregates the questions sharing a category tag.
type CategoryScore struct {
	Category  string `json:"category"`
	Label     string `json:"label"`
	Score     int    `json:"score"`
	Max       int    `json:"max"`
	Answered  int    `json:"answered"`
	Questions int    `json:"questions"`
}

// Percentage returns Score as a share of Max.
func (c CategoryScore) Percentage() float64 {
	return Percentage(c.Score, c.Max)
}

// Breakdown groups s by category in order of first appearance in the
// catalog. Unanswered questions contribute nothing to Score but still
// count toward Max.
func Breakdown(s *assessment.Session) []CategoryScore {
	c := s.Catalog()
	index := make(map[string]int)
	var out []CategoryScore

	for _, q := range c.Questions() {
		i, ok := index[q.Category]
		if !ok {
			i = len(out)
			index[q.Category] = i
			out = append(out, CategoryScore{
				Category: q.Category,
				Label:    c.CategoryLabel(q.Category),
			})
		}
		cs := &out[i]
		cs.Questions++
		cs.Max += q.MaxScore()
		if a, answered := s.AnswerFor(q.ID); answered {
			cs.Answered++
			cs.Score += a.Score
		}
	}
	return out
}
