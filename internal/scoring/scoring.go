// Package scoring turns an assessment session into totals, a tier,
// recommendations and a per-category breakdown. Every function is pure.
package scoring

import (
	"github.com/abhisek/vitals/internal/assessment"
)

// Score returns the sum of recorded answer scores and the catalog maximum.
// The maximum does not depend on how far the session has progressed.
func Score(s *assessment.Session) (total, maxScore int) {
	for _, a := range s.Answers() {
		total += a.Score
	}
	return total, s.Catalog().MaxScore()
}

// Percentage returns total as a percentage of maxScore, clamped to [0, 100].
// A zero maxScore yields 0.
func Percentage(total, maxScore int) float64 {
	if maxScore <= 0 {
		return 0
	}
	p := float64(total) * 100 / float64(maxScore)
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Result is the full evaluation of a session.
type Result struct {
	Total           int             `json:"total"`
	Max             int             `json:"max"`
	Percentage      float64         `json:"percentage"`
	Tier            Tier            `json:"tier"`
	Recommendations []string        `json:"recommendations"`
	Categories      []CategoryScore `json:"categories"`
}

// Compute evaluates s with the default rules.
func Compute(s *assessment.Session) Result {
	return ComputeWith(s, defaultRules)
}

// ComputeWith evaluates s with a caller-supplied rule set.
func ComputeWith(s *assessment.Session, rules []Rule) Result {
	total, maxScore := Score(s)
	pct := Percentage(total, maxScore)
	return Result{
		Total:           total,
		Max:             maxScore,
		Percentage:      pct,
		Tier:            Classify(pct),
		Recommendations: RecommendWith(s, rules),
		Categories:      Breakdown(s),
	}
}
