package scoring

import (
	"github.com/abhisek/vitals/internal/assessment"
	"github.com/abhisek/vitals/internal/catalog"
)

// Rule fires its advice when the answer for Role scores at or below Threshold.
type Rule struct {
	Role      catalog.Role
	Threshold int
	Advice    string
}

// Fallback messages used when no rule fires.
const (
	CongratulatoryAdvice = "Great work! Your answers show strong, balanced health habits. Keep doing what you are doing and reassess every few months."
	GenericAdvice        = "Your answers did not flag a single major risk, but your overall score leaves room to grow. Pick one habit to improve this month and build from there."
)

var defaultRules = []Rule{
	{
		Role:      catalog.RolePhysicalActivity,
		Threshold: 1,
		Advice:    "Aim for at least 150 minutes of moderate activity a week. Brisk walks, cycling or swimming all count.",
	},
	{
		Role:      catalog.RoleNutrition,
		Threshold: 1,
		Advice:    "Add more fruit and vegetables to your meals. Five servings a day is a good target.",
	},
	{
		Role:      catalog.RoleSleep,
		Threshold: 1,
		Advice:    "Most adults need 7-9 hours of sleep. Keep a regular bedtime and limit screens before bed.",
	},
	{
		Role:      catalog.RoleStress,
		Threshold: 1,
		Advice:    "Your stress level is high. Try daily relaxation, regular breaks and talking to someone you trust.",
	},
	{
		Role:      catalog.RoleTobaccoUse,
		Threshold: 1,
		Advice:    "Quitting tobacco is the single biggest step you can take for your health. Ask a doctor about cessation support.",
	},
	{
		Role:      catalog.RolePreventiveCare,
		Threshold: 1,
		Advice:    "Schedule a routine check-up. Regular screenings catch problems early.",
	},
}

// DefaultRules returns the built-in rule set, one rule per tracked role.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Recommend derives advisories from s using DefaultRules.
func Recommend(s *assessment.Session) []string {
	return RecommendWith(s, defaultRules)
}

// RecommendWith derives advisories from s. Tracked questions are visited in
// catalog order; an unanswered tracked question never fires. When nothing
// fires exactly one fallback message is returned.
func RecommendWith(s *assessment.Session, rules []Rule) []string {
	byRole := make(map[catalog.Role]Rule, len(rules))
	for _, r := range rules {
		if _, dup := byRole[r.Role]; !dup {
			byRole[r.Role] = r
		}
	}

	var out []string
	for _, q := range s.Catalog().Tracked() {
		rule, ok := byRole[q.Role]
		if !ok {
			continue
		}
		a, answered := s.AnswerFor(q.ID)
		if !answered {
			continue
		}
		if a.Score <= rule.Threshold {
			out = append(out, rule.Advice)
		}
	}
	if len(out) > 0 {
		return out
	}

	total, maxScore := Score(s)
	if Percentage(total, maxScore) >= ExcellentFloor {
		return []string{CongratulatoryAdvice}
	}
	return []string{GenericAdvice}
}
