package catalog

import "slices"

// Role tags a question that feeds a recommendation rule.
type Role string

const (
	RoleNone             Role = ""
	RolePhysicalActivity Role = "physical-activity"
	RoleNutrition        Role = "nutrition"
	RoleSleep            Role = "sleep"
	RoleStress           Role = "stress"
	RoleTobaccoUse       Role = "tobacco-use"
	RolePreventiveCare   Role = "preventive-care"
)

// AllRoles returns every known role in display order.
func AllRoles() []Role {
	return []Role{
		RolePhysicalActivity,
		RoleNutrition,
		RoleSleep,
		RoleStress,
		RoleTobaccoUse,
		RolePreventiveCare,
	}
}

// Valid reports whether r is RoleNone or one of AllRoles.
func (r Role) Valid() bool {
	if r == RoleNone {
		return true
	}
	for _, known := range AllRoles() {
		if r == known {
			return true
		}
	}
	return false
}

// Option is one scored answer choice.
type Option struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Label string `yaml:"label" json:"label" validate:"required"`
	Score int    `yaml:"score" json:"score" validate:"gte=0"`
}

// Question is a single catalog entry.
type Question struct {
	ID       string   `yaml:"id" json:"id" validate:"required"`
	Prompt   string   `yaml:"prompt" json:"prompt" validate:"required"`
	Category string   `yaml:"category" json:"category" validate:"required"`
	Role     Role     `yaml:"role,omitempty" json:"role,omitempty"`
	Options  []Option `yaml:"options" json:"options" validate:"required,min=1,dive"`
}

func (q Question) clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}

// Option returns the option with the given value token.
func (q Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// MaxScore returns the highest option score of q.
func (q Question) MaxScore() int {
	best := 0
	for _, o := range q.Options {
		if o.Score > best {
			best = o.Score
		}
	}
	return best
}

// Tracked reports whether q feeds a recommendation rule.
func (q Question) Tracked() bool {
	return q.Role != RoleNone
}
