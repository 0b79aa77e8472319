package scoring

import "fmt"

// Tier is an ordered classification bucket, lowest first.
type Tier int

const (
	TierNeedsImprovement Tier = iota
	TierFair
	TierGood
	TierExcellent
)

// Lower bounds, inclusive. Each tier runs up to the next bound, exclusive.
const (
	ExcellentFloor = 80.0
	GoodFloor      = 60.0
	FairFloor      = 40.0
)

var tierLabels = [...]string{
	TierNeedsImprovement: "Needs Improvement",
	TierFair:             "Fair",
	TierGood:             "Good",
	TierExcellent:        "Excellent",
}

var tierDescriptions = [...]string{
	TierNeedsImprovement: "Several habits are putting your health at risk. Small, steady changes can make a real difference.",
	TierFair:             "You have some healthy habits in place, but there is clear room to improve.",
	TierGood:             "You are doing well overall. A few adjustments could take you further.",
	TierExcellent:        "Your lifestyle habits are strongly supporting your health. Keep it up.",
}

// Label returns the display name of the tier.
func (t Tier) Label() string {
	if t < TierNeedsImprovement || t > TierExcellent {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierLabels[t]
}

// Description returns a one-sentence summary of the tier.
func (t Tier) Description() string {
	if t < TierNeedsImprovement || t > TierExcellent {
		return ""
	}
	return tierDescriptions[t]
}

func (t Tier) String() string { return t.Label() }

// MarshalText encodes the tier as its label.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.Label()), nil
}

// UnmarshalText decodes a tier label written by MarshalText.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier returns the tier whose label is s.
func ParseTier(s string) (Tier, error) {
	for i, l := range tierLabels {
		if l == s {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

// Classify maps a percentage to its tier, checked from the top down.
func Classify(percentage float64) Tier {
	switch {
	case percentage >= ExcellentFloor:
		return TierExcellent
	case percentage >= GoodFloor:
		return TierGood
	case percentage >= FairFloor:
		return TierFair
	default:
		return TierNeedsImprovement
	}
}
