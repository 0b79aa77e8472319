package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/vitals/internal/assessment"
	"github.com/abhisek/vitals/internal/scoring"
)

const systemPrompt = `You are a supportive wellness coach reviewing a short lifestyle self-assessment. You give practical, encouraging guidance about everyday habits. You never diagnose conditions, name diseases, or suggest medication.`

// Input is everything the coach sees about one assessment.
type Input struct {
	Total           int
	Max             int
	Percentage      float64
	Tier            string
	Categories      []scoring.CategoryScore
	Recommendations []string
	Answers         []AnsweredQuestion
}

// AnsweredQuestion pairs a prompt with the label of the chosen option.
type AnsweredQuestion struct {
	Prompt string
	Answer string
}

// InputFrom collects the coach input for an evaluated session.
func InputFrom(s *assessment.Session, res scoring.Result) Input {
	in := Input{
		Total:           res.Total,
		Max:             res.Max,
		Percentage:      res.Percentage,
		Tier:            res.Tier.Label(),
		Categories:      res.Categories,
		Recommendations: res.Recommendations,
	}
	for _, a := range s.Answers() {
		q, _, ok := s.Catalog().ByID(a.QuestionID)
		if !ok {
			continue
		}
		opt, _ := q.Option(a.Value)
		in.Answers = append(in.Answers, AnsweredQuestion{Prompt: q.Prompt, Answer: opt.Label})
	}
	return in
}

func buildUserMessage(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Overall score: %d/%d (%.0f%%), tier: %s\n", in.Total, in.Max, in.Percentage, in.Tier)

	b.WriteString("\nCategory breakdown:\n")
	for _, c := range in.Categories {
		fmt.Fprintf(&b, "- %s: %d/%d\n", c.Label, c.Score, c.Max)
	}

	b.WriteString("\nAnswers:\n")
	if len(in.Answers) == 0 {
		b.WriteString("None\n")
	}
	for _, a := range in.Answers {
		fmt.Fprintf(&b, "- %s %s\n", a.Prompt, a.Answer)
	}

	b.WriteString("\nRecommendations already shown to the user:\n")
	for _, r := range in.Recommendations {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	b.WriteString(`
Instructions:
1. Write a headline of 4-10 words that sums up the result.
2. Summarize the result in 2-3 sentences, mentioning the strongest and weakest categories.
3. Pick 1-3 focus areas, weakest first. For each give one small, concrete action the person can start this week. Build on the recommendations above instead of repeating them word for word.
4. Close with one warm sentence of encouragement.
Keep the tone positive and plain. Do not mention scores for individual questions.`)

	return b.String()
}
