// Package scoring implements the local keyword-overlap evaluator.
//
// A keyword counts as covered when it occurs anywhere in the answer, ignoring
// case. Matching is plain substring containment, so "test" is covered by
// "testing" as well.
package scoring

import (
	"strings"
)

const (
	// MaxScore is the upper bound of every score.
	MaxScore = 100

	// UnableToEvaluate is the feedback for questions without expected keywords.
	UnableToEvaluate = "Unable to evaluate."

	ExcellentFeedback      = "Excellent answer! You covered most of the key points we were looking for."
	GoodFeedbackPrefix     = "Good answer, but you could have included more details about: "
	NeedsImprovementPrefix = "Your answer needs improvement. Consider addressing these points: "

	goodMissingLimit             = 2
	needsImprovementMissingLimit = 3
)

// Input is what the scorer needs from a question and an answer.
type Input struct {
	ExpectedKeywords []string
	Answer           string
}

// Result is the outcome of scoring one answer.
type Result struct {
	Score    int
	Feedback string
	Matched  []string
	Missing  []string
}

// Evaluable reports whether a question with these keywords can be scored.
func Evaluable(keywords []string) bool {
	return len(keywords) > 0
}

// Score computes floor(matched/total*100) and the tiered feedback.
func Score(in Input) Result {
	if !Evaluable(in.ExpectedKeywords) {
		return Result{Score: 0, Feedback: UnableToEvaluate}
	}

	answer := strings.ToLower(in.Answer)

	var matched, missing []string
	for _, kw := range in.ExpectedKeywords {
		if strings.Contains(answer, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	score := len(matched) * MaxScore / len(in.ExpectedKeywords)
	if score > MaxScore {
		score = MaxScore
	}

	return Result{
		Score:    score,
		Feedback: Feedback(score, missing),
		Matched:  matched,
		Missing:  missing,
	}
}

// Feedback picks the message for score, listing the first missing keywords
// in the order they were given.
func Feedback(score int, missing []string) string {
	switch {
	case score >= 80:
		return ExcellentFeedback
	case score >= 60:
		return GoodFeedbackPrefix + strings.Join(firstN(missing, goodMissingLimit), ", ")
	default:
		return NeedsImprovementPrefix + strings.Join(firstN(missing, needsImprovementMissingLimit), ", ")
	}
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
