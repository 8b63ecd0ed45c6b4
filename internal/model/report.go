package model

import "time"

// ScoreTier buckets a 0-100 score into the three feedback bands.
type ScoreTier string

const (
	ScoreTierExcellent        ScoreTier = "excellent"
	ScoreTierGood             ScoreTier = "good"
	ScoreTierNeedsImprovement ScoreTier = "needs_improvement"
)

// TierFor returns the band for score: >=80 excellent, >=60 good, otherwise needs improvement.
func TierFor(score int) ScoreTier {
	switch {
	case score >= 80:
		return ScoreTierExcellent
	case score >= 60:
		return ScoreTierGood
	default:
		return ScoreTierNeedsImprovement
	}
}

// InterviewReport is the read-only results view of a completed interview.
type InterviewReport struct {
	InterviewID     string           `json:"interview_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        Category         `json:"category"`
	Difficulty      Difficulty       `json:"difficulty"`
	OverallScore    int              `json:"overall_score"`
	OverallTier     ScoreTier        `json:"overall_tier"`
	OverallFeedback string           `json:"overall_feedback"`
	AnsweredCount   int              `json:"answered_count"`
	QuestionCount   int              `json:"question_count"`
	StartedAt       *time.Time       `json:"started_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	Questions       []QuestionResult `json:"questions"`
}

// QuestionResult is one row of the question-by-question breakdown.
type QuestionResult struct {
	Number   int       `json:"number"`
	Question Question  `json:"question"`
	Answer   *Answer   `json:"answer,omitempty"`
	Tier     ScoreTier `json:"tier,omitempty"`
}
