package service

import (
	"math"

	"github.com/stemsi/mockview-backend/internal/model"
)

const (
	OverallFeedbackExcellent = "Excellent job! You showed strong interviewing skills and provided comprehensive, well-structured answers. You'd likely make a positive impression on most interviewers."
	OverallFeedbackGood      = "Good effort! You covered many important points, but there's room for improvement in the depth and structure of some of your answers. With a bit more practice, you'll be well-prepared for your interviews."
	OverallFeedbackImprove   = "You've made a start, but your answers need more development. Focus on providing specific examples, structuring your responses, and addressing the key points interviewers look for. Keep practicing!"
)

// OverallScore averages the answer scores, rounded half away from zero.
// Unscored answers count as zero; no answers gives zero.
func OverallScore(answers []model.Answer) int {
	if len(answers) == 0 {
		return 0
	}
	sum := 0
	for _, a := range answers {
		if a.Score != nil {
			sum += *a.Score
		}
	}
	return int(math.Round(float64(sum) / float64(len(answers))))
}

// OverallFeedback returns the closing remark for an overall score.
func OverallFeedback(score int) string {
	switch model.TierFor(score) {
	case model.ScoreTierExcellent:
		return OverallFeedbackExcellent
	case model.ScoreTierGood:
		return OverallFeedbackGood
	default:
		return OverallFeedbackImprove
	}
}

// BuildReport renders the results view of an interview. The caller decides
// whether the interview is in a reportable state.
func BuildReport(iv *model.Interview) *model.InterviewReport {
	overall := OverallScore(iv.Answers)

	r := &model.InterviewReport{
		InterviewID:     iv.ID,
		Title:           iv.Title,
		Description:     iv.Description,
		Category:        iv.Category,
		Difficulty:      iv.Difficulty,
		OverallScore:    overall,
		OverallTier:     model.TierFor(overall),
		OverallFeedback: OverallFeedback(overall),
		AnsweredCount:   len(iv.Answers),
		QuestionCount:   len(iv.Questions),
		StartedAt:       iv.StartedAt,
		CompletedAt:     iv.CompletedAt,
		Questions:       make([]model.QuestionResult, 0, len(iv.Questions)),
	}

	for i, q := range iv.Questions {
		row := model.QuestionResult{Number: i + 1, Question: q}
		if a, ok := iv.AnswerFor(q.ID); ok {
			row.Answer = &a
			if a.Score != nil {
				row.Tier = model.TierFor(*a.Score)
			}
		}
		r.Questions = append(r.Questions, row)
	}
	return r
}
