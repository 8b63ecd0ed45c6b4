package model

// EvaluationSource identifies which evaluator produced a score.
type EvaluationSource string

const (
	// EvaluationSourceExternal is a successful call to the external evaluator.
	EvaluationSourceExternal EvaluationSource = "external"
	// EvaluationSourceLocal is the keyword scorer used as the primary evaluator.
	EvaluationSourceLocal EvaluationSource = "local"
	// EvaluationSourceLocalFallback is the keyword scorer used after the external evaluator failed.
	EvaluationSourceLocalFallback EvaluationSource = "local_fallback"
)

// Evaluation is the output contract shared by every evaluator.
type Evaluation struct {
	Score    int              `json:"score"`
	Feedback string           `json:"feedback"`
	Source   EvaluationSource `json:"source"`
}

// Answer is a candidate's response to one question of an interview.
// Score and Feedback are nil until the answer has been evaluated.
type Answer struct {
	QuestionID string           `json:"question_id"`
	Text       string           `json:"text"`
	Score      *int             `json:"score,omitempty"`
	Feedback   *string          `json:"feedback,omitempty"`
	Source     EvaluationSource `json:"source,omitempty"`
}

// Scored reports whether the answer carries an evaluation.
func (a Answer) Scored() bool {
	return a.Score != nil
}

// WithEvaluation returns a copy of a carrying e. a itself is left untouched.
func (a Answer) WithEvaluation(e Evaluation) Answer {
	score := e.Score
	feedback := e.Feedback
	a.Score = &score
	a.Feedback = &feedback
	a.Source = e.Source
	return a
}

// SubmitAnswerRequest is the payload for answering a question of the active interview.
type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required,max=64"`
	Text       string `json:"text" binding:"required,min=1,max=10000"`
}
