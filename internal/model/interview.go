package model

import "time"

// InterviewStatus is derived from the lifecycle fields of an Interview.
type InterviewStatus string

const (
	InterviewStatusNotStarted InterviewStatus = "NOT_STARTED"
	InterviewStatusActive     InterviewStatus = "ACTIVE"
	InterviewStatusCompleted  InterviewStatus = "COMPLETED"
)

// Interview is one attempt at a practice interview: a fixed question list,
// a position pointer and the answers collected so far.
type Interview struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Category             Category   `json:"category"`
	Difficulty           Difficulty `json:"difficulty"`
	Questions            []Question `json:"questions"`
	CurrentQuestionIndex int        `json:"current_question_index"`
	Answers              []Answer   `json:"answers"`
	InProgress           bool       `json:"in_progress"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// Status reports the lifecycle state.
func (iv *Interview) Status() InterviewStatus {
	switch {
	case iv.InProgress:
		return InterviewStatusActive
	case iv.CompletedAt != nil:
		return InterviewStatusCompleted
	default:
		return InterviewStatusNotStarted
	}
}

// Question returns the question with the given ID.
func (iv *Interview) Question(id string) (Question, bool) {
	for _, q := range iv.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// CurrentQuestion returns the question at CurrentQuestionIndex.
func (iv *Interview) CurrentQuestion() (Question, bool) {
	if iv.CurrentQuestionIndex < 0 || iv.CurrentQuestionIndex >= len(iv.Questions) {
		return Question{}, false
	}
	return iv.Questions[iv.CurrentQuestionIndex], true
}

// AnswerFor returns the stored answer for a question.
func (iv *Interview) AnswerFor(questionID string) (Answer, bool) {
	for _, a := range iv.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}

// AllAnswered reports whether every question has an answer.
func (iv *Interview) AllAnswered() bool {
	for _, q := range iv.Questions {
		if _, ok := iv.AnswerFor(q.ID); !ok {
			return false
		}
	}
	return true
}

// Progress summarises how far the candidate has got.
func (iv *Interview) Progress() Progress {
	p := Progress{
		Current:  iv.CurrentQuestionIndex,
		Total:    len(iv.Questions),
		Answered: []int{},
		IsLast:   len(iv.Questions) > 0 && iv.CurrentQuestionIndex == len(iv.Questions)-1,
	}
	for i, q := range iv.Questions {
		if _, ok := iv.AnswerFor(q.ID); ok {
			p.Answered = append(p.Answered, i)
		}
	}
	p.AnsweredCount = len(p.Answered)
	p.AllAnswered = p.Total > 0 && p.AnsweredCount == p.Total
	if p.Total > 0 {
		p.Percentage = (p.AnsweredCount*100 + p.Total/2) / p.Total
	}
	return p
}

// Clone returns a copy that shares the immutable questions but owns its answers.
func (iv *Interview) Clone() *Interview {
	if iv == nil {
		return nil
	}
	cp := *iv
	cp.Answers = make([]Answer, len(iv.Answers))
	copy(cp.Answers, iv.Answers)
	if iv.StartedAt != nil {
		t := *iv.StartedAt
		cp.StartedAt = &t
	}
	if iv.CompletedAt != nil {
		t := *iv.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

// View builds the candidate-facing representation. Scoring keys are hidden
// until the interview is completed.
func (iv *Interview) View() InterviewView {
	v := InterviewView{
		ID:                   iv.ID,
		Title:                iv.Title,
		Description:          iv.Description,
		Category:             iv.Category,
		Difficulty:           iv.Difficulty,
		Status:               iv.Status(),
		CurrentQuestionIndex: iv.CurrentQuestionIndex,
		Answers:              iv.Answers,
		Progress:             iv.Progress(),
		StartedAt:            iv.StartedAt,
		CompletedAt:          iv.CompletedAt,
	}
	if v.Answers == nil {
		v.Answers = []Answer{}
	}
	v.Questions = make([]QuestionForCandidate, len(iv.Questions))
	for i, q := range iv.Questions {
		v.Questions[i] = q.ForCandidate()
	}
	if q, ok := iv.CurrentQuestion(); ok {
		cq := q.ForCandidate()
		v.CurrentQuestion = &cq
	}
	return v
}

// Progress is the answered/total breakdown of an interview.
type Progress struct {
	Current       int   `json:"current"`
	Total         int   `json:"total"`
	Answered      []int `json:"answered"`
	AnsweredCount int   `json:"answered_count"`
	Percentage    int   `json:"percentage"`
	AllAnswered   bool  `json:"all_answered"`
	IsLast        bool  `json:"is_last"`
}

// InterviewView is the API representation of a running or finished interview.
type InterviewView struct {
	ID                   string                 `json:"id"`
	Title                string                 `json:"title"`
	Description          string                 `json:"description"`
	Category             Category               `json:"category"`
	Difficulty           Difficulty             `json:"difficulty"`
	Status               InterviewStatus        `json:"status"`
	Questions            []QuestionForCandidate `json:"questions"`
	CurrentQuestionIndex int                    `json:"current_question_index"`
	CurrentQuestion      *QuestionForCandidate  `json:"current_question,omitempty"`
	Answers              []Answer               `json:"answers"`
	Progress             Progress               `json:"progress"`
	StartedAt            *time.Time             `json:"started_at,omitempty"`
	CompletedAt          *time.Time             `json:"completed_at,omitempty"`
}

// CreateInterviewRequest is the payload for creating and starting an interview.
type CreateInterviewRequest struct {
	Title       string     `json:"title" binding:"omitempty,max=255"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
	Category    Category   `json:"category" binding:"required,category"`
	Difficulty  Difficulty `json:"difficulty" binding:"required,difficulty"`
	Count       int        `json:"count" binding:"omitempty,min=1,max=50"`
}
