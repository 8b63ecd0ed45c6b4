package model

import "time"

// User owns a history of completed interviews. History lives only for the
// lifetime of the process.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Interviews   []Interview `json:"interviews"`
	CreatedAt    time.Time   `json:"created_at"`
}

// SignupRequest is the payload for registering a user.
type SignupRequest struct {
	Name            string `json:"name" binding:"required,min=1,max=255"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// TokenRequest is the payload for re-issuing a handle token.
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// InterviewSummary is a history row.
type InterviewSummary struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Category      Category   `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"question_count"`
	AnsweredCount int        `json:"answered_count"`
	OverallScore  int        `json:"overall_score"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
