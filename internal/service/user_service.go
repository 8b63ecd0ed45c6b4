package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/mockview-backend/internal/model"
	"github.com/stemsi/mockview-backend/internal/repository"
)

// Re-exported so handlers only depend on the service package.
var (
	ErrEmailTaken   = repository.ErrEmailTaken
	ErrUserNotFound = repository.ErrUserNotFound
)

// UserService handles signup, token issuance and interview history.
type UserService struct {
	userRepo *repository.UserRepository
	auth     *AuthService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, auth *AuthService) *UserService {
	return &UserService{userRepo: userRepo, auth: auth}
}

// Signup registers a user and returns it with a fresh handle token.
// Password confirmation is checked by request binding.
func (s *UserService) Signup(req model.SignupRequest) (*model.User, string, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Interviews:   []model.Interview{},
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", err
	}

	token, err := s.auth.GenerateToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// IssueToken re-issues a handle token for email and password.
func (s *UserService) IssueToken(req model.TokenRequest) (*model.User, string, error) {
	u, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	if err := s.auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return nil, "", err
	}

	token, err := s.auth.GenerateToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetByID returns a user.
func (s *UserService) GetByID(id string) (*model.User, error) {
	return s.userRepo.GetByID(id)
}

// AppendInterview records a finished interview in the user's history.
func (s *UserService) AppendInterview(userID string, iv model.Interview) error {
	return s.userRepo.AppendInterview(userID, iv)
}

// ListInterviewSummaries returns one row per completed interview, oldest first.
func (s *UserService) ListInterviewSummaries(userID string) ([]model.InterviewSummary, error) {
	history, err := s.userRepo.ListInterviews(userID)
	if err != nil {
		return nil, err
	}

	out := make([]model.InterviewSummary, 0, len(history))
	for i := range history {
		iv := &history[i]
		out = append(out, model.InterviewSummary{
			ID:            iv.ID,
			Title:         iv.Title,
			Category:      iv.Category,
			Difficulty:    iv.Difficulty,
			QuestionCount: len(iv.Questions),
			AnsweredCount: len(iv.Answers),
			OverallScore:  OverallScore(iv.Answers),
			StartedAt:     iv.StartedAt,
			CompletedAt:   iv.CompletedAt,
		})
	}
	return out, nil
}
