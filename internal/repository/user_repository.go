package repository

import (
	"errors"
	"strings"
	"sync"

	"github.com/stemsi/mockview-backend/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository keeps users and their interview history for the lifetime
// of the process.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]string
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]string),
	}
}

// Create stores a new user. Emails are compared case-insensitively.
func (r *UserRepository) Create(u *model.User) error {
	email := normalizeEmail(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return ErrEmailTaken
	}
	stored := *u
	stored.Interviews = []model.Interview{}
	r.byID[u.ID] = &stored
	r.byEmail[email] = u.ID
	return nil
}

// GetByID returns a copy of the user.
func (r *UserRepository) GetByID(id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByEmail returns a copy of the user registered under email.
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return copyUser(r.byID[id]), nil
}

// AppendInterview adds a finalized interview to the user's history.
func (r *UserRepository) AppendInterview(userID string, iv model.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Interviews = append(u.Interviews, iv)
	return nil
}

// ListInterviews returns the user's history, oldest first.
func (r *UserRepository) ListInterviews(userID string) ([]model.Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := make([]model.Interview, len(u.Interviews))
	copy(out, u.Interviews)
	return out, nil
}

func copyUser(u *model.User) *model.User {
	cp := *u
	cp.Interviews = make([]model.Interview, len(u.Interviews))
	copy(cp.Interviews, u.Interviews)
	return &cp
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
