package service

import (
	"context"
	"sync"

	"github.com/stemsi/mockview-backend/internal/model"
)

// InterviewService hands out one InterviewController per user handle.
type InterviewService struct {
	questions *QuestionService
	deps      ControllerDeps

	mu          sync.Mutex
	controllers map[string]*InterviewController
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(questions *QuestionService, deps ControllerDeps) *InterviewService {
	return &InterviewService{
		questions:   questions,
		deps:        deps.withDefaults(),
		controllers: make(map[string]*InterviewController),
	}
}

// Controller returns the user's controller, creating it on first use.
func (s *InterviewService) Controller(userID string) *InterviewController {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.controllers[userID]
	if !ok {
		c = NewInterviewController(userID, s.deps)
		s.controllers[userID] = c
	}
	return c
}

// CreateAndStart builds an interview from req and starts it for the user.
func (s *InterviewService) CreateAndStart(ctx context.Context, userID string, req model.CreateInterviewRequest) *model.Interview {
	iv := s.questions.CreateInterview(req.Title, req.Description, req.Category, req.Difficulty, req.Count)
	return s.Controller(userID).Start(ctx, iv)
}
