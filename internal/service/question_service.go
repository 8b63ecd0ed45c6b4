package service

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/stemsi/mockview-backend/internal/model"
	"github.com/stemsi/mockview-backend/internal/repository"
)

// ShuffleFunc permutes n elements through swap.
type ShuffleFunc func(n int, swap func(i, j int))

// QuestionService selects questions from the catalog and builds interviews.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	shuffle      ShuffleFunc
	defaultCount int
}

// NewQuestionService creates a new QuestionService. defaultCount is used when
// a caller does not ask for a specific number of questions.
func NewQuestionService(questionRepo *repository.QuestionRepository, defaultCount int) *QuestionService {
	if defaultCount <= 0 {
		defaultCount = 5
	}
	return &QuestionService{
		questionRepo: questionRepo,
		shuffle:      rand.Shuffle,
		defaultCount: defaultCount,
	}
}

// WithShuffle replaces the random permutation, mainly for tests.
func (s *QuestionService) WithShuffle(fn ShuffleFunc) *QuestionService {
	s.shuffle = fn
	return s
}

// Catalog returns the browsable summary of the question bank.
func (s *QuestionService) Catalog() model.CatalogSummary {
	return s.questionRepo.Summary()
}

// SelectQuestions picks count questions of the given category and difficulty.
//
// With enough exact matches the result is a random subset of them. Otherwise
// it falls back to the first count questions of the category in catalog
// order, ignoring difficulty, and may be shorter than count.
func (s *QuestionService) SelectQuestions(category model.Category, difficulty model.Difficulty, count int) []model.Question {
	if count < 0 {
		count = 0
	}

	exact := s.questionRepo.ListByCategoryAndDifficulty(category, difficulty)
	if len(exact) < count {
		fallback := s.questionRepo.ListByCategory(category)
		if len(fallback) > count {
			fallback = fallback[:count]
		}
		return fallback
	}

	s.shuffle(len(exact), func(i, j int) { exact[i], exact[j] = exact[j], exact[i] })
	return exact[:count]
}

// CreateInterview builds a not-started interview. Empty title and description
// get the defaults shown on the home page; count <= 0 uses the default count.
func (s *QuestionService) CreateInterview(title, description string, category model.Category, difficulty model.Difficulty, count int) *model.Interview {
	if count <= 0 {
		count = s.defaultCount
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultInterviewTitle(category)
	}
	if strings.TrimSpace(description) == "" {
		description = DefaultInterviewDescription(category, difficulty)
	}

	return &model.Interview{
		ID:                   uuid.New().String(),
		Title:                title,
		Description:          description,
		Category:             category,
		Difficulty:           difficulty,
		Questions:            s.SelectQuestions(category, difficulty, count),
		CurrentQuestionIndex: 0,
		Answers:              []model.Answer{},
	}
}

func DefaultInterviewTitle(category model.Category) string {
	return fmt.Sprintf("%s Interview", category.Title())
}

func DefaultInterviewDescription(category model.Category, difficulty model.Difficulty) string {
	return fmt.Sprintf("A %s level %s interview to practice your skills.", difficulty, category)
}
