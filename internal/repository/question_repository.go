package repository

import (
	_ "embed"
	"fmt"
	"strings"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/stemsi/mockview-backend/internal/model"
)

//go:embed questions.yaml
var defaultCatalog []byte

type catalogFile struct {
	Questions []catalogRecord `yaml:"questions" validate:"required,min=1,dive"`
}

type catalogRecord struct {
	ID               string   `yaml:"id" validate:"omitempty,max=64"`
	Text             string   `yaml:"text" validate:"required"`
	Category         string   `yaml:"category" validate:"required,oneof=technical behavioral leadership"`
	Difficulty       string   `yaml:"difficulty" validate:"required,oneof=beginner intermediate advanced expert"`
	ExpectedKeywords []string `yaml:"expected_keywords" validate:"dive,required"`
	SampleAnswer     string   `yaml:"sample_answer"`
}

// LoadCatalog parses and validates a YAML question catalog. Entries without
// an id get a generated one; duplicate ids are rejected.
func LoadCatalog(data []byte) ([]model.Question, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := govalidator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Questions))
	questions := make([]model.Question, 0, len(file.Questions))
	for i, rec := range file.Questions {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}

		questions = append(questions, model.Question{
			ID:               id,
			Text:             strings.TrimSpace(rec.Text),
			Category:         model.Category(rec.Category),
			Difficulty:       model.Difficulty(rec.Difficulty),
			ExpectedKeywords: rec.ExpectedKeywords,
			SampleAnswer:     strings.TrimSpace(rec.SampleAnswer),
		})
	}
	return questions, nil
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() ([]model.Question, error) {
	return LoadCatalog(defaultCatalog)
}

// QuestionRepository serves the read-only question bank.
type QuestionRepository struct {
	questions []model.Question
}

// NewQuestionRepository creates a QuestionRepository over questions, kept in the given order.
func NewQuestionRepository(questions []model.Question) *QuestionRepository {
	cp := make([]model.Question, len(questions))
	copy(cp, questions)
	return &QuestionRepository{questions: cp}
}

// ListByCategory returns the questions of one category in catalog order.
func (r *QuestionRepository) ListByCategory(category model.Category) []model.Question {
	return r.filter(func(q model.Question) bool { return q.Category == category })
}

// ListByCategoryAndDifficulty returns exact matches in catalog order.
func (r *QuestionRepository) ListByCategoryAndDifficulty(category model.Category, difficulty model.Difficulty) []model.Question {
	return r.filter(func(q model.Question) bool {
		return q.Category == category && q.Difficulty == difficulty
	})
}

// Summary counts questions per category and difficulty.
func (r *QuestionRepository) Summary() model.CatalogSummary {
	counts := make(map[model.Category]map[model.Difficulty]int, len(model.Categories))
	for _, c := range model.Categories {
		counts[c] = make(map[model.Difficulty]int, len(model.Difficulties))
		for _, d := range model.Difficulties {
			counts[c][d] = 0
		}
	}
	for _, q := range r.questions {
		if counts[q.Category] == nil {
			counts[q.Category] = make(map[model.Difficulty]int)
		}
		counts[q.Category][q.Difficulty]++
	}
	return model.CatalogSummary{
		Categories:   model.Categories,
		Difficulties: model.Difficulties,
		Counts:       counts,
		Total:        len(r.questions),
	}
}

func (r *QuestionRepository) filter(keep func(model.Question) bool) []model.Question {
	out := []model.Question{}
	for _, q := range r.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}
