package model

import "strings"

// Category is the topical bucket of a question.
type Category string

const (
	CategoryTechnical  Category = "technical"
	CategoryBehavioral Category = "behavioral"
	CategoryLeadership Category = "leadership"
)

// Categories lists every category in catalog order.
var Categories = []Category{CategoryTechnical, CategoryBehavioral, CategoryLeadership}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Title returns the category with its first letter upper-cased ("Technical").
func (c Category) Title() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Difficulty is an ordered proficiency tier.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

// Difficulties lists every tier from easiest to hardest.
var Difficulties = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
	DifficultyExpert,
}

// Rank returns the position of d in Difficulties, or -1 if d is unknown.
func (d Difficulty) Rank() int {
	for i, known := range Difficulties {
		if d == known {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	return d.Rank() >= 0
}

// Question is an immutable catalog entry.
type Question struct {
	ID               string     `json:"id"`
	Text             string     `json:"text"`
	Category         Category   `json:"category"`
	Difficulty       Difficulty `json:"difficulty"`
	ExpectedKeywords []string   `json:"expected_keywords,omitempty"`
	SampleAnswer     string     `json:"sample_answer,omitempty"`
}

// QuestionForCandidate is a question without its scoring key, sent while an interview is running.
type QuestionForCandidate struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// ForCandidate strips the expected keywords and sample answer.
func (q Question) ForCandidate() QuestionForCandidate {
	return QuestionForCandidate{
		ID:         q.ID,
		Text:       q.Text,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

// CatalogSummary describes what the question bank can serve.
type CatalogSummary struct {
	Categories   []Category                      `json:"categories"`
	Difficulties []Difficulty                    `json:"difficulties"`
	Counts       map[Category]map[Difficulty]int `json:"counts"`
	Total        int                             `json:"total"`
}
