package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mockview-backend/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	questions, err := DefaultCatalog()
	require.NoError(t, err)
	require.Len(t, questions, 10)

	first := questions[0]
	assert.Equal(t, "tech-react-hooks", first.ID)
	assert.Equal(t, model.CategoryTechnical, first.Category)
	assert.Equal(t, model.DifficultyIntermediate, first.Difficulty)
	assert.Equal(t, []string{"useState", "useEffect", "functional components", "class components", "lifecycle"}, first.ExpectedKeywords)
	assert.NotEmpty(t, first.SampleAnswer)

	repo := NewQuestionRepository(questions)
	assert.Len(t, repo.ListByCategory(model.CategoryTechnical), 4)
	assert.Len(t, repo.ListByCategory(model.CategoryBehavioral), 3)
	assert.Len(t, repo.ListByCategory(model.CategoryLeadership), 3)
	assert.Len(t, repo.ListByCategoryAndDifficulty(model.CategoryTechnical, model.DifficultyIntermediate), 3)
	assert.Empty(t, repo.ListByCategoryAndDifficulty(model.CategoryLeadership, model.DifficultyExpert))
}

func TestLoadCatalog_Validation(t *testing.T) {
	t.Run("UnknownCategory", func(t *testing.T) {
		_, err := LoadCatalog([]byte(`
questions:
  - id: q1
    text: What?
    category: trivia
    difficulty: beginner
`))
		require.Error(t, err)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		_, err := LoadCatalog([]byte(`
questions:
  - {id: q1, text: One, category: technical, difficulty: beginner}
  - {id: q1, text: Two, category: technical, difficulty: expert}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate id")
	})

	t.Run("EmptyKeyword", func(t *testing.T) {
		_, err := LoadCatalog([]byte(`
questions:
  - {id: q1, text: One, category: technical, difficulty: beginner, expected_keywords: ["ok", ""]}
`))
		require.Error(t, err)
	})

	t.Run("GeneratesMissingID", func(t *testing.T) {
		qs, err := LoadCatalog([]byte(`
questions:
  - {text: One, category: leadership, difficulty: expert}
`))
		require.NoError(t, err)
		require.Len(t, qs, 1)
		assert.NotEmpty(t, qs[0].ID)
		assert.Nil(t, qs[0].ExpectedKeywords)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		_, err := LoadCatalog([]byte("questions: [::"))
		require.Error(t, err)
	})
}

func TestQuestionRepository_Summary(t *testing.T) {
	repo := NewQuestionRepository([]model.Question{
		{ID: "a", Category: model.CategoryTechnical, Difficulty: model.DifficultyBeginner},
		{ID: "b", Category: model.CategoryTechnical, Difficulty: model.DifficultyBeginner},
		{ID: "c", Category: model.CategoryBehavioral, Difficulty: model.DifficultyExpert},
	})

	summary := repo.Summary()
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Counts[model.CategoryTechnical][model.DifficultyBeginner])
	assert.Equal(t, 1, summary.Counts[model.CategoryBehavioral][model.DifficultyExpert])
	assert.Equal(t, 0, summary.Counts[model.CategoryLeadership][model.DifficultyAdvanced])
}
