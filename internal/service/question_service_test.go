package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mockview-backend/internal/model"
	"github.com/stemsi/mockview-backend/internal/repository"
)

func newQuestionService(t *testing.T) *QuestionService {
	t.Helper()
	catalog, err := repository.DefaultCatalog()
	require.NoError(t, err)
	return NewQuestionService(repository.NewQuestionRepository(catalog), 5)
}

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestSelectQuestions_ExactMatches(t *testing.T) {
	svc := newQuestionService(t)
	exact := ids(svc.questionRepo.ListByCategoryAndDifficulty(model.CategoryTechnical, model.DifficultyIntermediate))
	require.Len(t, exact, 3)

	for count := 0; count <= len(exact); count++ {
		for range 20 {
			got := svc.SelectQuestions(model.CategoryTechnical, model.DifficultyIntermediate, count)
			require.Len(t, got, count)

			seen := map[string]bool{}
			for _, q := range got {
				assert.Equal(t, model.CategoryTechnical, q.Category)
				assert.Equal(t, model.DifficultyIntermediate, q.Difficulty)
				assert.False(t, seen[q.ID], "duplicate %s", q.ID)
				seen[q.ID] = true
				assert.Contains(t, exact, q.ID)
			}
		}
	}
}

func TestSelectQuestions_ExactMatchesAreShuffled(t *testing.T) {
	svc := newQuestionService(t).WithShuffle(func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	})

	got := svc.SelectQuestions(model.CategoryTechnical, model.DifficultyIntermediate, 3)
	assert.Equal(t, []string{"tech-recursion", "tech-supervised-learning", "tech-react-hooks"}, ids(got))
}

func TestSelectQuestions_Fallback(t *testing.T) {
	svc := newQuestionService(t).WithShuffle(func(int, func(i, j int)) {
		t.Fatal("fallback must not shuffle")
	})

	tests := []struct {
		name       string
		category   model.Category
		difficulty model.Difficulty
		count      int
		want       []string
	}{
		{
			name:       "too few exact matches",
			category:   model.CategoryTechnical,
			difficulty: model.DifficultyAdvanced,
			count:      2,
			want:       []string{"tech-react-hooks", "tech-supervised-learning"},
		},
		{
			name:       "category smaller than count",
			category:   model.CategoryBehavioral,
			difficulty: model.DifficultyExpert,
			count:      5,
			want:       []string{"behav-deadline-pressure", "behav-team-conflict", "behav-adapt-change"},
		},
		{
			name:       "difficulty with no questions",
			category:   model.CategoryLeadership,
			difficulty: model.DifficultyBeginner,
			count:      1,
			want:       []string{"lead-motivate-team"},
		},
		{
			name:       "unknown category",
			category:   model.Category("sales"),
			difficulty: model.DifficultyBeginner,
			count:      3,
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.SelectQuestions(tt.category, tt.difficulty, tt.count)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSelectQuestions_DoesNotMutateCatalog(t *testing.T) {
	svc := newQuestionService(t)
	before := ids(svc.questionRepo.ListByCategory(model.CategoryTechnical))

	for range 10 {
		svc.SelectQuestions(model.CategoryTechnical, model.DifficultyIntermediate, 3)
	}
	assert.Equal(t, before, ids(svc.questionRepo.ListByCategory(model.CategoryTechnical)))
}

func TestCreateInterview(t *testing.T) {
	svc := newQuestionService(t)

	t.Run("defaults", func(t *testing.T) {
		iv := svc.CreateInterview("", "  ", model.CategoryBehavioral, model.DifficultyIntermediate, 0)
		assert.NotEmpty(t, iv.ID)
		assert.Equal(t, "Behavioral Interview", iv.Title)
		assert.Equal(t, "A intermediate level behavioral interview to practice your skills.", iv.Description)
		assert.Len(t, iv.Questions, 3, "default count 5 falls back to the whole category")
		assert.Equal(t, model.InterviewStatusNotStarted, iv.Status())
		assert.Equal(t, 0, iv.CurrentQuestionIndex)
		assert.Empty(t, iv.Answers)
		assert.Nil(t, iv.StartedAt)
	})

	t.Run("explicit values", func(t *testing.T) {
		iv := svc.CreateInterview("Mock", "Before Friday", model.CategoryTechnical, model.DifficultyIntermediate, 2)
		assert.Equal(t, "Mock", iv.Title)
		assert.Equal(t, "Before Friday", iv.Description)
		assert.Len(t, iv.Questions, 2)
	})

	t.Run("fresh ids", func(t *testing.T) {
		a := svc.CreateInterview("", "", model.CategoryTechnical, model.DifficultyBeginner, 1)
		b := svc.CreateInterview("", "", model.CategoryTechnical, model.DifficultyBeginner, 1)
		assert.NotEqual(t, a.ID, b.ID)
	})
}
