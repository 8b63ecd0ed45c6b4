package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hooksKeywords = []string{"useState", "useEffect", "functional components", "class components", "lifecycle"}

func TestScore_PartialMatchListsFirstThreeMissing(t *testing.T) {
	res := Score(Input{
		ExpectedKeywords: hooksKeywords,
		Answer:           "Hooks such as useState and useEffect let you keep state.",
	})

	assert.Equal(t, 40, res.Score)
	assert.Equal(t, []string{"useState", "useEffect"}, res.Matched)
	assert.True(t, strings.HasPrefix(res.Feedback, NeedsImprovementPrefix))
	assert.Equal(t, NeedsImprovementPrefix+"functional components, class components, lifecycle", res.Feedback)
}

func TestScore_AllKeywordsCaseInsensitive(t *testing.T) {
	res := Score(Input{
		ExpectedKeywords: hooksKeywords,
		Answer:           "USESTATE, UseEffect, Functional Components replace CLASS COMPONENTS and LIFECYCLE methods",
	})

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, ExcellentFeedback, res.Feedback)
	assert.Empty(t, res.Missing)
}

func TestScore_NoKeywords(t *testing.T) {
	for _, kws := range [][]string{nil, {}} {
		res := Score(Input{ExpectedKeywords: kws, Answer: "anything at all"})
		assert.Equal(t, 0, res.Score)
		assert.Equal(t, UnableToEvaluate, res.Feedback)
	}
}

func TestScore_GoodTierListsFirstTwoMissing(t *testing.T) {
	res := Score(Input{
		ExpectedKeywords: []string{"vision", "collaboration", "metrics", "adaptability", "alignment"},
		Answer:           "A shared vision, collaboration and clear metrics.",
	})

	assert.Equal(t, 60, res.Score)
	assert.Equal(t, GoodFeedbackPrefix+"adaptability, alignment", res.Feedback)
}

func TestScore_SubstringMatchesInsideWords(t *testing.T) {
	res := Score(Input{ExpectedKeywords: []string{"test"}, Answer: "Attestation is not testing"})
	assert.Equal(t, 100, res.Score)
}

func TestScore_FloorsFractions(t *testing.T) {
	res := Score(Input{ExpectedKeywords: []string{"a1", "b2", "c3"}, Answer: "a1 only"})
	assert.Equal(t, 33, res.Score)

	res = Score(Input{ExpectedKeywords: []string{"a1", "b2", "c3"}, Answer: "a1 and b2"})
	assert.Equal(t, 66, res.Score)
	assert.Equal(t, GoodFeedbackPrefix+"c3", res.Feedback)
}

func TestScore_BoundsAndMonotonicity(t *testing.T) {
	keywords := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf"}

	prev := -1
	for n := 0; n <= len(keywords); n++ {
		answer := strings.Join(keywords[:n], " ")
		res := Score(Input{ExpectedKeywords: keywords, Answer: answer})

		require.GreaterOrEqual(t, res.Score, 0)
		require.LessOrEqual(t, res.Score, MaxScore)
		require.GreaterOrEqual(t, res.Score, prev, "matching %d keywords scored lower than %d", n, n-1)
		require.Len(t, res.Matched, n)
		prev = res.Score
	}
}

func TestFeedback_Tiers(t *testing.T) {
	missing := []string{"one", "two", "three", "four"}

	tests := []struct {
		score int
		want  string
	}{
		{100, ExcellentFeedback},
		{80, ExcellentFeedback},
		{79, GoodFeedbackPrefix + "one, two"},
		{60, GoodFeedbackPrefix + "one, two"},
		{59, NeedsImprovementPrefix + "one, two, three"},
		{0, NeedsImprovementPrefix + "one, two, three"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Feedback(tt.score, missing), "score %d", tt.score)
	}
}
