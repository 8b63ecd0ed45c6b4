package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mockview-backend/internal/config"
	"github.com/stemsi/mockview-backend/internal/evaluator"
	"github.com/stemsi/mockview-backend/internal/model"
	"github.com/stemsi/mockview-backend/internal/response"
)

type interviewData struct {
	Interview *model.InterviewView   `json:"interview"`
	Answer    *model.Answer          `json:"answer"`
	Report    *model.InterviewReport `json:"report"`
}

func TestInterviewFlow(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	token := h.signup(t, "flow@example.com")

	var out interviewData

	// Nothing active yet: silent no-ops.
	code, env := h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{"question_id": "tech-recursion", "text": "base case"})
	require.Equal(t, http.StatusOK, code)
	decode(t, env.Data, &out)
	assert.Nil(t, out.Answer)
	assert.Nil(t, out.Interview)

	code, env = h.do(t, http.MethodGet, "/api/v1/interview/report", token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, response.ErrInterviewNotCompleted, env.Error.Code)

	// Create and start.
	code, env = h.do(t, http.MethodPost, "/api/v1/interview", token, gin.H{"category": "technical", "difficulty": "intermediate", "count": 2})
	require.Equal(t, http.StatusCreated, code)
	assert.NotContains(t, string(env.Data), "expected_keywords", "scoring keys stay hidden")
	out = interviewData{}
	decode(t, env.Data, &out)
	iv := out.Interview
	require.NotNil(t, iv)
	assert.Equal(t, model.InterviewStatusActive, iv.Status)
	assert.Equal(t, "Technical Interview", iv.Title)
	require.Len(t, iv.Questions, 2)
	require.NotNil(t, iv.CurrentQuestion)
	assert.Equal(t, iv.Questions[0].ID, iv.CurrentQuestion.ID)
	first, second := iv.Questions[0].ID, iv.Questions[1].ID

	t.Run("validation", func(t *testing.T) {
		code, env := h.do(t, http.MethodPost, "/api/v1/interview", token, gin.H{"category": "sales", "difficulty": "intermediate"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, env.Error.Fields, "category")

		code, env = h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{"question_id": first})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, env.Error.Fields, "text")

		code, env = h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{"question_id": "lead-delegation", "text": "delegate"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, response.ErrUnknownQuestion, env.Error.Code)
	})

	t.Run("navigation is bounded", func(t *testing.T) {
		out := interviewData{}
		_, env := h.do(t, http.MethodPost, "/api/v1/interview/previous", token, nil)
		decode(t, env.Data, &out)
		assert.Equal(t, 0, out.Interview.CurrentQuestionIndex)

		for range 3 {
			_, env = h.do(t, http.MethodPost, "/api/v1/interview/next", token, nil)
		}
		out = interviewData{}
		decode(t, env.Data, &out)
		assert.Equal(t, 1, out.Interview.CurrentQuestionIndex)
		assert.True(t, out.Interview.Progress.IsLast)
	})

	code, env = h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{"question_id": first, "text": "A short answer."})
	require.Equal(t, http.StatusOK, code)
	out = interviewData{}
	decode(t, env.Data, &out)
	require.NotNil(t, out.Answer)
	require.NotNil(t, out.Answer.Score)
	assert.Equal(t, model.EvaluationSourceLocal, out.Answer.Source)
	assert.Equal(t, []int{0}, out.Interview.Progress.Answered)
	assert.Equal(t, 50, out.Interview.Progress.Percentage)

	code, env = h.do(t, http.MethodPost, "/api/v1/interview/complete", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, response.ErrIncompleteInterview, env.Error.Code)

	code, _ = h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{"question_id": second, "text": "Another short answer."})
	require.Equal(t, http.StatusOK, code)

	code, env = h.do(t, http.MethodPost, "/api/v1/interview/complete", token, nil)
	require.Equal(t, http.StatusOK, code)
	out = interviewData{}
	decode(t, env.Data, &out)
	assert.Equal(t, model.InterviewStatusCompleted, out.Interview.Status)
	require.NotNil(t, out.Report)
	assert.Len(t, out.Report.Questions, 2)
	assert.NotEmpty(t, out.Report.OverallFeedback)

	code, env = h.do(t, http.MethodGet, "/api/v1/interview/report", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "expected_keywords", "the report reveals the scoring keys")

	t.Run("history", func(t *testing.T) {
		code, env := h.do(t, http.MethodGet, "/api/v1/me/interviews", token, nil)
		require.Equal(t, http.StatusOK, code)
		var hist struct {
			Interviews []model.InterviewSummary `json:"interviews"`
		}
		decode(t, env.Data, &hist)
		require.Len(t, hist.Interviews, 1)
		assert.Equal(t, iv.ID, hist.Interviews[0].ID)
		assert.Equal(t, 2, hist.Interviews[0].AnsweredCount)
	})

	t.Run("completed interview is read only", func(t *testing.T) {
		out := interviewData{}
		_, env := h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{"question_id": first, "text": "late"})
		decode(t, env.Data, &out)
		assert.Nil(t, out.Answer)
	})

	code, env = h.do(t, http.MethodDelete, "/api/v1/interview", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = h.do(t, http.MethodGet, "/api/v1/interview", token, nil)
	require.Equal(t, http.StatusOK, code)
	out = interviewData{}
	decode(t, env.Data, &out)
	assert.Nil(t, out.Interview)

	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.InterviewsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.InterviewsCompleted))
}

func TestSubmitAnswer_ExternalEvaluatorFallback(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	h := newHarness(t, harnessOptions{evaluatorURL: upstream.URL})
	token := h.signup(t, "fallback@example.com")

	code, _ := h.do(t, http.MethodPost, "/api/v1/interview", token, gin.H{"category": "leadership", "difficulty": "advanced", "count": 1})
	require.Equal(t, http.StatusCreated, code)

	code, env := h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{
		"question_id": "lead-strategic-planning",
		"text":        "I start from the vision and align stakeholders.",
	})
	require.Equal(t, http.StatusOK, code)

	var out interviewData
	decode(t, env.Data, &out)
	require.NotNil(t, out.Answer)
	assert.Equal(t, model.EvaluationSourceLocalFallback, out.Answer.Source)
	assert.Contains(t, *out.Answer.Feedback, evaluator.FallbackNotice)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.EvaluationsTotal.WithLabelValues("local_fallback")))
}

func TestSubmitAnswer_RateLimited(t *testing.T) {
	h := newHarness(t, harnessOptions{submitRate: 1})
	token := h.signup(t, "limited@example.com")

	code, _ := h.do(t, http.MethodPost, "/api/v1/interview", token, gin.H{"category": "behavioral", "difficulty": "beginner", "count": 1})
	require.Equal(t, http.StatusCreated, code)

	body := gin.H{"question_id": "behav-deadline-pressure", "text": "I prioritised."}
	code, _ = h.do(t, http.MethodPost, "/api/v1/interview/answers", token, body)
	assert.Equal(t, http.StatusOK, code)

	code, env := h.do(t, http.MethodPost, "/api/v1/interview/answers", token, body)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, response.ErrRateLimitExceeded, env.Error.Code)
}

func TestSubmitAnswer_EvaluationInProgress(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	token := h.signup(t, "busy@example.com")

	code, env := h.do(t, http.MethodPost, "/api/v1/interview", token, gin.H{"category": "behavioral", "difficulty": "beginner", "count": 1})
	require.Equal(t, http.StatusCreated, code)
	var out interviewData
	decode(t, env.Data, &out)

	code, env = h.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, env.Data, &me)

	// Another replica holds the evaluation lock for this question.
	lockKey := config.CacheKey.EvaluationLockKey(me.User.ID, out.Interview.ID, "behav-deadline-pressure")
	require.NoError(t, h.mr.Set(lockKey, "other-replica"))

	code, env = h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{"question_id": "behav-deadline-pressure", "text": "I prioritised."})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, response.ErrEvaluationInProgress, env.Error.Code)

	h.mr.Del(lockKey)
	code, _ = h.do(t, http.MethodPost, "/api/v1/interview/answers", token, gin.H{"question_id": "behav-deadline-pressure", "text": "I prioritised."})
	assert.Equal(t, http.StatusOK, code)
}
