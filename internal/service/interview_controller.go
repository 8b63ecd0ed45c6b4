package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/mockview-backend/internal/config"
	"github.com/stemsi/mockview-backend/internal/evaluator"
	"github.com/stemsi/mockview-backend/internal/metrics"
	"github.com/stemsi/mockview-backend/internal/model"
)

// Interview errors.
var (
	ErrUnknownQuestion      = errors.New("question is not part of the active interview")
	ErrEvaluationInProgress = errors.New("an answer to this question is still being evaluated")
	ErrIncompleteInterview  = errors.New("every question must be answered before completing")
)

// HistoryRecorder receives every completed interview.
type HistoryRecorder interface {
	AppendInterview(userID string, iv model.Interview) error
}

// ControllerDeps are the collaborators shared by every controller.
type ControllerDeps struct {
	Evaluator evaluator.Evaluator
	Guard     evaluator.Guard
	History   HistoryRecorder
	Events    EventPublisher
	Metrics   *metrics.Metrics
	Log       zerolog.Logger
	Now       func() time.Time
}

func (d ControllerDeps) withDefaults() ControllerDeps {
	if d.Guard == nil {
		d.Guard = evaluator.NewMemoryGuard()
	}
	if d.Events == nil {
		d.Events = NopPublisher{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewNop()
	}
	if d.Evaluator == nil {
		d.Evaluator = evaluator.WithFallback(nil, d.Metrics, d.Log)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// InterviewController owns the single current interview of one user and
// drives it through NotStarted -> Active -> Completed.
//
// Operations that need an active interview are silent no-ops without one:
// they return nil and no error.
type InterviewController struct {
	mu      sync.Mutex
	userID  string
	current *model.Interview
	deps    ControllerDeps
	log     zerolog.Logger

	// localGuard stands in for deps.Guard while the shared one errors.
	localGuard *evaluator.MemoryGuard
}

// NewInterviewController creates a controller with no current interview.
func NewInterviewController(userID string, deps ControllerDeps) *InterviewController {
	deps = deps.withDefaults()
	return &InterviewController{
		userID:     userID,
		deps:       deps,
		log:        deps.Log.With().Str("component", "interview_controller").Str("user_id", userID).Logger(),
		localGuard: evaluator.NewMemoryGuard(),
	}
}

// Current returns a snapshot of the current interview, or nil.
func (c *InterviewController) Current() *model.Interview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

// Start activates iv and makes it the current interview, replacing whatever
// was there. Answers are cleared and the position rewinds to the first
// question. A completed interview cannot be restarted and an interview
// without questions has nothing to ask; both are ignored.
func (c *InterviewController) Start(ctx context.Context, iv *model.Interview) *model.Interview {
	if iv == nil || len(iv.Questions) == 0 || iv.Status() == model.InterviewStatusCompleted {
		return nil
	}

	now := c.deps.Now()
	started := iv.Clone()
	started.InProgress = true
	started.StartedAt = &now
	started.CompletedAt = nil
	started.CurrentQuestionIndex = 0
	started.Answers = []model.Answer{}

	c.mu.Lock()
	c.current = started
	snap := started.Clone()
	c.mu.Unlock()

	c.deps.Metrics.InterviewsStarted.Inc()
	c.publish(ctx, EventStarted, snap, nil)
	c.log.Debug().Str("interview_id", snap.ID).Int("questions", len(snap.Questions)).Msg("Interview started")
	return snap
}

// SubmitAnswer scores text against questionID and stores it, replacing any
// earlier answer to the same question. The evaluation runs outside the lock;
// its result is dropped if the interview was completed or replaced meanwhile.
func (c *InterviewController) SubmitAnswer(ctx context.Context, questionID, text string) (*model.Answer, *model.Interview, error) {
	c.mu.Lock()
	iv := c.current
	if iv == nil || !iv.InProgress {
		c.mu.Unlock()
		return nil, nil, nil
	}
	q, ok := iv.Question(questionID)
	interviewID := iv.ID
	c.mu.Unlock()

	if !ok {
		return nil, nil, ErrUnknownQuestion
	}

	release, acquired, err := c.acquireEvaluation(ctx, interviewID, questionID)
	if err != nil {
		return nil, nil, fmt.Errorf("guard evaluation: %w", err)
	}
	if !acquired {
		return nil, nil, ErrEvaluationInProgress
	}
	defer release()

	ev, err := c.deps.Evaluator.Evaluate(ctx, q, text)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate answer: %w", err)
	}
	answer := model.Answer{QuestionID: questionID, Text: text}.WithEvaluation(ev)

	c.mu.Lock()
	if c.current != iv || !iv.InProgress {
		c.mu.Unlock()
		c.log.Debug().Str("interview_id", interviewID).Str("question_id", questionID).Msg("Discarding evaluation for an interview that is no longer active")
		return nil, nil, nil
	}
	upsertAnswer(iv, answer)
	snap := iv.Clone()
	c.mu.Unlock()

	c.publish(ctx, EventAnswerScored, snap, &answer)
	return &answer, snap, nil
}

// acquireEvaluation takes the per-question lock from the shared guard. When
// the shared guard is unreachable the process-local one is used instead, so
// a Redis outage degrades cross-instance exclusion rather than blocking
// every submission.
func (c *InterviewController) acquireEvaluation(ctx context.Context, interviewID, questionID string) (func(), bool, error) {
	key := config.CacheKey.EvaluationLockKey(c.userID, interviewID, questionID)
	release, acquired, err := c.deps.Guard.Acquire(ctx, key)
	if err == nil {
		return release, acquired, nil
	}
	if ctx.Err() != nil {
		return nil, false, err
	}
	c.log.Warn().Err(err).
		Str("interview_id", interviewID).
		Str("question_id", questionID).
		Msg("Evaluation guard unavailable, using process-local guard")
	return c.localGuard.Acquire(ctx, key)
}

func upsertAnswer(iv *model.Interview, a model.Answer) {
	for i := range iv.Answers {
		if iv.Answers[i].QuestionID == a.QuestionID {
			iv.Answers[i] = a
			return
		}
	}
	iv.Answers = append(iv.Answers, a)
}

// Advance moves the position by delta. Moves past either end are ignored.
func (c *InterviewController) Advance(ctx context.Context, delta int) *model.Interview {
	c.mu.Lock()
	iv := c.current
	if iv == nil || !iv.InProgress {
		c.mu.Unlock()
		return nil
	}
	next := iv.CurrentQuestionIndex + delta
	moved := next >= 0 && next < len(iv.Questions) && next != iv.CurrentQuestionIndex
	if moved {
		iv.CurrentQuestionIndex = next
	}
	snap := iv.Clone()
	c.mu.Unlock()

	if moved {
		c.publish(ctx, EventAdvanced, snap, nil)
	}
	return snap
}

// Next advances one question.
func (c *InterviewController) Next(ctx context.Context) *model.Interview { return c.Advance(ctx, 1) }

// Previous goes back one question.
func (c *InterviewController) Previous(ctx context.Context) *model.Interview {
	return c.Advance(ctx, -1)
}

// Complete finalizes the active interview and appends a copy to the user's
// history. Whether every question was answered is the caller's concern.
// The completed interview stays current, read-only, until Reset.
func (c *InterviewController) Complete(ctx context.Context) (*model.Interview, error) {
	return c.complete(ctx, false)
}

// CompleteIfAllAnswered is Complete, except that it returns
// ErrIncompleteInterview and leaves the interview active when a question is
// still unanswered. The check and the transition happen under one lock.
func (c *InterviewController) CompleteIfAllAnswered(ctx context.Context) (*model.Interview, error) {
	return c.complete(ctx, true)
}

func (c *InterviewController) complete(ctx context.Context, requireAllAnswered bool) (*model.Interview, error) {
	c.mu.Lock()
	iv := c.current
	if iv == nil || !iv.InProgress {
		c.mu.Unlock()
		return nil, nil
	}
	if requireAllAnswered && !iv.AllAnswered() {
		c.mu.Unlock()
		return nil, ErrIncompleteInterview
	}
	now := c.deps.Now()
	iv.InProgress = false
	iv.CompletedAt = &now
	snap := iv.Clone()
	c.mu.Unlock()

	c.deps.Metrics.InterviewsCompleted.Inc()
	c.publish(ctx, EventCompleted, snap, nil)
	c.log.Info().
		Str("interview_id", snap.ID).
		Int("answered", len(snap.Answers)).
		Int("questions", len(snap.Questions)).
		Msg("Interview completed")

	if c.deps.History != nil {
		if err := c.deps.History.AppendInterview(c.userID, *snap.Clone()); err != nil {
			return snap, fmt.Errorf("record interview history: %w", err)
		}
	}
	return snap, nil
}

// Reset drops the current interview, whatever its state.
func (c *InterviewController) Reset(ctx context.Context) {
	c.mu.Lock()
	dropped := c.current
	c.current = nil
	c.mu.Unlock()

	if dropped != nil {
		c.publish(ctx, EventReset, &model.Interview{ID: dropped.ID}, nil)
	}
}

// Report returns the results of the current interview if it is completed.
func (c *InterviewController) Report() *model.InterviewReport {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.current.Status() != model.InterviewStatusCompleted {
		return nil
	}
	return BuildReport(c.current.Clone())
}

func (c *InterviewController) publish(ctx context.Context, typ InterviewEventType, iv *model.Interview, a *model.Answer) {
	ev := InterviewEvent{
		Type:         typ,
		InterviewID:  iv.ID,
		CurrentIndex: iv.CurrentQuestionIndex,
		Timestamp:    c.deps.Now(),
	}
	if typ != EventReset {
		ev.Status = iv.Status()
	}
	if a != nil {
		ev.QuestionID = a.QuestionID
		ev.Score = a.Score
		ev.Source = a.Source
	}
	c.deps.Events.Publish(ctx, c.userID, ev)
}
