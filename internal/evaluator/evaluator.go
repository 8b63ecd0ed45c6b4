// Package evaluator turns a candidate's answer into a score and feedback.
//
// Local scores by keyword overlap and never fails. Remote calls an external
// HTTP evaluator once. WithFallback composes the two so that callers always
// get an evaluation; fallbacks are marked so they can be told apart from a
// successful external call.
package evaluator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/mockview-backend/internal/metrics"
	"github.com/stemsi/mockview-backend/internal/model"
	"github.com/stemsi/mockview-backend/pkg/scoring"
)

// FallbackNotice prefixes the feedback of an answer scored locally because
// the external evaluator failed.
const FallbackNotice = "[Automated evaluation unavailable, scored by keyword match] "

// ErrMalformedEvaluation is returned when the external evaluator answers with
// a body that does not satisfy the {score, feedback} contract.
var ErrMalformedEvaluation = errors.New("malformed evaluation")

// Evaluator scores one answer against the question it answers.
type Evaluator interface {
	Evaluate(ctx context.Context, q model.Question, answer string) (model.Evaluation, error)
	Name() string
}

// Local is the keyword-overlap scorer.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (l *Local) Name() string { return "local" }

func (l *Local) Evaluate(_ context.Context, q model.Question, answer string) (model.Evaluation, error) {
	res := scoring.Score(scoring.Input{ExpectedKeywords: q.ExpectedKeywords, Answer: answer})
	return model.Evaluation{
		Score:    res.Score,
		Feedback: res.Feedback,
		Source:   model.EvaluationSourceLocal,
	}, nil
}

// Fallback runs a primary evaluator and degrades to Local when it fails.
type Fallback struct {
	primary Evaluator
	local   *Local
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// WithFallback wraps primary. A nil primary means every answer is scored locally.
func WithFallback(primary Evaluator, m *metrics.Metrics, log zerolog.Logger) *Fallback {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Fallback{
		primary: primary,
		local:   NewLocal(),
		metrics: m,
		log:     log.With().Str("component", "evaluator").Logger(),
	}
}

func (f *Fallback) Name() string {
	if f.primary == nil {
		return f.local.Name()
	}
	return f.primary.Name()
}

// Evaluate never returns an error.
func (f *Fallback) Evaluate(ctx context.Context, q model.Question, answer string) (model.Evaluation, error) {
	start := time.Now()

	if f.primary == nil {
		ev, _ := f.local.Evaluate(ctx, q, answer)
		f.metrics.ObserveEvaluation(f.local.Name(), string(ev.Source), time.Since(start).Seconds())
		return ev, nil
	}

	ev, err := f.primary.Evaluate(ctx, q, answer)
	if err == nil {
		f.metrics.ObserveEvaluation(f.primary.Name(), string(ev.Source), time.Since(start).Seconds())
		return ev, nil
	}

	f.log.Warn().Err(err).
		Str("question_id", q.ID).
		Str("evaluator", f.primary.Name()).
		Msg("External evaluation failed, falling back to keyword scoring")

	ev, _ = f.local.Evaluate(ctx, q, answer)
	ev.Feedback = FallbackNotice + ev.Feedback
	ev.Source = model.EvaluationSourceLocalFallback
	f.metrics.ObserveEvaluation(f.primary.Name(), string(ev.Source), time.Since(start).Seconds())
	return ev, nil
}
