package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/stemsi/mockview-backend/internal/model"
)

// maxResponseBytes caps how much of the evaluator's body is read.
const maxResponseBytes = 1 << 20

type remoteRequest struct {
	Answer   remoteAnswer   `json:"answer"`
	Question remoteQuestion `json:"question"`
}

type remoteAnswer struct {
	Text string `json:"text"`
}

type remoteQuestion struct {
	Text             string   `json:"text"`
	ExpectedKeywords []string `json:"expected_keywords"`
}

type remoteResponse struct {
	Score    *float64 `json:"score" validate:"required,gte=0,lte=100"`
	Feedback string   `json:"feedback" validate:"required"`
}

// Remote calls an external evaluator over HTTP. Each call is a single attempt
// bounded by the client timeout.
type Remote struct {
	url      string
	apiKey   string
	client   *http.Client
	validate *govalidator.Validate
}

func NewRemote(url, apiKey string, timeout time.Duration) *Remote {
	return &Remote{
		url:      url,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		validate: govalidator.New(),
	}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Evaluate(ctx context.Context, q model.Question, answer string) (model.Evaluation, error) {
	keywords := q.ExpectedKeywords
	if keywords == nil {
		keywords = []string{}
	}
	body, err := json.Marshal(remoteRequest{
		Answer:   remoteAnswer{Text: answer},
		Question: remoteQuestion{Text: q.Text, ExpectedKeywords: keywords},
	})
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("marshal evaluation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("create evaluation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("call evaluator: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.Evaluation{}, fmt.Errorf("read evaluator response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return model.Evaluation{}, fmt.Errorf("evaluator status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var out remoteResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return model.Evaluation{}, fmt.Errorf("%w: %v", ErrMalformedEvaluation, err)
	}
	if err := r.validate.Struct(out); err != nil {
		return model.Evaluation{}, fmt.Errorf("%w: %v", ErrMalformedEvaluation, err)
	}

	return model.Evaluation{
		Score:    int(math.Round(*out.Score)),
		Feedback: out.Feedback,
		Source:   model.EvaluationSourceExternal,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
