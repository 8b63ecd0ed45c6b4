package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mockview-backend/internal/config"
	"github.com/stemsi/mockview-backend/internal/evaluator"
	"github.com/stemsi/mockview-backend/internal/handler"
	"github.com/stemsi/mockview-backend/internal/metrics"
	"github.com/stemsi/mockview-backend/internal/middleware"
	"github.com/stemsi/mockview-backend/internal/repository"
	"github.com/stemsi/mockview-backend/internal/response"
	"github.com/stemsi/mockview-backend/internal/router"
	"github.com/stemsi/mockview-backend/internal/service"
	"github.com/stemsi/mockview-backend/internal/validator"
)

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorBody `json:"error"`
}

type harness struct {
	engine  *gin.Engine
	metrics *metrics.Metrics
	mr      *miniredis.Miniredis
}

type harnessOptions struct {
	evaluatorURL string
	submitRate   int
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	validator.Setup()

	cfg := &config.Config{
		GinMode:              gin.TestMode,
		JWTSecret:            "handler-test",
		JWTExpiry:            time.Hour,
		BcryptCost:           4,
		DefaultQuestionCount: 5,
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log := zerolog.Nop()
	m := metrics.NewNop()

	catalog, err := repository.DefaultCatalog()
	require.NoError(t, err)
	questionService := service.NewQuestionService(repository.NewQuestionRepository(catalog), cfg.DefaultQuestionCount)

	authService := service.NewAuthService(cfg)
	userService := service.NewUserService(repository.NewUserRepository(), authService)
	bus := service.NewRedisEventBus(rdb, log)

	var primary evaluator.Evaluator
	if opts.evaluatorURL != "" {
		primary = evaluator.NewRemote(opts.evaluatorURL, "", time.Second)
	}

	interviewService := service.NewInterviewService(questionService, service.ControllerDeps{
		Evaluator: evaluator.WithFallback(primary, m, log),
		Guard:     evaluator.NewRedisGuard(rdb, time.Minute),
		History:   userService,
		Events:    bus,
		Metrics:   m,
		Log:       log,
	})

	var limiter *middleware.RateLimiter
	if opts.submitRate > 0 {
		limiter = middleware.NewRateLimiter(opts.submitRate, time.Minute, middleware.ByUser)
		t.Cleanup(limiter.Close)
	}

	engine := router.SetupRouter(router.Deps{
		AuthService:   authService,
		Metrics:       m,
		SubmitLimiter: limiter,
		Log:           log,
	}, &router.Handlers{
		Auth:      handler.NewAuthHandler(userService),
		Catalog:   handler.NewCatalogHandler(questionService),
		Interview: handler.NewInterviewHandler(interviewService, log),
		Events:    handler.NewEventHandler(bus, log),
		WS:        handler.NewWSHandler(interviewService, log, nil, limiter),
		System:    handler.NewSystemHandler(rdb, log),
	}, cfg)

	return &harness{engine: engine, metrics: m, mr: mr}
}

func (h *harness) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (h *harness) signup(t *testing.T, email string) string {
	t.Helper()
	code, env := h.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":             "Candidate",
		"email":            email,
		"password":         "secret123",
		"confirm_password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}
