package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockview-backend/internal/config"
	"github.com/stemsi/mockview-backend/internal/handler"
	"github.com/stemsi/mockview-backend/internal/metrics"
	"github.com/stemsi/mockview-backend/internal/middleware"
	"github.com/stemsi/mockview-backend/internal/response"
	"github.com/stemsi/mockview-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Interview *handler.InterviewHandler
	Events    *handler.EventHandler
	WS        *handler.WSHandler
	System    *handler.SystemHandler
}

// Deps are the cross-cutting pieces the router installs as middleware.
type Deps struct {
	AuthService   *service.AuthService
	Metrics       *metrics.Metrics
	SubmitLimiter *middleware.RateLimiter
	Log           zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(deps Deps, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(deps.Log))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// Health check.
	if handlers.System != nil {
		router.GET("/health", handlers.System.Health)
	} else {
		router.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, gin.H{"status": "ok"})
		})
	}

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/catalog", handlers.Catalog.GetCatalog)
		publicAPI.POST("/auth/signup", handlers.Auth.Signup)
		publicAPI.POST("/auth/token", handlers.Auth.IssueToken)
	}

	requireUser := middleware.RequireUserJWT(deps.AuthService)

	// ─── 1. Candidate Group ────────────────────────────────────────────
	meAPI := router.Group("/api/v1/me")
	meAPI.Use(requireUser)
	{
		meAPI.GET("", handlers.Auth.GetProfile)
		meAPI.GET("/interviews", handlers.Auth.ListInterviews)
	}

	interviewAPI := router.Group("/api/v1/interview")
	interviewAPI.Use(requireUser)
	{
		interviewAPI.POST("", handlers.Interview.Create)
		interviewAPI.GET("", handlers.Interview.Get)
		interviewAPI.DELETE("", handlers.Interview.Reset)

		submit := []gin.HandlerFunc{handlers.Interview.SubmitAnswer}
		if deps.SubmitLimiter != nil {
			submit = append([]gin.HandlerFunc{deps.SubmitLimiter.Middleware()}, submit...)
		}
		interviewAPI.POST("/answers", submit...)

		interviewAPI.POST("/next", handlers.Interview.Next)
		interviewAPI.POST("/previous", handlers.Interview.Previous)
		interviewAPI.POST("/complete", handlers.Interview.Complete)
		interviewAPI.GET("/report", handlers.Interview.Report)

		if handlers.Events != nil {
			interviewAPI.GET("/events", handlers.Events.InterviewEventsSSE)
		}
	}

	// ─── 2. WebSocket ──────────────────────────────────────────────────
	wsGroup := router.Group("/ws/v1")
	wsGroup.Use(requireUser)
	{
		wsGroup.GET("/interview/stream", handlers.WS.InterviewStream)
	}

	return router
}
