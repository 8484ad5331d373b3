package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/meet-highlight-backend/internal/http/handlers"
	httpMW "github.com/yungbote/meet-highlight-backend/internal/http/middleware"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	// StaticDir is served under /static when set.
	StaticDir string
	// RequireAuth protects /api with the session cookie.
	RequireAuth bool

	AuthHandler       *httpH.AuthHandler
	AuthMiddleware    *httpMW.AuthMiddleware
	SessionHandler    *httpH.SessionHandler
	GenerateHandler   *httpH.GenerateHandler
	TranscriptHandler *httpH.TranscriptHandler
	EmailHandler      *httpH.EmailHandler
	ChatHandler       *httpH.ChatHandler
	MeetValuesHandler *httpH.MeetValuesHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "meet-highlight"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	if strings.TrimSpace(cfg.StaticDir) != "" {
		r.Static("/static", cfg.StaticDir)
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/health", cfg.HealthHandler.Health)
	}

	// Auth (public)
	auth := r.Group("/auth")
	if cfg.AuthHandler != nil {
		auth.POST("/session", cfg.AuthHandler.CreateSession)
		auth.POST("/logout", cfg.AuthHandler.Logout)
		auth.GET("/me", cfg.AuthHandler.Me)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.AttachUser())
		if cfg.RequireAuth {
			api.Use(cfg.AuthMiddleware.RequireUser())
		}
	}
	{
		// Upload + sessions
		if cfg.SessionHandler != nil {
			api.POST("/files/upload", cfg.SessionHandler.Upload)
			api.GET("/sessions", cfg.SessionHandler.List)
			api.GET("/sessions/:id", cfg.SessionHandler.Get)
			api.GET("/sessions/:id/download", cfg.SessionHandler.Download)
		}

		// Generation
		if cfg.GenerateHandler != nil {
			api.POST("/generate", cfg.GenerateHandler.Generate)
			api.POST("/sessions/:id/generate", cfg.GenerateHandler.GenerateForSession)
		}

		if cfg.MeetValuesHandler != nil {
			api.GET("/meet-values", cfg.MeetValuesHandler.List)
		}

		// Transcripts
		if cfg.TranscriptHandler != nil {
			api.GET("/transcripts", cfg.TranscriptHandler.List)
			api.POST("/transcripts", cfg.TranscriptHandler.Create)
			api.GET("/transcripts/:id", cfg.TranscriptHandler.Get)
			api.PUT("/transcripts/:id", cfg.TranscriptHandler.Replace)
		}

		if cfg.EmailHandler != nil {
			api.POST("/email", cfg.EmailHandler.Send)
		}

		if cfg.ChatHandler != nil {
			api.POST("/chat/condense", cfg.ChatHandler.Condense)
		}
	}

	return r
}
