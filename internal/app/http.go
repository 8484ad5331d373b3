package app

import (
	"github.com/yungbote/meet-highlight-backend/internal/http"
	httpH "github.com/yungbote/meet-highlight-backend/internal/http/handlers"
	httpMW "github.com/yungbote/meet-highlight-backend/internal/http/middleware"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Session    *httpH.SessionHandler
	Generate   *httpH.GenerateHandler
	Transcript *httpH.TranscriptHandler
	Email      *httpH.EmailHandler
	Chat       *httpH.ChatHandler
	MeetValues *httpH.MeetValuesHandler
}

func wireHandlers(log *logger.Logger, cfg Config, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(clients.Store.Name()),
		Auth:       httpH.NewAuthHandler(log, services.Auth, httpH.CookieConfig{TTL: cfg.AuthSessionTTL, Secure: cfg.CookieSecure}),
		Session:    httpH.NewSessionHandler(log, services.Sessions, cfg.MaxUploadBytes),
		Generate:   httpH.NewGenerateHandler(log, services.Generate),
		Transcript: httpH.NewTranscriptHandler(log, services.Transcripts),
		Email:      httpH.NewEmailHandler(log, services.Email),
		Chat:       httpH.NewChatHandler(log, services.Chat),
		MeetValues: httpH.NewMeetValuesHandler(clients.MeetValues),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) http.RouterConfig {
	return http.RouterConfig{
		Log:               log,
		ServiceName:       cfg.ServiceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		StaticDir:         cfg.StaticDir,
		RequireAuth:       cfg.AuthRequired,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		SessionHandler:    handlers.Session,
		GenerateHandler:   handlers.Generate,
		TranscriptHandler: handlers.Transcript,
		EmailHandler:      handlers.Email,
		ChatHandler:       handlers.Chat,
		MeetValuesHandler: handlers.MeetValues,
		HealthHandler:     handlers.Health,
	}
}
