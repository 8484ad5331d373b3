package app

import (
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

type Services struct {
	Generation  services.GenerationClient
	Sessions    services.SessionService
	Generate    services.GenerateService
	Transcripts services.TranscriptService
	Email       services.EmailService
	Chat        services.ChatService
	Auth        services.AuthService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients) Services {
	log.Info("Wiring services...")

	gen := services.NewGenerationClient(log, clients.Model)

	return Services{
		Generation:  gen,
		Sessions:    services.NewSessionService(log, clients.Store, clients.Renderer, cfg.MaxUploadBytes),
		Generate:    services.NewGenerateService(log, clients.Store, gen, clients.MeetValues),
		Transcripts: services.NewTranscriptService(log, clients.Store),
		Email:       services.NewEmailService(log, clients.Mailer),
		Chat:        services.NewChatService(log, gen),
		Auth:        services.NewAuthService(log, clients.Verifier, clients.Sessions),
	}
}
