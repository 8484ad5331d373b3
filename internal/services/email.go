package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/meet-highlight-backend/internal/platform/apierr"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/platform/mailer"
)

const DefaultEmailSubject = "MEET Session Transcript"

type EmailService interface {
	Send(ctx context.Context, to, subject, html string) error
}

type emailService struct {
	log    *logger.Logger
	mailer mailer.Mailer
}

func NewEmailService(log *logger.Logger, m mailer.Mailer) EmailService {
	return &emailService{log: log.With("service", "EmailService"), mailer: m}
}

func (s *emailService) Send(ctx context.Context, to, subject, html string) error {
	to = strings.TrimSpace(to)
	if to == "" || strings.TrimSpace(html) == "" {
		return invalid("email_fields_required", "to & html required")
	}
	if strings.TrimSpace(subject) == "" {
		subject = DefaultEmailSubject
	}
	err := s.mailer.Send(ctx, mailer.Message{To: to, Subject: subject, HTML: html})
	if err == nil {
		return nil
	}
	if errors.Is(err, mailer.ErrNotConfigured) {
		s.log.Error("Mailer not configured", "error", err)
		return misconfigured("mailer_not_configured", err)
	}
	s.log.Warn("Email send failed", "error", err)
	return apierr.Internal("email_send_failed", err)
}
