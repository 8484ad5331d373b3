package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	mail "github.com/wneessen/go-mail"

	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	SenderName string
	Timeout    time.Duration
}

// SMTPMailer delivers through an authenticated relay over STARTTLS.
type SMTPMailer struct {
	log *logger.Logger
	cfg SMTPConfig
	// dial is swapped in tests.
	dial func(ctx context.Context, cfg SMTPConfig, msg *mail.Msg) error
}

func NewSMTP(log *logger.Logger, cfg SMTPConfig) *SMTPMailer {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPMailer{log: log.With("service", "SMTPMailer"), cfg: cfg, dial: dialAndSend}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := missing(
		[2]string{"SMTP_USERNAME", m.cfg.Username},
		[2]string{"SMTP_APP_PASSWORD", m.cfg.Password},
		[2]string{"SMTP_FROM", m.cfg.From},
	); err != nil {
		return err
	}

	out := mail.NewMsg()
	if name := strings.TrimSpace(m.cfg.SenderName); name != "" {
		if err := out.FromFormat(name, m.cfg.From); err != nil {
			return fmt.Errorf("invalid sender: %w", err)
		}
	} else if err := out.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := out.To(strings.TrimSpace(msg.To)); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, NormalizeBody(msg.HTML))

	if err := m.dial(ctx, m.cfg, out); err != nil {
		return err
	}
	m.log.Info("Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

func dialAndSend(ctx context.Context, cfg SMTPConfig, msg *mail.Msg) error {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
