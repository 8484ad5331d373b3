package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/meet-highlight-backend/internal/data/docstore"
	"github.com/yungbote/meet-highlight-backend/internal/data/websession"
	"github.com/yungbote/meet-highlight-backend/internal/modules/highlight/meetvalues"
	"github.com/yungbote/meet-highlight-backend/internal/modules/highlight/render"
	"github.com/yungbote/meet-highlight-backend/internal/platform/authn"
	"github.com/yungbote/meet-highlight-backend/internal/platform/gcp"
	"github.com/yungbote/meet-highlight-backend/internal/platform/gemini"
	"github.com/yungbote/meet-highlight-backend/internal/platform/localmedia"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
	"github.com/yungbote/meet-highlight-backend/internal/platform/mailer"
	"github.com/yungbote/meet-highlight-backend/internal/platform/openai"
	"github.com/yungbote/meet-highlight-backend/internal/platform/sendgrid"
	"github.com/yungbote/meet-highlight-backend/internal/services"
)

type Clients struct {
	Store      docstore.Store
	Sessions   websession.Store
	Verifier   authn.Verifier
	Model      services.TextModel
	Mailer     mailer.Mailer
	Renderer   *render.Renderer
	MeetValues []string

	closers []func() error
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	creds, err := gcp.LoadCredentials(gcp.CredentialSources{
		Base64:    cfg.FirebaseCredsB64,
		JSON:      cfg.FirebaseCredsJSON,
		FilePath:  cfg.GoogleCredsFile,
		ProjectID: cfg.FirebaseProjectID,
	})
	if err != nil {
		log.Warn("No service account credentials; Google clients use application defaults", "error", err)
	} else {
		log.Info("Loaded service account credentials", "source", creds.Source, "project_id", creds.ProjectID)
	}

	// Documents
	store, closers, err := resolveDocumentStore(ctx, log, cfg, creds)
	c.closers = append(c.closers, closers...)
	if err != nil {
		c.Close()
		return Clients{}, err
	}
	c.Store = store

	// Identity
	if v, err := authn.NewFirebaseVerifier(authn.FirebaseConfig{ProjectID: creds.ProjectID}); err != nil {
		log.Warn("Sign-in disabled", "error", err)
	} else {
		c.Verifier = v
	}

	// Auth sessions
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rdb, err := websession.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis unavailable, keeping auth sessions in memory", "addr", cfg.RedisAddr, "error", err)
			c.Sessions = websession.NewMemoryStore(cfg.AuthSessionTTL)
		} else {
			c.Sessions = websession.NewRedisStore(log, rdb, cfg.AuthSessionTTL)
			c.closers = append(c.closers, rdb.Close)
		}
	} else {
		c.Sessions = websession.NewMemoryStore(cfg.AuthSessionTTL)
	}

	// Slide images
	var publisher *render.Publisher
	if strings.TrimSpace(cfg.SlideImageBucket) != "" {
		bucket, err := gcp.NewBucketService(ctx, log, gcp.BucketConfig{
			Bucket:       cfg.SlideImageBucket,
			EmulatorHost: cfg.StorageEmulatorHost,
		}, creds)
		if err != nil {
			log.Warn("Slide image bucket unavailable, serving images locally", "bucket", cfg.SlideImageBucket, "error", err)
		} else {
			publisher = render.NewPublisher(bucket, "slides")
			c.closers = append(c.closers, bucket.Close)
		}
	}
	tools := localmedia.New(log, localmedia.Options{ConvertTimeout: cfg.SofficeTimeout})
	c.Renderer = render.New(log, tools, render.Config{
		UploadsDir: cfg.UploadsDir(),
		URLPrefix:  cfg.UploadsPrefix,
		DPI:        cfg.RenderDPI,
	}, publisher)

	// Language model
	model, err := newTextModel(log, cfg)
	if err != nil {
		log.Warn("No language model configured, generation runs offline", "provider", cfg.LLMProvider, "error", err)
	} else {
		c.Model = model
	}

	c.Mailer = newMailer(log, cfg)

	values, err := meetvalues.Load(cfg.MeetValuesFile)
	if err != nil {
		log.Warn("Falling back to default MEET values", "file", cfg.MeetValuesFile, "error", err)
		values = meetvalues.Default()
	}
	c.MeetValues = values

	return c, nil
}

var errUnknownProvider = errors.New("unknown LLM_PROVIDER")

func newTextModel(log *logger.Logger, cfg Config) (services.TextModel, error) {
	switch cfg.LLMProvider {
	case "", "gemini":
		return gemini.NewClient(log, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
		})
	case "openai":
		return openai.NewClient(log, openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	}
	return nil, fmt.Errorf("%w %q", errUnknownProvider, cfg.LLMProvider)
}

// newMailer never fails; a provider that cannot be built is reported on send.
func newMailer(log *logger.Logger, cfg Config) mailer.Mailer {
	switch cfg.EmailProvider {
	case "smtp":
		return mailer.NewSMTP(log, mailer.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			Username:   cfg.SMTPUsername,
			Password:   cfg.SMTPPassword,
			From:       cfg.SMTPFrom,
			SenderName: cfg.SMTPSenderName,
		})
	case "sendgrid":
		client, err := sendgrid.New(log, sendgrid.Config{
			APIKey:           cfg.SendGridAPIKey,
			DefaultFromEmail: cfg.SendGridFromEmail,
		})
		if err != nil {
			return mailer.Unconfigured{Reason: err.Error()}
		}
		m, err := mailer.NewSendGrid(client, cfg.SendGridAPIKey, cfg.SendGridFromEmail, "")
		if err != nil {
			return mailer.Unconfigured{Reason: err.Error()}
		}
		return m
	}
	return mailer.Unconfigured{Reason: "EMAIL_PROVIDER must be smtp or sendgrid"}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
}
