package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/yungbote/meet-highlight-backend/internal/http/middleware"
	"github.com/yungbote/meet-highlight-backend/internal/platform/envutil"
)

type DocumentStoreMode string

const (
	DocumentStoreFirestore DocumentStoreMode = "firestore"
	DocumentStorePostgres  DocumentStoreMode = "postgres"
	DocumentStoreFile      DocumentStoreMode = "file"
)

type Config struct {
	Port    string
	LogMode string

	AllowedOrigins []string
	MaxUploadBytes int64
	DataDir        string
	StaticDir      string
	UploadsPrefix  string
	RenderDPI      int
	SofficeTimeout time.Duration

	LLMProvider   string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	DocumentStoreMode   DocumentStoreMode
	FirebaseProjectID   string
	FirebaseCredsB64    string
	FirebaseCredsJSON   string
	GoogleCredsFile     string
	PostgresDSN         string
	SlideImageBucket    string
	StorageEmulatorHost string

	RedisAddr      string
	AuthSessionTTL time.Duration
	AuthRequired   bool
	CookieSecure   bool

	EmailProvider     string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	SMTPFrom          string
	SMTPSenderName    string
	SendGridAPIKey    string
	SendGridFromEmail string

	MeetValuesFile string

	OtelEnabled     bool
	OtelEndpoint    string
	OtelHeaders     string
	OtelInsecure    bool
	OtelSampleRatio float64
	ServiceName     string
	Environment     string
	Version         string
}

// UploadsDir is where rendered slide images land when no bucket is set.
func (c Config) UploadsDir() string { return filepath.Join(c.StaticDir, "uploads") }

// LoadConfig reads the environment once. Only a malformed
// DOCUMENT_STORE_MODE fails here; missing credentials surface where they are
// used.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:    envutil.String("PORT", "5000"),
		LogMode: envutil.String("LOG_MODE", "development"),

		AllowedOrigins: envutil.List("ALLOWED_ORIGINS", middleware.DefaultOrigins),
		MaxUploadBytes: int64(envutil.Int("MAX_CONTENT_LENGTH_MB", 25)) << 20,
		DataDir:        envutil.String("DATA_DIR", "data"),
		StaticDir:      envutil.String("STATIC_DIR", "static"),
		UploadsPrefix:  envutil.String("UPLOADS_URL_PREFIX", "/static/uploads"),
		RenderDPI:      envutil.Int("RENDER_DPI", 160),
		SofficeTimeout: time.Duration(envutil.Int("SOFFICE_TIMEOUT_SECONDS", 120)) * time.Second,

		LLMProvider:   strings.ToLower(envutil.String("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:  envutil.String("GEMINI_API_KEY", ""),
		GeminiModel:   envutil.String("MODEL_NAME", "gemini-1.5-flash"),
		GeminiBaseURL: envutil.String("GEMINI_BASE_URL", ""),
		OpenAIAPIKey:  envutil.String("OPENAI_API_KEY", ""),
		OpenAIModel:   envutil.String("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: envutil.String("OPENAI_BASE_URL", ""),

		FirebaseProjectID:   envutil.String("FIREBASE_PROJECT_ID", ""),
		FirebaseCredsB64:    envutil.String("FIREBASE_CREDENTIALS_B64", ""),
		FirebaseCredsJSON:   envutil.String("FIREBASE_CREDENTIALS_JSON", ""),
		GoogleCredsFile:     envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""),
		PostgresDSN:         envutil.String("POSTGRES_DSN", ""),
		SlideImageBucket:    envutil.String("SLIDE_IMAGE_BUCKET", ""),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),

		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		AuthSessionTTL: time.Duration(envutil.Int("AUTH_SESSION_TTL_SECONDS", 7*24*3600)) * time.Second,
		AuthRequired:   envutil.Bool("AUTH_REQUIRED", false),
		CookieSecure:   envutil.Bool("COOKIE_SECURE", false),

		EmailProvider:     strings.ToLower(envutil.String("EMAIL_PROVIDER", "")),
		SMTPHost:          envutil.String("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:          envutil.Int("SMTP_PORT", 587),
		SMTPUsername:      envutil.String("SMTP_USERNAME", ""),
		SMTPPassword:      envutil.String("SMTP_APP_PASSWORD", ""),
		SMTPFrom:          envutil.String("SMTP_FROM", ""),
		SMTPSenderName:    envutil.String("SMTP_SENDER_NAME", ""),
		SendGridAPIKey:    envutil.String("SENDGRID_API_KEY", ""),
		SendGridFromEmail: envutil.String("SENDGRID_FROM_EMAIL", ""),

		MeetValuesFile: envutil.String("MEET_VALUES_FILE", ""),

		OtelEnabled:     envutil.Bool("OTEL_ENABLED", false),
		OtelEndpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OtelHeaders:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
		OtelInsecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		OtelSampleRatio: envutil.Float("OTEL_TRACES_SAMPLER_RATIO", 0.1),
		ServiceName:     envutil.String("OTEL_SERVICE_NAME", "meet-highlight"),
		Environment:     envutil.String("APP_ENV", "development"),
		Version:         envutil.String("APP_VERSION", "dev"),
	}

	mode, err := parseDocumentStoreMode(envutil.String("DOCUMENT_STORE_MODE", string(DocumentStoreFirestore)))
	if err != nil {
		return cfg, err
	}
	cfg.DocumentStoreMode = mode
	if cfg.MaxUploadBytes <= 0 {
		return cfg, fmt.Errorf("MAX_CONTENT_LENGTH_MB must be positive")
	}
	return cfg, nil
}

func parseDocumentStoreMode(raw string) (DocumentStoreMode, error) {
	mode := DocumentStoreMode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case DocumentStoreFirestore, DocumentStorePostgres, DocumentStoreFile:
		return mode, nil
	}
	return "", &StoreProviderBootstrapError{
		Code:  StoreProviderBootstrapErrorInvalidMode,
		Mode:  string(mode),
		Cause: fmt.Errorf("unsupported DOCUMENT_STORE_MODE %q (allowed: firestore, postgres, file)", raw),
	}
}
