package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/meet-highlight-backend/internal/data/db"
	"github.com/yungbote/meet-highlight-backend/internal/data/docstore"
	"github.com/yungbote/meet-highlight-backend/internal/platform/gcp"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

var (
	newFirestoreClient = gcp.NewFirestoreClient
	newPostgresService = db.NewPostgresService
)

type StoreProviderBootstrapErrorCode string

const (
	StoreProviderBootstrapErrorInvalidMode        StoreProviderBootstrapErrorCode = "invalid_mode"
	StoreProviderBootstrapErrorMissingCredentials StoreProviderBootstrapErrorCode = "missing_credentials"
	StoreProviderBootstrapErrorConnectFailed      StoreProviderBootstrapErrorCode = "connect_failed"
)

type StoreProviderBootstrapError struct {
	Code  StoreProviderBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StoreProviderBootstrapError) Error() string {
	if e == nil {
		return "document store bootstrap failed"
	}
	return fmt.Sprintf("document store bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StoreProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveDocumentStore builds the configured primary and the file fallback
// and picks one for the life of the process. Primary construction failures
// are logged and answered with the fallback; closers release whatever
// was opened.
func resolveDocumentStore(ctx context.Context, log *logger.Logger, cfg Config, creds gcp.Credentials) (docstore.Store, []func() error, error) {
	fallback, err := docstore.NewFileStore(log, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init file store: %w", err)
	}

	var closers []func() error
	primary, closer, err := openPrimaryStore(ctx, log, cfg, creds)
	if closer != nil {
		closers = append(closers, closer)
	}
	if err != nil {
		var bootstrapErr *StoreProviderBootstrapError
		if errors.As(err, &bootstrapErr) && bootstrapErr.Code == StoreProviderBootstrapErrorInvalidMode {
			return nil, closers, err
		}
		log.Warn("Primary document store unavailable",
			"mode", cfg.DocumentStoreMode,
			"error_code", storeProviderBootstrapErrorCode(err),
			"error", err,
		)
		return fallback, closers, nil
	}
	return docstore.Select(ctx, log, primary, fallback), closers, nil
}

// openPrimaryStore returns a nil store (and nil error) for file mode.
func openPrimaryStore(ctx context.Context, log *logger.Logger, cfg Config, creds gcp.Credentials) (docstore.Store, func() error, error) {
	switch cfg.DocumentStoreMode {
	case DocumentStoreFile:
		return nil, nil, nil
	case DocumentStoreFirestore:
		client, err := newFirestoreClient(ctx, creds)
		if err != nil {
			return nil, nil, classifyStoreProviderBootstrapError(cfg.DocumentStoreMode, err)
		}
		return docstore.NewFirestoreStore(log, client), client.Close, nil
	case DocumentStorePostgres:
		pg, err := newPostgresService(log, db.PostgresConfig{DSN: cfg.PostgresDSN})
		if err != nil {
			return nil, nil, classifyStoreProviderBootstrapError(cfg.DocumentStoreMode, err)
		}
		store, err := docstore.NewGormStore(pg.DB(), log)
		if err != nil {
			return nil, pg.Close, classifyStoreProviderBootstrapError(cfg.DocumentStoreMode, err)
		}
		return store, pg.Close, nil
	}
	return nil, nil, &StoreProviderBootstrapError{
		Code:  StoreProviderBootstrapErrorInvalidMode,
		Mode:  string(cfg.DocumentStoreMode),
		Cause: fmt.Errorf("unsupported document store mode %q", cfg.DocumentStoreMode),
	}
}

func classifyStoreProviderBootstrapError(mode DocumentStoreMode, err error) error {
	code := StoreProviderBootstrapErrorConnectFailed
	if errors.Is(err, gcp.ErrMissingProject) || errors.Is(err, db.ErrNotConfigured) {
		code = StoreProviderBootstrapErrorMissingCredentials
	}
	return &StoreProviderBootstrapError{Code: code, Mode: string(mode), Cause: err}
}

func storeProviderBootstrapErrorCode(err error) StoreProviderBootstrapErrorCode {
	var bootstrapErr *StoreProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StoreProviderBootstrapErrorConnectFailed
}
