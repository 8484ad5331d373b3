package app

import (
	"context"
	"fmt"
	"net"

	"github.com/yungbote/meet-highlight-backend/internal/http"
	"github.com/yungbote/meet-highlight-backend/internal/observability"
	"github.com/yungbote/meet-highlight-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Services Services
	Server   *http.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithConfig(ctx, log, cfg)
}

// NewWithConfig wires everything from an already loaded config.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     cfg.OtelHeaders,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		log.Sync()
		return nil, err
	}
	serviceset := wireServices(log, cfg, clients)
	handlerset := wireHandlers(log, cfg, clients, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := http.NewServer(routerConfig(log, cfg, handlerset, middleware), net.JoinHostPort("", cfg.Port))

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Services:     serviceset,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "port", a.Cfg.Port, "store", a.Clients.Store.Name())
	return a.Server.Run()
}

// Shutdown drains in-flight requests, then releases clients and flushes
// traces.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var err error
	if a.Server != nil {
		err = a.Server.Shutdown(ctx)
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		if oerr := a.otelShutdown(ctx); oerr != nil && err == nil {
			err = oerr
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return err
}
