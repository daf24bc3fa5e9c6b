package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doomlearn/doomfeed-backend/internal/data/sessions"
	httpx "github.com/doomlearn/doomfeed-backend/internal/http"
	httpH "github.com/doomlearn/doomfeed-backend/internal/http/handlers"
	"github.com/doomlearn/doomfeed-backend/internal/ingestion"
	"github.com/doomlearn/doomfeed-backend/internal/llm"
	"github.com/doomlearn/doomfeed-backend/internal/observability"
	"github.com/doomlearn/doomfeed-backend/internal/platform/gemini"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
	"github.com/doomlearn/doomfeed-backend/internal/platform/minimax"
	"github.com/doomlearn/doomfeed-backend/internal/services"
)

type App struct {
	Log     *logger.Logger
	Cfg     Config
	Server  *httpx.Server
	Manager *llm.Manager

	cancel       context.CancelFunc
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Setting up session store...", "backend", cfg.SessionStore)
	repo, err := buildSessionRepo(log, cfg)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init session store: %w", err)
	}

	log.Info("Setting up LLM providers...")
	manager := llm.NewManager(log)
	manager.Register("gemini", func(key string) (llm.TextProvider, error) {
		return gemini.NewClientWithKey(log, key)
	})
	manager.Register("minimax", func(key string) (llm.TextProvider, error) {
		return minimax.NewClientWithKey(log, key)
	})

	log.Info("Setting up services...")
	sessionSvc := services.NewSessionService(log, repo)
	feedSvc := services.NewFeedService(log, repo, manager)
	recSvc := services.NewRecommendationService(log, repo, manager)
	graphSvc := services.NewGraphService(log, repo, manager)
	fetcher := ingestion.NewFetcher(log)

	metrics := observability.Init(log)

	server := httpx.NewServer(httpx.RouterConfig{
		Log:             log,
		IngestHandler:   httpH.NewIngestHandler(log, sessionSvc, fetcher),
		SessionHandler:  httpH.NewSessionHandler(log, sessionSvc),
		GenerateHandler: httpH.NewGenerateHandler(log, feedSvc, recSvc, graphSvc),
		HealthHandler:   httpH.NewHealthHandler(manager),
		Metrics:         metrics,
		TracingName:     "doomfeed-backend",
	})

	return &App{
		Log:     log,
		Cfg:     cfg,
		Server:  server,
		Manager: manager,
	}, nil
}

func buildSessionRepo(log *logger.Logger, cfg Config) (sessions.Repo, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionStore)) {
	case "", "memory":
		return sessions.NewMemoryRepo(), nil
	case "redis":
		return sessions.NewRedisRepo(log, cfg.RedisAddr, cfg.SessionTTL)
	case "sqlite":
		return sessions.NewSQLiteRepo(log, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.otelShutdown = observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: "doomfeed-backend",
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})

	if m := observability.Current(); m != nil {
		m.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		if strings.EqualFold(a.Cfg.SessionStore, "redis") {
			m.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)
		}
	}
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(":" + a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(shutdownCtx)
		cancel()
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
