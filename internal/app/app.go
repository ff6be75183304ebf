package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tracker-backend/internal/data/db"
	"github.com/yungbote/tracker-backend/internal/events"
	"github.com/yungbote/tracker-backend/internal/http"
	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	Index    *db.IndexService
	Repos    Repos
	Clients  Clients
	Services Services
	Router   *gin.Engine

	shutdownOtel func(context.Context) error
	cancel       context.CancelFunc
}

func New(cfg Config) (*App, error) {
	log, err := logger.NewWithOptions(logger.Options{
		Mode:  cfg.Log.Mode,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})
	metrics := observability.NewMetrics(observability.MetricsConfig{
		ScrapeInterval:    cfg.Metrics.ScrapeInterval,
		RuntimeCollectors: cfg.Metrics.RuntimeCollectors,
	})

	index, err := db.NewIndexService(cfg.Index, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init index db: %w", err)
	}

	clients, err := wireClients(log, cfg, metrics)
	if err != nil {
		_ = index.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(index.DB(), log, metrics)
	serviceset := wireServices(log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, serviceset, index, clients)
	router := wireRouter(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Index:        index,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Router:       router,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Start launches the background collectors and, with redis configured, a
// forwarder that logs every event seen on the channel.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Metrics.StartDBCollector(ctx, a.Log, a.Index.DB())
	if bus := a.Clients.EventBus; bus != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, bus.Client())
		feed := a.Log.With("component", "EventFeed")
		err := bus.StartForwarder(ctx, func(e events.Event) {
			feed.Debug("event observed", "type", string(e.Type), "project_id", e.ProjectID, "entity_id", e.EntityID)
		})
		if err != nil {
			a.Log.Warn("event forwarder not started", "error", err)
		}
	}
}

// Run serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("listening", "addr", a.Cfg.Addr)
	return http.NewServer(a.Router).Run(ctx, a.Cfg.Addr, a.Cfg.ShutdownTimeout)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.Index != nil {
		_ = a.Index.Close()
	}
	if a.shutdownOtel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.shutdownOtel(ctx)
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
