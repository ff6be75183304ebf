package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/tracker-backend/internal/clients/redis"
	"github.com/yungbote/tracker-backend/internal/events"
	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

type Clients struct {
	// EventBus is nil when no redis address is configured.
	EventBus  redis.EventBus
	Publisher events.Publisher
}

func wireClients(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		log.Warn("REDIS_ADDR not set; change events are dropped")
		return Clients{Publisher: events.Nop()}, nil
	}
	bus, err := redis.NewEventBus(log, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis event bus: %w", err)
	}
	publisher := events.NewBreakerPublisher(bus, events.BreakerConfig{
		Name:                "redis-event-bus",
		ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		OpenTimeout:         cfg.Breaker.OpenTimeout,
	}, log, metrics)
	return Clients{EventBus: bus, Publisher: publisher}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.EventBus != nil {
		_ = c.EventBus.Close()
	}
}
