package events

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yungbote/tracker-backend/internal/observability"
	"github.com/yungbote/tracker-backend/internal/platform/logger"
)

// ErrBreakerOpen is returned while the downstream bus is considered unhealthy.
var ErrBreakerOpen = errors.New("event bus circuit open")

type BreakerConfig struct {
	Name string
	// ConsecutiveFailures trips the breaker once exceeded.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

type breakerPublisher struct {
	next    Publisher
	cb      *gobreaker.CircuitBreaker
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewBreakerPublisher guards next with a circuit breaker. While the breaker is
// open, Publish returns ErrBreakerOpen without calling next.
func NewBreakerPublisher(next Publisher, cfg BreakerConfig, log *logger.Logger, metrics *observability.Metrics) Publisher {
	if next == nil {
		next = Nop()
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Name == "" {
		cfg.Name = "event-bus"
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 5 * time.Second
	}
	blog := log.With("service", "EventBreaker")
	threshold := cfg.ConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			blog.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &breakerPublisher{next: next, cb: cb, log: blog, metrics: metrics}
}

func (p *breakerPublisher) Publish(ctx context.Context, e Event) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.next.Publish(ctx, e)
	})
	switch {
	case err == nil:
		p.metrics.IncEventPublished(string(e.Type), "ok")
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		p.metrics.IncEventPublished(string(e.Type), "rejected")
		return ErrBreakerOpen
	default:
		p.metrics.IncEventPublished(string(e.Type), "error")
		return err
	}
}
