package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/tracker-backend/internal/events"
	"github.com/yungbote/tracker-backend/internal/events/testutil"
)

func TestBreakerPublisherPassesThrough(t *testing.T) {
	rec := &testutil.Recorder{}
	pub := events.NewBreakerPublisher(rec, events.BreakerConfig{}, nil, nil)

	e := events.New(events.TicketCreated, "p", "a", "t", time.Now())
	if err := pub.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := rec.Types(); len(got) != 1 || got[0] != events.TicketCreated {
		t.Fatalf("recorded types: %v", got)
	}
}

func TestBreakerPublisherOpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("redis down")
	rec := &testutil.Recorder{Err: boom}
	pub := events.NewBreakerPublisher(rec, events.BreakerConfig{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, nil, nil)
	ctx := context.Background()
	e := events.New(events.BugFixed, "p", "a", "b", time.Now())

	for i := 0; i < 3; i++ {
		if err := pub.Publish(ctx, e); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: want downstream error got=%v", i, err)
		}
	}
	if err := pub.Publish(ctx, e); !errors.Is(err, events.ErrBreakerOpen) {
		t.Fatalf("after trip: want ErrBreakerOpen got=%v", err)
	}
}

func TestEventWithCopiesAttributes(t *testing.T) {
	base := events.New(events.MemberAdded, "p", "a", "u", time.Now()).With("role", "DEVELOPER")
	derived := base.With("source", "api")
	if _, ok := base.Attributes["source"]; ok {
		t.Fatalf("With mutated the receiver")
	}
	if derived.Attributes["role"] != "DEVELOPER" || derived.Attributes["source"] != "api" {
		t.Fatalf("derived attributes: %v", derived.Attributes)
	}
}
