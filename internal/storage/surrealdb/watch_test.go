package surrealdb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rgower/vantage/internal/models"
)

// stubFetch serves a mutable snapshot guarded by a mutex.
type stubFetch struct {
	mu          sync.Mutex
	investments []models.Investment
	err         error
}

func (s *stubFetch) set(investments []models.Investment, err error) {
	s.mu.Lock()
	s.investments = investments
	s.err = err
	s.mu.Unlock()
}

func (s *stubFetch) fetch(ctx context.Context) (models.WatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return models.WatchEvent{}, s.err
	}
	return models.WatchEvent{Kind: models.WatchInvestments, Investments: s.investments}, nil
}

func collectEvent(t *testing.T, events <-chan models.WatchEvent, timeout time.Duration) (models.WatchEvent, bool) {
	t.Helper()
	select {
	case ev, open := <-events:
		return ev, open
	case <-time.After(timeout):
		return models.WatchEvent{}, false
	}
}

func TestRunWatchDeliversInitialSnapshot(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscription(cancel, nil)
	defer sub.Unsubscribe()

	stub := &stubFetch{investments: []models.Investment{{ID: "a", Name: "Apple"}}}
	go runWatch(ctx, sub, models.WatchInvestments, time.Hour, sub.nudgeInv, stub.fetch)

	ev, ok := collectEvent(t, sub.Events(), time.Second)
	if !ok {
		t.Fatal("no initial snapshot delivered")
	}
	if ev.Kind != models.WatchInvestments || len(ev.Investments) != 1 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestRunWatchDeduplicatesSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscription(cancel, nil)
	defer sub.Unsubscribe()

	stub := &stubFetch{investments: []models.Investment{{ID: "a"}}}
	go runWatch(ctx, sub, models.WatchInvestments, 5*time.Millisecond, sub.nudgeInv, stub.fetch)

	if _, ok := collectEvent(t, sub.Events(), time.Second); !ok {
		t.Fatal("no initial snapshot delivered")
	}

	// Several poll intervals pass with unchanged state: no further events.
	if ev, ok := collectEvent(t, sub.Events(), 50*time.Millisecond); ok {
		t.Errorf("unexpected duplicate event: %+v", ev)
	}

	// A real change is delivered.
	stub.set([]models.Investment{{ID: "a"}, {ID: "b"}}, nil)
	ev, ok := collectEvent(t, sub.Events(), time.Second)
	if !ok {
		t.Fatal("changed snapshot not delivered")
	}
	if len(ev.Investments) != 2 {
		t.Errorf("expected 2 investments, got %+v", ev)
	}
}

func TestRunWatchNudgeTriggersImmediatePoll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscription(cancel, nil)
	defer sub.Unsubscribe()

	stub := &stubFetch{}
	// Hour-long interval: only a nudge can produce the second event in time.
	go runWatch(ctx, sub, models.WatchInvestments, time.Hour, sub.nudgeInv, stub.fetch)

	if _, ok := collectEvent(t, sub.Events(), time.Second); !ok {
		t.Fatal("no initial snapshot delivered")
	}

	stub.set([]models.Investment{{ID: "new"}}, nil)
	sub.nudge(models.WatchInvestments)

	ev, ok := collectEvent(t, sub.Events(), time.Second)
	if !ok {
		t.Fatal("nudged snapshot not delivered")
	}
	if len(ev.Investments) != 1 || ev.Investments[0].ID != "new" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestRunWatchDeliversErrorsOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscription(cancel, nil)
	defer sub.Unsubscribe()

	stub := &stubFetch{err: errors.New("connection reset")}
	go runWatch(ctx, sub, models.WatchInvestments, 5*time.Millisecond, sub.nudgeInv, stub.fetch)

	ev, ok := collectEvent(t, sub.Events(), time.Second)
	if !ok {
		t.Fatal("watch error not delivered")
	}
	if ev.Err == nil || ev.Kind != models.WatchInvestments {
		t.Errorf("expected error event, got %+v", ev)
	}

	// The same error repeating is not re-delivered.
	if ev, ok := collectEvent(t, sub.Events(), 50*time.Millisecond); ok {
		t.Errorf("unexpected repeat error event: %+v", ev)
	}

	// Recovery delivers a snapshot again.
	stub.set([]models.Investment{{ID: "back"}}, nil)
	ev, ok = collectEvent(t, sub.Events(), time.Second)
	if !ok {
		t.Fatal("recovery snapshot not delivered")
	}
	if ev.Err != nil || len(ev.Investments) != 1 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestWatchesAreIndependent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscription(cancel, nil)
	defer sub.Unsubscribe()

	broken := &stubFetch{err: errors.New("investments watch down")}
	goalFetch := func(ctx context.Context) (models.WatchEvent, error) {
		return models.WatchEvent{Kind: models.WatchGoal, Goal: &models.Goal{GoalAmount: 50000}}, nil
	}

	go runWatch(ctx, sub, models.WatchInvestments, time.Hour, sub.nudgeInv, broken.fetch)
	go runWatch(ctx, sub, models.WatchGoal, time.Hour, sub.nudgeGoal, goalFetch)

	var sawGoal, sawError bool
	deadline := time.After(time.Second)
	for !(sawGoal && sawError) {
		select {
		case ev := <-sub.Events():
			switch ev.Kind {
			case models.WatchGoal:
				if ev.Err == nil && ev.Goal != nil {
					sawGoal = true
				}
			case models.WatchInvestments:
				if ev.Err != nil {
					sawError = true
				}
			}
		case <-deadline:
			t.Fatalf("missing events: goal=%v error=%v", sawGoal, sawError)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	closed := false
	sub := newSubscription(cancel, func() { closed = true })

	stub := &stubFetch{}
	go runWatch(ctx, sub, models.WatchInvestments, 5*time.Millisecond, sub.nudgeInv, stub.fetch)

	if _, ok := collectEvent(t, sub.Events(), time.Second); !ok {
		t.Fatal("no initial snapshot delivered")
	}

	sub.Unsubscribe()
	if !closed {
		t.Error("onClose not invoked")
	}

	// Channel is closed; no event is delivered after Unsubscribe returns.
	if ev, open := <-sub.Events(); open {
		t.Errorf("event after Unsubscribe: %+v", ev)
	}

	// Idempotent.
	sub.Unsubscribe()
}

func TestDeliverAfterCloseIsDropped(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	sub := newSubscription(cancel, nil)
	sub.Unsubscribe()

	if sub.deliver(models.WatchEvent{Kind: models.WatchInvestments}) {
		t.Error("deliver succeeded on a closed subscription")
	}
}
