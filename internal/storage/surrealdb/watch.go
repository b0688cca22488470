package surrealdb

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rgower/vantage/internal/models"
)

// eventBuffer bounds how far a slow consumer can lag. When full, the newest
// snapshot is withheld and re-delivered on the next poll (lastFingerprint is
// only advanced on successful delivery).
const eventBuffer = 16

// subscription is the concrete handle behind interfaces.Subscription. Both
// watch goroutines share it; the mutex orders delivery against Unsubscribe so
// that nothing is sent after Unsubscribe returns.
type subscription struct {
	events    chan models.WatchEvent
	nudgeInv  chan struct{}
	nudgeGoal chan struct{}
	cancel    context.CancelFunc
	onClose   func()

	mu     sync.Mutex
	closed bool
}

func newSubscription(cancel context.CancelFunc, onClose func()) *subscription {
	return &subscription{
		events:    make(chan models.WatchEvent, eventBuffer),
		nudgeInv:  make(chan struct{}, 1),
		nudgeGoal: make(chan struct{}, 1),
		cancel:    cancel,
		onClose:   onClose,
	}
}

func (s *subscription) Events() <-chan models.WatchEvent {
	return s.events
}

// Unsubscribe stops both watches and closes the event channel. Safe to call
// more than once. Delivery is synchronously stopped: the closed flag and the
// channel close happen under the same mutex that guards every send.
func (s *subscription) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	close(s.events)
	s.mu.Unlock()

	if s.onClose != nil {
		s.onClose()
	}
}

// deliver sends an event unless the subscription is closed or the consumer is
// lagging. Returns true only when the event was actually queued.
func (s *subscription) deliver(ev models.WatchEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// nudge asks the watch for the given kind to re-poll immediately, so a caller
// observes its own write on the next snapshot instead of waiting a full poll
// interval. Never blocks.
func (s *subscription) nudge(kind models.WatchKind) {
	var ch chan struct{}
	switch kind {
	case models.WatchInvestments:
		ch = s.nudgeInv
	case models.WatchGoal:
		ch = s.nudgeGoal
	default:
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

// fetchFunc produces the current snapshot event for one watch kind.
type fetchFunc func(ctx context.Context) (models.WatchEvent, error)

// runWatch polls one remote watch until the context is cancelled. Snapshots
// are fingerprinted so only changes are delivered; consecutive identical
// errors are likewise delivered once. Each watch is independent: an error
// here never touches the other watch.
func runWatch(ctx context.Context, sub *subscription, kind models.WatchKind, interval time.Duration, nudge <-chan struct{}, fetch fetchFunc) {
	var lastFingerprint string

	poll := func() {
		ev, err := fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fp := "err:" + err.Error()
			if fp == lastFingerprint {
				return
			}
			if sub.deliver(models.WatchEvent{Kind: kind, Err: err}) {
				lastFingerprint = fp
			}
			return
		}
		data, merr := json.Marshal(ev)
		if merr != nil {
			return
		}
		fp := string(data)
		if fp == lastFingerprint {
			return
		}
		if sub.deliver(ev) {
			lastFingerprint = fp
		}
	}

	poll()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-nudge:
			poll()
		case <-ticker.C:
			poll()
		}
	}
}
