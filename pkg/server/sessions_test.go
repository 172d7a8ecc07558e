package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-bfhl/pkg/controller"
	"github.com/goliatone/go-bfhl/pkg/payload"
	"github.com/goliatone/go-bfhl/pkg/view"
)

type nopEndpoint struct{}

func (nopEndpoint) Submit(context.Context, payload.Payload) (view.Response, error) {
	return view.Response{}, nil
}

func (nopEndpoint) OperationCode(context.Context) (any, error) { return nil, nil }

func newTestStore(ttl time.Duration) (*SessionStore, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewSessionStore(func() (*controller.Controller, error) {
		return controller.New(nopEndpoint{})
	}, ttl)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestAcquireReusesLiveSession(t *testing.T) {
	store, _ := newTestStore(time.Minute)

	first, created, err := store.Acquire("")
	if err != nil || !created {
		t.Fatalf("expected new session, created=%v err=%v", created, err)
	}
	again, created, err := store.Acquire(first.ID())
	if err != nil || created {
		t.Fatalf("expected reuse, created=%v err=%v", created, err)
	}
	if again != first {
		t.Fatalf("expected same session")
	}
}

func TestAcquireUnknownIDIssuesNewID(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	sess, created, _ := store.Acquire("forged")
	if !created || sess.ID() == "forged" {
		t.Fatalf("unknown ids must not be adopted")
	}
}

func TestExpiredSessionIsReplaced(t *testing.T) {
	store, now := newTestStore(time.Minute)
	first, _, _ := store.Acquire("")

	*now = now.Add(2 * time.Minute)
	second, created, _ := store.Acquire(first.ID())
	if !created || second.ID() == first.ID() {
		t.Fatalf("expected expired session to be replaced")
	}
}

func TestSweep(t *testing.T) {
	store, now := newTestStore(time.Minute)
	store.Acquire("")
	store.Acquire("")

	*now = now.Add(30 * time.Second)
	live, _, _ := store.Acquire("")
	*now = now.Add(45 * time.Second)

	if removed := store.Sweep(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", store.Len())
	}
	if _, created, _ := store.Acquire(live.ID()); created {
		t.Fatalf("live session was swept")
	}
}

func TestNoticeIsOneShot(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	sess, _, _ := store.Acquire("")

	store.SetNotice(sess, controller.Notice{Message: "Operation Code: 1"})
	if n := store.TakeNotice(sess); n == nil || n.Message != "Operation Code: 1" {
		t.Fatalf("unexpected notice %+v", n)
	}
	if n := store.TakeNotice(sess); n != nil {
		t.Fatalf("expected notice consumed, got %+v", n)
	}
}

func TestFactoryError(t *testing.T) {
	store := NewSessionStore(func() (*controller.Controller, error) {
		return nil, errors.New("no endpoint")
	}, 0)
	if _, _, err := store.Acquire(""); err == nil {
		t.Fatalf("expected factory error")
	}
	if store.ttl != DefaultSessionTTL {
		t.Fatalf("expected default ttl, got %v", store.ttl)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store, _ := newTestStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("run did not stop")
	}
}
