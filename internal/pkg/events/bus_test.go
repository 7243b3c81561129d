package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestBusDeliversToSinks(t *testing.T) {
	bus := NewBus(4, nil)
	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	bus.Subscribe(SinkFunc(func(_ context.Context, e Event) error {
		mu.Lock()
		got = append(got, e.Type)
		mu.Unlock()
		return errors.New("ignored")
	}))
	bus.Subscribe(SinkFunc(func(_ context.Context, e Event) error {
		panic("sink exploded")
	}))

	go func() {
		bus.Run(context.Background())
		close(done)
	}()

	bus.Publish(LoggedIn("u1", "t1"))
	bus.Publish(PasswordChanged("u1"))
	bus.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != UserLoggedIn || got[1] != UserPasswordChanged {
		t.Fatalf("delivered = %v", got)
	}

	bus.Publish(LoggedIn("u1", "t1"))
}

func TestBusPublishNeverBlocks(t *testing.T) {
	bus := NewBus(1, nil)
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(PasswordChanged("u1"))
		}
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Publish(TenantSwitched("u1", "", "t2"))
	r.Publish(TenantRefreshed("u1", "t2"))

	if types := r.Types(); len(types) != 2 || types[1] != UserTenantRefreshed {
		t.Fatalf("types = %v", types)
	}
	e, ok := r.Last(UserTenantSwitched)
	if !ok {
		t.Fatal("switched event missing")
	}
	if e.Payload["fromTenantId"] != nil || e.Payload["toTenantId"] != "t2" || e.UserID() != "u1" {
		t.Fatalf("payload = %v", e.Payload)
	}
	if e.OccurredAtMs <= 0 {
		t.Fatal("event missing timestamp")
	}
}
