package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var got []Event
	done := make(chan struct{})
	bus.Subscribe(EventTypeGameStarted, func(ctx context.Context, e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
		close(done)
	})

	bus.Emit(context.Background(), GameStartedEvent{GameID: "abc", GuildID: 1})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 1)
	assert.Equal(t, EventTypeGameStarted, got[0].Type())
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	count := 0
	delivered := make(chan struct{}, 4)
	bus.Subscribe(EventTypeGameEnded, func(ctx context.Context, e Event) {
		mu.Lock()
		count++
		mu.Unlock()
		delivered <- struct{}{}
	})

	tx := NewTransactionalBus(bus)
	tx.Publish(GameEndedEvent{GameID: "one"})
	tx.Publish(GameEndedEvent{GameID: "two"})

	// Nothing reaches the real bus before Flush.
	mu.Lock()
	assert.Equal(t, 0, count)
	mu.Unlock()

	tx.Flush()
	for i := 0; i < 2; i++ {
		select {
		case <-delivered:
		case <-time.After(time.Second):
			t.Fatal("flushed event was not delivered")
		}
	}

	// Discarded events are never delivered.
	tx.Publish(GameEndedEvent{GameID: "three"})
	tx.Discard()
	tx.Flush()

	select {
	case <-delivered:
		t.Fatal("discarded event was delivered")
	case <-time.After(50 * time.Millisecond):
	}
}
