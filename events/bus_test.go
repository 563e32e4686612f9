package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionalBus_FlushDeliversToSubscribers(t *testing.T) {
	mainBus := NewBus()
	txBus := NewTransactionalBus(mainBus)

	received := make(chan DefconChangedEvent, 1)
	mainBus.Subscribe(EventTypeDefconChanged, func(ctx context.Context, event Event) {
		if ev, ok := event.(DefconChangedEvent); ok {
			received <- ev
		}
	})

	sent := DefconChangedEvent{GuildID: 42, OldLevel: 5, NewLevel: 4, Authority: "Joshua"}
	require.NoError(t, txBus.Publish(sent))
	assert.Equal(t, 1, txBus.Pending())

	select {
	case <-received:
		t.Fatal("event delivered before flush")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, txBus.Flush(context.Background()))
	assert.Equal(t, 0, txBus.Pending())

	select {
	case got := <-received:
		assert.Equal(t, sent, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not received within timeout")
	}
}

func TestTransactionalBus_DiscardDropsEvents(t *testing.T) {
	mainBus := NewBus()
	txBus := NewTransactionalBus(mainBus)

	called := make(chan struct{}, 1)
	mainBus.Subscribe(EventTypePollClosed, func(ctx context.Context, event Event) {
		called <- struct{}{}
	})

	require.NoError(t, txBus.Publish(PollClosedEvent{PollID: 1}))
	txBus.Discard()
	require.NoError(t, txBus.Flush(context.Background()))

	select {
	case <-called:
		t.Fatal("discarded event was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_SubscribeAllReceivesEveryType(t *testing.T) {
	bus := NewBus()

	var mu sync.Mutex
	var seen []EventType
	var wg sync.WaitGroup
	wg.Add(2)

	bus.SubscribeAll(func(ctx context.Context, event Event) {
		defer wg.Done()
		mu.Lock()
		seen = append(seen, event.Type())
		mu.Unlock()
	})

	require.NoError(t, bus.Publish(PollOpenedEvent{PollID: 1}))
	require.NoError(t, bus.Publish(SoundPlayedEvent{Name: "airhorn"}))
	wg.Wait()

	assert.ElementsMatch(t, []EventType{EventTypePollOpened, EventTypeSoundPlayed}, seen)
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe(EventTypeSoundPlayed, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeSoundPlayed, func(ctx context.Context, event Event) {
		close(done)
	})

	bus.Emit(context.Background(), SoundPlayedEvent{Name: "airhorn"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler did not run")
	}
}
