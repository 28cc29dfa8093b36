package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypePlayerEntered, func(ctx context.Context, event Event) {
		received <- event
	})

	bus.Emit(context.Background(), PlayerEnteredEvent{DiscordID: 111, PaidAmount: 100, RoundID: 1, PoolAfter: 100})

	select {
	case event := <-received:
		entered, ok := event.(PlayerEnteredEvent)
		require.True(t, ok)
		assert.Equal(t, int64(111), entered.DiscordID)
		assert.Equal(t, int64(100), entered.PaidAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestBus_EmitOnlyMatchingType(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypeWinnerSelected, func(ctx context.Context, event Event) {
		received <- event
	})

	bus.Emit(context.Background(), TicketPriceUpdatedEvent{OldPrice: 100, NewPrice: 200})

	select {
	case <-received:
		t.Fatal("handler received an event of a different type")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	bus := NewBus()
	received := make(chan struct{}, 1)

	bus.Subscribe(EventTypeWinnerSelected, func(ctx context.Context, event Event) {
		panic("handler failure")
	})
	bus.Subscribe(EventTypeWinnerSelected, func(ctx context.Context, event Event) {
		received <- struct{}{}
	})

	bus.Emit(context.Background(), WinnerSelectedEvent{WinnerDiscordID: 111, Prize: 300, RoundID: 1})

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler was not invoked after first panicked")
	}
}

func TestTransactionalBus_FlushDeliversPending(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 2)

	bus.Subscribe(EventTypePlayerEntered, func(ctx context.Context, event Event) {
		received <- event
	})

	txBus := NewTransactionalBus(bus)
	txBus.Publish(PlayerEnteredEvent{DiscordID: 111, RoundID: 1})
	txBus.Publish(PlayerEnteredEvent{DiscordID: 222, RoundID: 1})

	// Nothing delivered before flush
	select {
	case <-received:
		t.Fatal("event delivered before flush")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, txBus.Flush(context.Background()))

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 2 flushed events, got %d", i)
		}
	}
}

func TestTransactionalBus_DiscardDropsPending(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 1)

	bus.Subscribe(EventTypePlayerEntered, func(ctx context.Context, event Event) {
		received <- event
	})

	txBus := NewTransactionalBus(bus)
	txBus.Publish(PlayerEnteredEvent{DiscordID: 111, RoundID: 1})
	txBus.Discard()

	require.NoError(t, txBus.Flush(context.Background()))

	select {
	case <-received:
		t.Fatal("discarded event was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}
