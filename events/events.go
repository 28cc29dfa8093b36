package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePlayerEntered      EventType = "player_entered"
	EventTypeWinnerSelected     EventType = "winner_selected"
	EventTypeTicketPriceUpdated EventType = "ticket_price_updated"
	EventTypeAccountCreated     EventType = "account_created"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PlayerEnteredEvent represents a ticket purchase that entered the round
type PlayerEnteredEvent struct {
	DiscordID  int64
	PaidAmount int64
	RoundID    int64
	PoolAfter  int64
}

func (e PlayerEnteredEvent) Type() EventType {
	return EventTypePlayerEntered
}

// WinnerSelectedEvent represents a completed draw
type WinnerSelectedEvent struct {
	WinnerDiscordID int64
	Prize           int64
	RoundID         int64
	EntrantCount    int
}

func (e WinnerSelectedEvent) Type() EventType {
	return EventTypeWinnerSelected
}

// TicketPriceUpdatedEvent represents a ticket price change by the owner
type TicketPriceUpdatedEvent struct {
	OldPrice int64
	NewPrice int64
}

func (e TicketPriceUpdatedEvent) Type() EventType {
	return EventTypeTicketPriceUpdated
}

// AccountCreatedEvent represents a new account creation
type AccountCreatedEvent struct {
	DiscordID      int64
	Username       string
	InitialBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking; delivery is
	// fire-and-forget and no acknowledgment is expected
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events to main event bus")

	// Use a background context so event delivery survives the transaction
	// context's lifetime
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events, called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
