package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGameCreated EventType = "game_created"
	EventTypeGameStarted EventType = "game_started"
	EventTypeGameEnded   EventType = "game_ended"
	EventTypeGameDeleted EventType = "game_deleted"
	EventTypeTierChange  EventType = "tier_change"
	EventTypeBetSettled  EventType = "bet_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GameCreatedEvent fires when a new game opens for joining.
type GameCreatedEvent struct {
	GameID     string
	GuildID    int64
	ModeName   string
	RoleLockID *int64
}

func (e GameCreatedEvent) Type() EventType { return EventTypeGameCreated }

// GameStartedEvent fires when a roster fills and the game begins. The bot
// layer provisions the game channel in response.
type GameStartedEvent struct {
	GameID    string
	GuildID   int64
	ModeName  string
	PlayerIDs []int64
	Modifiers []string
}

func (e GameStartedEvent) Type() EventType { return EventTypeGameStarted }

// GameEndedEvent fires when a decisive result is recorded.
type GameEndedEvent struct {
	GameID     string
	GuildID    int64
	ModeName   string
	WinnerTeam int
	WinnerIDs  []int64
	ChannelID  *int64
}

func (e GameEndedEvent) Type() EventType { return EventTypeGameEnded }

// GameDeletedEvent fires when an admin removes a game. The bot layer tears
// down any provisioned channel.
type GameDeletedEvent struct {
	GameID    string
	GuildID   int64
	ChannelID *int64
}

func (e GameDeletedEvent) Type() EventType { return EventTypeGameDeleted }

// TierChangeEvent fires when a player's point total moves them between
// tiers. The bot layer swaps tier roles in response.
type TierChangeEvent struct {
	DiscordID int64
	GuildID   int64
	OldTier   int
	NewTier   int
}

func (e TierChangeEvent) Type() EventType { return EventTypeTierChange }

// BetSettledEvent fires once per settled bet on game resolution.
type BetSettledEvent struct {
	BetID     int64
	GameID    string
	DiscordID int64
	Amount    int64
	Won       bool
	Payout    int64
}

func (e BetSettledEvent) Type() EventType { return EventTypeBetSettled }

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
}

// Emit publishes an event to all registered handlers. Handlers run on
// their own goroutines so a slow Discord call cannot block the caller.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and
// forwards them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit. Events are emitted on a
// background context since the transaction context may already be done.
func (b *TransactionalBus) Flush() {
	ctx := context.Background()
	for _, e := range b.pending {
		b.real.Emit(ctx, e)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
