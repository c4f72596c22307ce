package game

import (
	"time"

	"github.com/mjamili/ronda/internal/deck"
)

// EventType represents a game event type
type EventType string

const (
	EventTypeDeal       EventType = "deal"
	EventTypeCardPlayed EventType = "card_played"
	EventTypeBonus      EventType = "bonus"
	EventTypeRoundEnd   EventType = "round_end"
	EventTypeGameEnd    EventType = "game_end"
	EventTypeTick       EventType = "tick"
)

// Event is any notification published by the engine. Subscribers must
// not block; delivery is synchronous on the transition that caused it.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// DealEvent is published after each deal or mid-round re-deal
type DealEvent struct {
	RoundNumber int
	Redeal      bool
	timestamp   time.Time
}

func (e DealEvent) EventType() EventType { return EventTypeDeal }
func (e DealEvent) Timestamp() time.Time { return e.timestamp }

// CardPlayedEvent is published after every accepted move
type CardPlayedEvent struct {
	Seat      Seat
	Card      deck.Card
	Captured  []deck.Card
	Placement bool
	timestamp time.Time
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }
func (e CardPlayedEvent) Timestamp() time.Time { return e.timestamp }

// BonusEvent is published when a bonus is scored
type BonusEvent struct {
	Announcement Announcement
	timestamp    time.Time
}

func (e BonusEvent) EventType() EventType { return EventTypeBonus }
func (e BonusEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published when a round is tallied
type RoundEndEvent struct {
	RoundNumber int
	RoundScores [2]int
	CardCounts  [2]int
	timestamp   time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// GameEndEvent carries the final result
type GameEndEvent struct {
	Result    Result
	timestamp time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }

// TickEvent is published by timer-driven transitions that change only
// display state (announcement expiry), so the UI re-renders.
type TickEvent struct {
	timestamp time.Time
}

func (e TickEvent) EventType() EventType { return EventTypeTick }
func (e TickEvent) Timestamp() time.Time { return e.timestamp }

// Subscriber receives engine events
type Subscriber interface {
	OnEvent(event Event)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber Subscriber)
	Unsubscribe(subscriber Subscriber)
	Publish(event Event)
}

type simpleEventBus struct {
	subscribers []Subscriber
}

// NewEventBus creates a basic in-memory event bus
func NewEventBus() EventBus {
	return &simpleEventBus{subscribers: make([]Subscriber, 0)}
}

func (bus *simpleEventBus) Subscribe(subscriber Subscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

func (bus *simpleEventBus) Unsubscribe(subscriber Subscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

func (bus *simpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
