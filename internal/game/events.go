package game

import (
	"time"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for the six notification kinds the engine emits.
const (
	EventTypeStateChange       EventType = "state_change"
	EventTypeTurnChange        EventType = "turn_change"
	EventTypeGameOver          EventType = "game_over"
	EventTypeActivityLog       EventType = "activity_log"
	EventTypeParticipantUpdate EventType = "participant_update"
	EventTypeDeckUpdate        EventType = "deck_update"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event represents any notification emitted by the engine
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// StateChangeEvent is published at round start and settlement
type StateChangeEvent struct {
	Status    string // Display label (Betting, Dealing, NextTurn, ...)
	Round     int
	Pot       int
	timestamp time.Time
}

func (e StateChangeEvent) EventType() EventType { return EventTypeStateChange }
func (e StateChangeEvent) Timestamp() time.Time { return e.timestamp }

// NewStateChangeEvent creates a new state change event
func NewStateChangeEvent(status string, round, pot int) StateChangeEvent {
	return StateChangeEvent{Status: status, Round: round, Pot: pot, timestamp: time.Now()}
}

// TurnChangeEvent is published when a turn starts or ends
type TurnChangeEvent struct {
	Participant *Participant
	Index       int
	Action      Action
	timestamp   time.Time
}

func (e TurnChangeEvent) EventType() EventType { return EventTypeTurnChange }
func (e TurnChangeEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnChangeEvent creates a new turn change event
func NewTurnChangeEvent(p *Participant, index int, action Action) TurnChangeEvent {
	return TurnChangeEvent{Participant: p, Index: index, Action: action, timestamp: time.Now()}
}

// GameOverEvent is published once settlement completes
type GameOverEvent struct {
	Winners   []string
	Losers    []string
	Reason    string
	timestamp time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// NewGameOverEvent creates a new game over event
func NewGameOverEvent(winners, losers []string, reason string) GameOverEvent {
	return GameOverEvent{Winners: winners, Losers: losers, Reason: reason, timestamp: time.Now()}
}

// ActivityLogEvent is published for any notable action. ParticipantID is
// empty for table-level entries.
type ActivityLogEvent struct {
	Message       string
	ParticipantID string
	timestamp     time.Time
}

func (e ActivityLogEvent) EventType() EventType { return EventTypeActivityLog }
func (e ActivityLogEvent) Timestamp() time.Time { return e.timestamp }

// NewActivityLogEvent creates a new activity log event
func NewActivityLogEvent(message, participantID string) ActivityLogEvent {
	return ActivityLogEvent{Message: message, ParticipantID: participantID, timestamp: time.Now()}
}

// ParticipantUpdateEvent is published on hand, bank or status mutation
type ParticipantUpdateEvent struct {
	Participant *Participant
	Changed     []string // Field names that changed (hand, bank, status, bet)
	timestamp   time.Time
}

func (e ParticipantUpdateEvent) EventType() EventType { return EventTypeParticipantUpdate }
func (e ParticipantUpdateEvent) Timestamp() time.Time { return e.timestamp }

// NewParticipantUpdateEvent creates a new participant update event
func NewParticipantUpdateEvent(p *Participant, changed ...string) ParticipantUpdateEvent {
	return ParticipantUpdateEvent{Participant: p, Changed: changed, timestamp: time.Now()}
}

// DeckUpdateEvent is published on shuffle, draw and reset
type DeckUpdateEvent struct {
	Remaining int
	Action    string // "reset", "draw"
	timestamp time.Time
}

func (e DeckUpdateEvent) EventType() EventType { return EventTypeDeckUpdate }
func (e DeckUpdateEvent) Timestamp() time.Time { return e.timestamp }

// NewDeckUpdateEvent creates a new deck update event
func NewDeckUpdateEvent(remaining int, action string) DeckUpdateEvent {
	return DeckUpdateEvent{Remaining: remaining, Action: action, timestamp: time.Now()}
}

// Subscriber can subscribe to engine events
type Subscriber interface {
	OnEvent(event Event)
}

// Bus manages event publishing and subscription. It is an explicitly
// constructed service passed by reference, never a package global, so tests
// can instantiate isolated instances.
type Bus interface {
	Subscribe(subscriber Subscriber)
	Unsubscribe(subscriber Subscriber)
	Publish(event Event)
}

// SimpleBus is a basic in-memory bus. Delivery is synchronous and in
// registration order.
type SimpleBus struct {
	subscribers []Subscriber
}

// NewBus creates a new event bus
func NewBus() Bus {
	return &SimpleBus{
		subscribers: make([]Subscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleBus) Subscribe(subscriber Subscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber. Detaching an automated observer before
// its deferred callback fires prevents that callback from acting.
func (bus *SimpleBus) Unsubscribe(subscriber Subscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers in registration order
func (bus *SimpleBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
