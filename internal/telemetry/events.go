package telemetry

import (
	"context"
	"log"
	"time"

	"room-service/internal/observability"
)

// Routing keys for room events.
const (
	RouteParticipantJoined  = "presence.joined"
	RouteParticipantEvicted = "presence.evicted"
	RouteMessagePosted      = "messages.posted"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// EventEmitter publishes room lifecycle events to the configured exchange.
type EventEmitter struct {
	publisher   Publisher
	service     string
	environment string
}

type EventEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	OccurredAt    string       `json:"occurred_at"`
	Service       string       `json:"service"`
	Environment   string       `json:"environment"`
	RequestID     string       `json:"request_id"`
	Payload       EventPayload `json:"payload"`
}

type EventPayload struct {
	Participant string `json:"participant,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	MessageType string `json:"message_type,omitempty"`
}

func NewEventEmitter(publisher Publisher, service, environment string) *EventEmitter {
	return &EventEmitter{
		publisher:   publisher,
		service:     service,
		environment: environment,
	}
}

// Emit publishes a single event; failures are counted and logged, never
// surfaced to the caller.
func (e *EventEmitter) Emit(ctx context.Context, routingKey, eventType, requestID string, payload EventPayload) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := EventEnvelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		Payload:       payload,
	}

	if err := e.publisher.Publish(ctx, routingKey, envelope); err != nil {
		observability.IncAMQPPublishError()
		log.Printf("event publish failed: %v", err)
	}
}
