// Package events publishes domain events about group activity.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	TypeExpenseCreated     = "expense.created"
	TypeSettlementRecorded = "settlement.recorded"
)

// Event is a notification that something happened in a group.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	GroupID    string          `json:"group_id"`
	ActorID    string          `json:"actor_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// New builds an event with a fresh ID and payload encoded as JSON.
func New(eventType, groupID, actorID string, payload any) (Event, error) {
	evt := Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		GroupID:    groupID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		evt.Payload = raw
	}
	return evt, nil
}

// ExpenseCreated is the payload of TypeExpenseCreated.
type ExpenseCreated struct {
	ExpenseID string `json:"expense_id"`
	PaidBy    string `json:"paid_by"`
	Amount    string `json:"amount"`
	SplitType string `json:"split_type"`
}

// SettlementRecorded is the payload of TypeSettlementRecorded.
type SettlementRecorded struct {
	SettlementID string `json:"settlement_id"`
	FromUserID   string `json:"from_user_id"`
	ToUserID     string `json:"to_user_id"`
	Amount       string `json:"amount"`
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Emit builds and publishes an event, logging failures instead of returning
// them. Event delivery never fails the operation that triggered it.
func Emit(ctx context.Context, pub Publisher, logger *slog.Logger, eventType, groupID, actorID string, payload any) {
	if pub == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	evt, err := New(eventType, groupID, actorID, payload)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build event", "type", eventType, "group_id", groupID, "error", err)
		return
	}
	if err := pub.Publish(ctx, evt); err != nil {
		logger.WarnContext(ctx, "Failed to publish event",
			"type", eventType,
			"event_id", evt.ID,
			"group_id", groupID,
			"error", err,
		)
	}
}
