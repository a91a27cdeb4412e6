package mykafka

import (
	"time"

	"github.com/google/uuid"
)

const (
	TopicProduct = "product_events"
	TopicOrder   = "order_events"
	TopicUser    = "user_events"
)

const (
	ProductCreated     = "product_created"
	ProductDeleted     = "product_deleted"
	ProductReviewed    = "product_reviewed"
	OrderCreated       = "order_created"
	OrderStatusUpdated = "order_status_updated"
	UserRegistered     = "user_registered"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

func NewEvent(eventType string, data any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
