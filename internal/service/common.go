package service

import (
	"context"
	"errors"
	"math"

	"github.com/Skotchmaster/marketplace/internal/apperr"
	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/validator"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

func validateInput(in any) error {
	if err := validate.Validate(in); err != nil {
		return apperr.Validation("%s", err.Error())
	}
	return nil
}

func parseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid %s id format: %s", what, hex)
	}
	return id, nil
}

// storeErr maps a repository failure; ErrNotFound becomes a 404 with msg.
func storeErr(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperr.NotFound("%s", msg)
	}
	return apperr.Internal(err)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// publish is best effort: failures are logged and never reach the caller.
func publish(ctx context.Context, p EventPublisher, topic, key, eventType string, data any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, mykafka.NewEvent(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", eventType, "error", err)
	}
}
