package service

import (
	"context"
	"log/slog"
	"time"

	"matchai-service/event"
	"matchai-service/model"
)

const publishTimeout = 5 * time.Second

// publish emits a domain event without tying it to the request lifetime.
// Failures are logged; the state change already happened.
func publish(ctx context.Context, events event.Publisher, action string, payload any) {
	if events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := events.Emit(ctx, action, payload); err != nil {
		slog.Warn("event not published", "action", action, "error", err)
	}
}

func internal(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*model.Error); ok {
		return err
	}
	return model.NewInternalError(err)
}

func now() time.Time {
	return time.Now().UTC()
}
