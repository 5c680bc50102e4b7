package rabbitmq

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/UserDirectory/internal/messaging/payloads"
)

// NopPublisher используется, когда RABBITMQ_URL не задан: события только пишутся в лог.
type NopPublisher struct {
	logger *slog.Logger
}

func NewNopPublisher(logger *slog.Logger) *NopPublisher {
	return &NopPublisher{logger: logger}
}

func (p *NopPublisher) PublishUserEvent(ctx context.Context, payload payloads.UserChangedPayload) error {
	p.logger.Debug("user event dropped, broker not configured", "event_id", payload.EventID, "type", payload.Type)
	return nil
}
