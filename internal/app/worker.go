package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/UserDirectory/internal/core/ports"
	"github.com/GoArmGo/UserDirectory/internal/messaging/payloads"
	"github.com/GoArmGo/UserDirectory/internal/usecase"
)

// runWorker запускает потребителя RabbitMQ и выгружает справочник на каждое событие
func runWorker(
	ctx context.Context,
	exportUseCase usecase.ExportUseCase,
	consumer ports.UserEventConsumer,
	logger *slog.Logger,
) error {
	logger.Info("worker started, waiting for user events")

	handle := func(ctx context.Context, event payloads.UserChangedPayload) error {
		logger.Debug("processing user event", "event_id", event.EventID, "type", event.Type, "user_id", event.UserID)
		return exportUseCase.HandleUserEvent(ctx, event)
	}

	stopped, err := consumer.StartConsumingUserEvents(ctx, handle)
	if err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, worker stopped")
		return nil
	case err, ok := <-stopped:
		if ok && err != nil {
			return fmt.Errorf("потребитель RabbitMQ остановлен: %w", err)
		}
		return nil
	}
}
