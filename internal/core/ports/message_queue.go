package ports

import (
	"context"

	"github.com/GoArmGo/UserDirectory/internal/messaging/payloads"
)

// UserEventPublisher публикует события об изменениях в справочнике.
// Используется usecase после успешной мутации.
type UserEventPublisher interface {
	PublishUserEvent(ctx context.Context, payload payloads.UserChangedPayload) error
}

// UserEventConsumer определяет методы для потребления событий об изменениях,
// используется воркером экспорта
type UserEventConsumer interface {
	// StartConsumingUserEvents начинает прослушивание очереди
	// принимает функцию-обработчик, которая будет вызываться для каждого полученного сообщения.
	// Канал получает ошибку, если потребление оборвалось, и закрывается после остановки.
	StartConsumingUserEvents(ctx context.Context, handler func(context.Context, payloads.UserChangedPayload) error) (<-chan error, error)
}
