package usecase

import (
	"context"

	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/GoArmGo/UserDirectory/internal/messaging/payloads"
)

// UserUseCase определяет интерфейс бизнес-логики справочника пользователей
type UserUseCase interface {
	// ListUsers возвращает всю коллекцию в порядке вставки
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser валидирует ввод и создаёт запись.
	// Ошибки: domain.ErrValidation, domain.ErrEmailTaken.
	CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error)

	// UpdateUser сливает заданные поля в запись с указанным id.
	// Ошибки: domain.ErrUserNotFound, domain.ErrValidation, domain.ErrEmailTaken.
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)

	// DeleteUser безвозвратно удаляет запись. Ошибки: domain.ErrUserNotFound.
	DeleteUser(ctx context.Context, id int64) error
}

// ExportUseCase выгружает справочник во внешнее хранилище в ответ на события
type ExportUseCase interface {
	// HandleUserEvent архивирует событие и перевыгружает снимок справочника
	HandleUserEvent(ctx context.Context, event payloads.UserChangedPayload) error
}
