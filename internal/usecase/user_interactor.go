package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/UserDirectory/internal/core/ports"
	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/GoArmGo/UserDirectory/internal/messaging/payloads"
	"github.com/GoArmGo/UserDirectory/internal/validation"
	"github.com/google/uuid"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	userStorage ports.UserStorage
	publisher   ports.UserEventPublisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(
	userStorage ports.UserStorage,
	publisher ports.UserEventPublisher,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		userStorage: userStorage,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *userUseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := uc.userStorage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: list users: %w", err)
	}
	return users, nil
}

func (uc *userUseCase) CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	input.Normalize()
	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	user, err := input.ToUser()
	if err != nil {
		return nil, err
	}

	if err := uc.userStorage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: create user: %w", err)
	}

	uc.publish(ctx, payloads.EventUserCreated, user.ID, user)
	return user, nil
}

func (uc *userUseCase) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	patch.Normalize()
	if err := validation.Validate(patch); err != nil {
		return nil, err
	}

	user, err := uc.userStorage.UpdateUser(ctx, id, patch.Apply)
	if err != nil {
		return nil, fmt.Errorf("usecase: update user: %w", err)
	}

	uc.publish(ctx, payloads.EventUserUpdated, user.ID, user)
	return user, nil
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id int64) error {
	if err := uc.userStorage.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("usecase: delete user: %w", err)
	}

	uc.publish(ctx, payloads.EventUserDeleted, id, nil)
	return nil
}

// publish отправляет событие после успешной мутации.
// Запись уже сохранена, поэтому ошибка брокера только логируется.
func (uc *userUseCase) publish(ctx context.Context, typ payloads.EventType, userID int64, user *domain.User) {
	event := payloads.UserChangedPayload{
		EventID:    uuid.New(),
		Type:       typ,
		UserID:     userID,
		OccurredAt: uc.now().UTC(),
		User:       user,
	}
	if err := uc.publisher.PublishUserEvent(ctx, event); err != nil {
		uc.logger.Warn("failed to publish user event",
			"event_id", event.EventID,
			"type", typ,
			"user_id", userID,
			"error", err,
		)
	}
}
