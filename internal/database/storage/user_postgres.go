package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/UserDirectory/internal/domain"
	"gorm.io/gorm"
)

// UserStorage реализует интерфейс ports.UserStorage с использованием GORM
type UserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserStorage создает новый экземпляр UserStorage
func NewUserStorage(db *gorm.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// ListUsers возвращает всех пользователей в порядке вставки
func (s *UserStorage) ListUsers(ctx context.Context) ([]domain.User, error) {
	start := time.Now()

	users := make([]domain.User, 0)
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("list users: %w", translate(err))
	}

	s.logger.Debug("users listed",
		"count", len(users),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, nil
}

// GetUser получает пользователя по id
func (s *UserStorage) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, translate(err))
	}
	return &user, nil
}

// CreateUser вставляет новую запись; id и метки времени выставляет GORM
func (s *UserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	start := time.Now()

	user.ID = 0
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		err = translate(err)
		if !errors.Is(err, domain.ErrEmailTaken) {
			s.logger.Error("failed to insert user", "email", user.Email, "error", err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// UpdateUser читает запись, применяет mutate и сохраняет её в одной транзакции.
// Save обновляет UpdatedAt; CreatedAt и ID не трогаем.
func (s *UserStorage) UpdateUser(ctx context.Context, id int64, mutate func(*domain.User) error) (*domain.User, error) {
	start := time.Now()

	var updated domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		createdAt := updated.CreatedAt
		if err := mutate(&updated); err != nil {
			return err
		}
		updated.ID = id
		updated.CreatedAt = createdAt

		return translate(tx.Save(&updated).Error)
	})
	if err != nil {
		if !isExpected(err) {
			s.logger.Error("failed to update user", "user_id", id, "error", err)
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	s.logger.Info("user updated",
		"user_id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &updated, nil
}

// DeleteUser удаляет запись безвозвратно
func (s *UserStorage) DeleteUser(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if result.Error != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", result.Error)
		return fmt.Errorf("delete user %d: %w", id, translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete user %d: %w", id, domain.ErrUserNotFound)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrEmailTaken) ||
		errors.Is(err, domain.ErrValidation)
}
