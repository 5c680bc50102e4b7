package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/UserDirectory/internal/domain"
)

// UserStorage определяет методы для взаимодействия с хранилищем пользователей.
// Отсутствующая запись сообщается через domain.ErrUserNotFound,
// конфликт email через domain.ErrEmailTaken.
type UserStorage interface {
	// ListUsers возвращает все записи в порядке вставки (по id)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// CreateUser вставляет запись и заполняет ID, CreatedAt, UpdatedAt
	CreateUser(ctx context.Context, user *domain.User) error
	// UpdateUser читает запись, применяет mutate и сохраняет результат в одной транзакции.
	// Ошибка mutate откатывает транзакцию и возвращается как есть.
	UpdateUser(ctx context.Context, id int64, mutate func(*domain.User) error) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает объект и возвращает его URL
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}
