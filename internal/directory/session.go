package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/GoArmGo/UserDirectory/internal/validation"
)

// API перечисляет операции сервера, которыми пользуется клиент
type API interface {
	Fetcher
	CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Session хранит состояние одного клиента: кэш снимка, текущий запрос к таблице
// и отмеченная к удалению запись.
type Session struct {
	Query Query

	api    API
	cache  *SnapshotCache
	delete DeletionGuard
}

func NewSession(api API) *Session {
	return &Session{
		Query: DefaultQuery(),
		api:   api,
		cache: NewSnapshotCache(api),
	}
}

// Rows возвращает текущую страницу таблицы
func (s *Session) Rows(ctx context.Context) (Page, error) {
	users, err := s.cache.Get(ctx)
	if err != nil {
		return Page{}, err
	}
	return Derive(users, s.Query), nil
}

// Create проверяет форму на клиенте и только потом отправляет её на сервер.
func (s *Session) Create(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	input.Normalize()
	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.api.CreateUser(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.cache.Invalidate()
	return user, nil
}

// Update проверяет и отправляет изменения записи id.
func (s *Session) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	patch.Normalize()
	if err := validation.Validate(patch); err != nil {
		return nil, err
	}

	user, err := s.api.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	s.cache.Invalidate()
	return user, nil
}

// RequestDelete отмечает запись к удалению, ничего не отправляя на сервер.
func (s *Session) RequestDelete(id int64) {
	s.delete.Stage(id)
}

// PendingDelete возвращает отмеченный id
func (s *Session) PendingDelete() (int64, bool) {
	return s.delete.Staged()
}

func (s *Session) CancelDelete() {
	s.delete.Cancel()
}

// ConfirmDelete удаляет отмеченную запись.
func (s *Session) ConfirmDelete(ctx context.Context) (int64, error) {
	id, err := s.delete.Confirm(ctx, s.api.DeleteUser)
	if err != nil {
		if errors.Is(err, ErrNothingStaged) {
			return 0, err
		}
		return id, fmt.Errorf("delete user %d: %w", id, err)
	}
	s.cache.Invalidate()
	return id, nil
}
