package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/GoArmGo/UserDirectory/internal/database/testdb"
	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/GoArmGo/UserDirectory/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStorage(t *testing.T) (*UserStorage, *gorm.DB) {
	t.Helper()
	db := testdb.New(t)
	return NewUserStorage(db, logger.Discard()), db
}

func newUser(name, email string) *domain.User {
	return &domain.User{
		FullName: name,
		Email:    email,
		Phone:    "+1 555 0100",
		Role:     domain.RoleUser,
		IsActive: true,
	}
}

func TestUserStorage_CreateAndList(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	birth := domain.NewDate(1990, 1, 2)
	position := "Engineer"
	u := newUser("Ann", "ann@example.com")
	u.BirthDate = &birth
	u.Position = &position

	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.False(t, u.UpdatedAt.Before(u.CreatedAt))

	require.NoError(t, s.CreateUser(ctx, newUser("Bob", "bob@example.com")))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ann", users[0].FullName, "list keeps insertion order")
	assert.Equal(t, "Bob", users[1].FullName)
	require.NotNil(t, users[0].BirthDate)
	assert.Equal(t, "1990-01-02", users[0].BirthDate.String())
	require.NotNil(t, users[0].Position)
	assert.Equal(t, "Engineer", *users[0].Position)
	assert.Nil(t, users[1].BirthDate)
	assert.Nil(t, users[1].Position)
}

func TestUserStorage_ListEmpty(t *testing.T) {
	s, _ := newTestStorage(t)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestUserStorage_CreateKeepsInactiveFlag(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	u := newUser("Ann", "ann@example.com")
	u.IsActive = false
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUserStorage_CreateDuplicateEmail(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("Ann", "dup@example.com")))

	err := s.CreateUser(ctx, newUser("Another Ann", "dup@example.com"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "failed insert leaves the table unchanged")
}

func TestUserStorage_GetMissing(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserStorage_Update(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	u := newUser("Ann", "ann@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	updated, err := s.UpdateUser(ctx, u.ID, func(rec *domain.User) error {
		rec.FullName = "Ann Smith"
		rec.Role = domain.RoleAdmin
		rec.ID = 999
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, u.ID, updated.ID, "id is immutable")
	assert.Equal(t, "Ann Smith", updated.FullName)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "ann@example.com", updated.Email)
	assert.True(t, updated.CreatedAt.Equal(u.CreatedAt), "createdAt is immutable")
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Smith", got.FullName)
}

func TestUserStorage_UpdateMissing(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("Ann", "ann@example.com")))

	called := false
	_, err := s.UpdateUser(ctx, 12345, func(*domain.User) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.False(t, called)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ann", users[0].FullName)
}

func TestUserStorage_UpdateRollsBackOnMutateError(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	u := newUser("Ann", "ann@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	boom := errors.New("boom")
	_, err := s.UpdateUser(ctx, u.ID, func(rec *domain.User) error {
		rec.FullName = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FullName)
}

func TestUserStorage_UpdateDuplicateEmail(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("Ann", "ann@example.com")))
	bob := newUser("Bob", "bob@example.com")
	require.NoError(t, s.CreateUser(ctx, bob))

	_, err := s.UpdateUser(ctx, bob.ID, func(rec *domain.User) error {
		rec.Email = "ann@example.com"
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	got, err := s.GetUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", got.Email)
}

func TestUserStorage_Delete(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	u := newUser("Ann", "ann@example.com")
	require.NoError(t, s.CreateUser(ctx, u))

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	_, err := s.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// повторное удаление возвращает not found
	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), domain.ErrUserNotFound)
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), domain.ErrUserNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), domain.ErrEmailTaken)
	assert.ErrorIs(t, translate(fmt.Errorf("exec: UNIQUE constraint failed: users.email")), domain.ErrEmailTaken)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other))
}
