package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/GoArmGo/UserDirectory/internal/domain"
)

// Fetcher загружает всю коллекцию с сервера
type Fetcher interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// SnapshotCache хранит последний загруженный снимок коллекции.
// После успешной мутации его нужно сбросить через Invalidate.
type SnapshotCache struct {
	fetcher Fetcher

	mu    sync.RWMutex
	users []domain.User
	valid bool
}

func NewSnapshotCache(fetcher Fetcher) *SnapshotCache {
	return &SnapshotCache{fetcher: fetcher}
}

// Get отдаёт снимок, загружая его при первом обращении или после Invalidate.
// Неудачная загрузка не кэшируется.
func (c *SnapshotCache) Get(ctx context.Context) ([]domain.User, error) {
	c.mu.RLock()
	if c.valid {
		users := c.users
		c.mu.RUnlock()
		return users, nil
	}
	c.mu.RUnlock()

	users, err := c.fetcher.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}

	c.mu.Lock()
	c.users = users
	c.valid = true
	c.mu.Unlock()
	return users, nil
}

// Invalidate сбрасывает снимок; следующий Get снова сходит на сервер.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.users = nil
	c.valid = false
	c.mu.Unlock()
}
