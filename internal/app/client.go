package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoArmGo/UserDirectory/internal/console"
	"github.com/GoArmGo/UserDirectory/internal/directory"
)

// ClientOptions хранит флаги клиентских режимов
type ClientOptions struct {
	Search string
	Sort   string
	Order  string
	Page   int // с единицы
	Size   int
	ID     int64
	Data   string
}

// Query переводит флаги в запрос к таблице
func (o ClientOptions) Query() (directory.Query, error) {
	q := directory.DefaultQuery()
	q.Search = o.Search

	if o.Sort != "" {
		field, err := directory.ParseSortField(o.Sort)
		if err != nil {
			return q, err
		}
		q.SortField = field
	}
	if o.Order != "" {
		dir, err := directory.ParseSortDirection(o.Order)
		if err != nil {
			return q, err
		}
		q.SortDirection = dir
	}
	if o.Page < 1 {
		return q, fmt.Errorf("page must be 1 or greater, got %d", o.Page)
	}
	q.PageIndex = o.Page - 1
	q.PageSize = o.Size
	return q, nil
}

func runClient(ctx context.Context, c *console.Console, session *directory.Session, mode string, opts ClientOptions) error {
	if c == nil || session == nil {
		return errors.New("client is not initialized")
	}

	switch mode {
	case ModeList:
		q, err := opts.Query()
		if err != nil {
			return err
		}
		session.Query = q
		return c.List(ctx)
	case ModeCreate:
		return c.Create(ctx, opts.Data)
	case ModeUpdate:
		if opts.ID <= 0 {
			return errors.New("update requires -id")
		}
		return c.Update(ctx, opts.ID, opts.Data)
	case ModeDelete:
		if opts.ID <= 0 {
			return errors.New("delete requires -id")
		}
		return c.Delete(ctx, opts.ID)
	}
	return fmt.Errorf("unknown client mode %q", mode)
}
