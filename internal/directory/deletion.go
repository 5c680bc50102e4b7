package directory

import (
	"context"
	"errors"
)

// ErrNothingStaged возвращается из Confirm без предварительного Stage
var ErrNothingStaged = errors.New("no user staged for deletion")

// DeletionGuard реализует двухшаговое удаление: Stage только запоминает id,
// удаление происходит лишь при Confirm.
type DeletionGuard struct {
	staged *int64
}

func (g *DeletionGuard) Stage(id int64) {
	g.staged = &id
}

// Staged возвращает отмеченный id, если он есть
func (g *DeletionGuard) Staged() (int64, bool) {
	if g.staged == nil {
		return 0, false
	}
	return *g.staged, true
}

// Cancel снимает отметку без побочных эффектов
func (g *DeletionGuard) Cancel() {
	g.staged = nil
}

// Confirm удаляет отмеченную запись и снимает отметку.
// При ошибке отметка тоже снимается, повтор требует нового Stage.
func (g *DeletionGuard) Confirm(ctx context.Context, deleteFn func(ctx context.Context, id int64) error) (int64, error) {
	if g.staged == nil {
		return 0, ErrNothingStaged
	}
	id := *g.staged
	g.staged = nil
	return id, deleteFn(ctx, id)
}
