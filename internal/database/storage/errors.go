package storage

import (
	"errors"
	"strings"

	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SQLSTATE unique_violation
const pgUniqueViolation = "23505"

// translate переводит ошибки GORM и драйверов в доменные.
// Уникальный индекс в таблице один, по email.
func translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrEmailTaken
	}

	// lib/pq: GORM не переводит его ошибки сам, так как postgres-диалект знает только pgx
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return domain.ErrEmailTaken
	}

	// sqlite3 без TranslateError
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrEmailTaken
	}

	return err
}
