package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUserNotFound — записи с таким id нет.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken — нарушение уникальности email.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrValidation — общий маркер ошибок валидации, см. ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError несёт сообщения об ошибках по именам полей (как в JSON).
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError создаёт ошибку для одного поля.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// FieldErrors извлекает сообщения по полям из цепочки ошибок.
// Для ErrEmailTaken возвращает сообщение на поле email.
func FieldErrors(err error) (map[string]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	if errors.Is(err, ErrEmailTaken) {
		return map[string]string{"email": "is already taken"}, true
	}
	return nil, false
}
