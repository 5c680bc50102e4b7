package userapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/GoArmGo/UserDirectory/internal/domain"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// APIError — ответ сервера с кодом вне 2xx.
// Сопоставляется с доменными ошибками через errors.Is / errors.As.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("user API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("user API returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch {
	case errors.Is(target, domain.ErrUserNotFound):
		return e.StatusCode == http.StatusNotFound
	case errors.Is(target, domain.ErrEmailTaken):
		return e.StatusCode == http.StatusBadRequest && e.Message == domain.ErrEmailTaken.Error()
	case errors.Is(target, domain.ErrValidation):
		return e.isValidation()
	}
	return false
}

// As отдаёт серверные ошибки полей как *domain.ValidationError
func (e *APIError) As(target any) bool {
	ve, ok := target.(**domain.ValidationError)
	if !ok || !e.isValidation() {
		return false
	}
	*ve = &domain.ValidationError{Fields: e.Fields}
	return true
}

func (e *APIError) isValidation() bool {
	return e.StatusCode == http.StatusBadRequest && e.Message == domain.ErrValidation.Error() && len(e.Fields) > 0
}
