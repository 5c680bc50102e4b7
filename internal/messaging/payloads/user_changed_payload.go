package payloads

import (
	"time"

	"github.com/GoArmGo/UserDirectory/internal/domain"
	"github.com/google/uuid"
)

// EventType: вид изменения записи.
type EventType string

const (
	EventUserCreated EventType = "user.created"
	EventUserUpdated EventType = "user.updated"
	EventUserDeleted EventType = "user.deleted"
)

// UserChangedPayload — сообщение в очереди RabbitMQ об изменении записи.
// User пуст для удаления.
type UserChangedPayload struct {
	EventID    uuid.UUID    `json:"eventId"`
	Type       EventType    `json:"type"`
	UserID     int64        `json:"userId"`
	OccurredAt time.Time    `json:"occurredAt"`
	User       *domain.User `json:"user,omitempty"`
}
