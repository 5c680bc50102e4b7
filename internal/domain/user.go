// internal/domain/user.go
package domain

import (
	"time"
)

// Role — роль пользователя в справочнике.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid сообщает, является ли значение одной из известных ролей.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User представляет запись справочника пользователей.
// Соответствует таблице 'users' в базе данных.
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FullName  string    `json:"fullName" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Phone     string    `json:"phone" gorm:"size:20;not null"`
	BirthDate *Date     `json:"birthDate,omitempty" gorm:"type:date"`
	Role      Role      `json:"role" gorm:"size:16;not null"`
	Position  *string   `json:"position,omitempty" gorm:"size:255"`
	IsActive  bool      `json:"isActive" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
