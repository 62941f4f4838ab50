// internal/core/domain/user.go
package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's access level
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleQAWorker Role = "qa-worker"
	RoleWorker   Role = "worker"
)

// User represents an employee account
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate performs domain validation on the user
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	switch u.Role {
	case RoleAdmin, RoleQAWorker, RoleWorker:
	case "":
		u.Role = RoleWorker
	default:
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return nil
}

// PrepareForStorage prepares the user for database storage
func (u *User) PrepareForStorage() {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}
