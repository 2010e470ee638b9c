package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an agent or admin operating the console. Agents receive bot
// hand-offs; admins additionally manage flows and other users.
type User struct {
	Id           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
