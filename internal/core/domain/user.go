package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole determines which API surface a user may call.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleTeacher UserRole = "TEACHER"
	RoleAdmin   UserRole = "ADMIN"
)

// User represents a platform account (student, teacher or admin).
type User struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin returns true for administrator accounts.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
