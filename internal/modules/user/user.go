package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account on the platform. Store-level capabilities come
// from the role assigned per store membership; IsPlatformAdmin is the
// explicit flag for the administration layer above all stores.
type User struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	IsPlatformAdmin bool      `json:"is_platform_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
