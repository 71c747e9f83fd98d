package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User represents the users table. User management proper lives outside the
// messaging core; this carries identity plus the display fields denormalized
// into push frames.
type User struct {
	ID           uuid.UUID
	Username     string
	DisplayName  string
	AvatarURL    sql.NullString
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserDisplay is the subset of user data attached to messages and
// notifications pushed to clients.
type UserDisplay struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsOnline    bool      `json:"is_online"`
}
