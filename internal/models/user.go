package models

import "time"

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// User is the identity record. PasswordHash and VerifyToken are never
// serialized into responses.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Plan         Plan      `json:"plan"`
	IsVerified   bool      `json:"is_verified"`
	VerifyToken  string    `json:"-"`
	AvatarURL    *string   `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session binds a refresh token to its owning user. Rows are insert-only:
// renewal never mutates a session, logout deletes them wholesale.
type Session struct {
	ID        string
	UserID    string
	Token     string
	UserAgent *string
	IPAddress *string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is past its expiry at the given
// instant. Expired rows stay in place until the reaper collects them.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
