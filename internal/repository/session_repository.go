package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"metarelay/api/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, token, user_agent, ip_address, expires_at, created_at`

// Create inserts a new session row. Sessions are never updated in place:
// every signup or login adds a row, leaving other devices untouched.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	const query = `
		INSERT INTO sessions (
			id, user_id, token, user_agent, ip_address, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at
	`

	row := r.db.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
	)
	return row.Scan(&session.CreatedAt)
}

// FindByToken is a point lookup by the opaque token value, the sole lookup
// key for renewal. The expiry check stays with the caller.
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE token = $1`

	var session models.Session
	if err := r.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

// DeleteAllForUser removes every session owned by the user and reports how
// many were revoked.
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	const query = `DELETE FROM sessions WHERE user_id = $1`

	cmd, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// DeleteExpired collects sessions whose expiry is past. Run by the reaper,
// never by the refresh flow itself.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < $1`

	cmd, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *SessionRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM sessions WHERE user_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
