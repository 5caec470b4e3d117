package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metarelay/api/internal/models"
)

func newUserMock(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("inserts and backfills timestamps", func(t *testing.T) {
		mock, repo := newUserMock(t)

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("u1", "Alice", "a@example.com", "digest", models.PlanFree, false, "vt-1", (*string)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		user := models.User{
			ID:           "u1",
			FullName:     "Alice",
			Email:        "a@example.com",
			PasswordHash: "digest",
			Plan:         models.PlanFree,
			VerifyToken:  "vt-1",
		}
		require.NoError(t, repo.Create(context.Background(), &user))
		assert.Equal(t, now, user.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation surfaces as ErrEmailTaken", func(t *testing.T) {
		mock, repo := newUserMock(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		user := models.User{ID: "u2", FullName: "Bob", Email: "a@example.com", PasswordHash: "digest", Plan: models.PlanFree, VerifyToken: "vt-2"}
		err := repo.Create(context.Background(), &user)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		mock, repo := newUserMock(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection refused"))

		user := models.User{ID: "u3", FullName: "Cara", Email: "c@example.com", PasswordHash: "digest", Plan: models.PlanFree, VerifyToken: "vt-3"}
		err := repo.Create(context.Background(), &user)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmailTaken)
	})
}

func userRows(user models.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "full_name", "email", "password_hash", "plan", "is_verified", "verify_token", "avatar_url", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.FullName, user.Email, user.PasswordHash, user.Plan, user.IsVerified, user.VerifyToken, user.AvatarURL, user.CreatedAt, user.UpdatedAt,
	)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	t.Run("returns the user", func(t *testing.T) {
		mock, repo := newUserMock(t)

		want := models.User{ID: "u1", FullName: "Alice", Email: "a@example.com", PasswordHash: "digest", Plan: models.PlanFree, VerifyToken: "vt-1"}
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
			WithArgs("a@example.com").
			WillReturnRows(userRows(want))

		got, err := repo.FindByEmail(context.Background(), "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.PasswordHash, got.PasswordHash)
	})

	t.Run("no rows maps to ErrUserNotFound", func(t *testing.T) {
		mock, repo := newUserMock(t)

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
			WithArgs("missing@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByEmail(context.Background(), "missing@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserRepository_List(t *testing.T) {
	mock, repo := newUserMock(t)

	rows := pgxmock.NewRows([]string{
		"id", "full_name", "email", "password_hash", "plan", "is_verified", "verify_token", "avatar_url", "created_at", "updated_at",
	}).
		AddRow("u1", "Alice", "a@example.com", "h1", models.PlanFree, false, "vt-1", (*string)(nil), time.Now(), time.Now()).
		AddRow("u2", "Bob", "b@example.com", "h2", models.PlanFree, true, "vt-2", (*string)(nil), time.Now(), time.Now())

	mock.ExpectQuery(`SELECT .+ FROM users ORDER BY created_at`).
		WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "b@example.com", users[1].Email)
}
