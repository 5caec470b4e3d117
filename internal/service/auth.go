// Package service holds the authentication flows: signup, login, logout and
// access-token refresh. Each flow is an ordered sequence of hash/issue/store
// steps; the user row is always persisted before its first session so an
// abandoned request can never leave a session without an owner.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"metarelay/api/internal/apperr"
	"metarelay/api/internal/ids"
	"metarelay/api/internal/models"
	"metarelay/api/internal/repository"
	"metarelay/api/internal/security"
)

// UserStore is the slice of the user repository the flows depend on.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

// SessionStore persists refresh-token sessions.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindByToken(ctx context.Context, token string) (models.Session, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// TokenIssuer mints and verifies access credentials.
type TokenIssuer interface {
	IssueAccess(userID string) (string, error)
	VerifyAccess(token string) (string, error)
}

type AuthService struct {
	users      UserStore
	sessions   SessionStore
	issuer     TokenIssuer
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	issuer TokenIssuer,
	refreshTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

type SignupInput struct {
	FullName  string
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// AuthResult carries the created or authenticated user plus both
// credential artifacts for the transport to set on its session carrier.
type AuthResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
}

// NormalizeEmail folds the address to lower case. The same fold is applied
// on signup and login so the unique index sees one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	if input.FullName == "" || input.Email == "" || input.Password == "" {
		return AuthResult{}, apperr.New(apperr.KindValidation, "Missing required fields.")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, apperr.Wrap(apperr.KindUnexpected, "Failed to sign up user.", err)
	}

	user := models.User{
		ID:           ids.New(),
		FullName:     input.FullName,
		Email:        NormalizeEmail(input.Email),
		PasswordHash: passwordHash,
		Plan:         models.PlanFree,
		IsVerified:   false,
		VerifyToken:  uuid.NewString(),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return AuthResult{}, apperr.Wrap(apperr.KindConflict, "User already exists.", err)
		}
		return AuthResult{}, storeErr("create user", err)
	}

	result, err := s.openSession(ctx, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user signed up")
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, apperr.New(apperr.KindValidation, "Missing email or password.")
	}

	user, err := s.users.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same outcome as a bad password: the response must not reveal
			// whether the account exists.
			return AuthResult{}, apperr.New(apperr.KindInvalidCredentials, "Invalid credentials.")
		}
		return AuthResult{}, storeErr("find user", err)
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, apperr.Wrap(apperr.KindCorruptCredential, "Failed to log in.", err)
	}
	if !ok {
		return AuthResult{}, apperr.New(apperr.KindInvalidCredentials, "Invalid credentials.")
	}

	result, err := s.openSession(ctx, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return result, nil
}

// openSession mints both credentials and persists the refresh token as a
// new session row, additive to any sessions the user already holds.
func (s *AuthService) openSession(ctx context.Context, user models.User, userAgent, ipAddress string) (AuthResult, error) {
	accessToken, err := s.issuer.IssueAccess(user.ID)
	if err != nil {
		return AuthResult{}, apperr.Wrap(apperr.KindUnexpected, "Failed to issue credentials.", err)
	}

	refreshToken, err := security.NewRefreshToken()
	if err != nil {
		return AuthResult{}, apperr.Wrap(apperr.KindUnexpected, "Failed to issue credentials.", err)
	}

	session := models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		Token:     refreshToken,
		UserAgent: optional(userAgent),
		IPAddress: optional(ipAddress),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		return AuthResult{}, storeErr("create session", err)
	}

	return AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout revokes every session the user owns, not just the calling one.
func (s *AuthService) Logout(ctx context.Context, userID string) (int64, error) {
	count, err := s.sessions.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, storeErr("delete sessions", err)
	}

	s.log.Info().Str("user_id", userID).Int64("revoked", count).Msg("user logged out")
	return count, nil
}

// Refresh exchanges a stored refresh token for a new access token. The
// refresh token itself is not rotated and an expired row is left in place
// for the reaper.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	session, err := s.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return "", apperr.New(apperr.KindInvalidRefreshToken, "Invalid refresh token.")
		}
		return "", storeErr("find session", err)
	}

	if session.Expired(time.Now()) {
		return "", apperr.New(apperr.KindRefreshExpired, "Refresh token has expired.")
	}

	accessToken, err := s.issuer.IssueAccess(session.UserID)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnexpected, "Failed to refresh access token.", err)
	}
	return accessToken, nil
}

func storeErr(op string, err error) error {
	return apperr.Wrap(apperr.KindStoreUnavailable, "Service temporarily unavailable.", fmt.Errorf("%s: %w", op, err))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
