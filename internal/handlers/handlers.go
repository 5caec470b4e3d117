// Package handlers wires the HTTP surface: auth flows, the users read
// endpoint, webhook admission and health.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"metarelay/api/internal/config"
	"metarelay/api/internal/middleware"
	"metarelay/api/internal/models"
	"metarelay/api/internal/queue"
	"metarelay/api/internal/repository"
	"metarelay/api/internal/security"
	"metarelay/api/internal/service"
	"metarelay/api/internal/storage"
)

// AuthFlows is what the auth handlers need from the service layer.
type AuthFlows interface {
	Signup(ctx context.Context, input service.SignupInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
	Logout(ctx context.Context, userID string) (int64, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// EventPublisher forwards admitted webhook deliveries to the relay queue.
type EventPublisher interface {
	Publish(ctx context.Context, platform, deliveryID string, body []byte) error
}

// PayloadArchiver keeps raw webhook bodies for replay and audit.
type PayloadArchiver interface {
	PutPayload(ctx context.Context, platform, id string, body []byte) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	auth    AuthFlows
	users   UserLister
	issuer  *security.TokenIssuer
	queue   EventPublisher
	archive PayloadArchiver
	db      Pinger
	cache   Pinger
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	archive *storage.PayloadArchive,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	issuer := security.NewTokenIssuer(cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenTTL)
	auth := service.NewAuthService(userRepo, sessionRepo, issuer, cfg.Auth.RefreshTokenTTL, log)

	set := HandlerSet{
		log:    log,
		cfg:    cfg,
		auth:   auth,
		users:  userRepo,
		issuer: issuer,
		queue:  queue.NewPublisher(redisClient, cfg.Webhook.Stream),
		db:     db,
		cache:  redisPinger{client: redisClient},
	}
	if archive != nil {
		set.archive = archive
	}
	return set
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("", h.Root)
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)

	protected := router.Group("/auth")
	protected.Use(middleware.Auth(h.issuer, h.log))
	protected.POST("/logout", h.Logout)
	protected.POST("/refresh_access_token", h.Refresh)

	router.GET("/users", h.ListUsers)

	webhooks := router.Group("/webhooks")
	webhooks.GET("/facebook", h.VerifyWebhook)
	webhooks.POST("/facebook", h.ReceiveWebhook("facebook"))
	webhooks.GET("/instagram", h.VerifyWebhook)
	webhooks.POST("/instagram", h.ReceiveWebhook("instagram"))
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
