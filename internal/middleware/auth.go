package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"metarelay/api/internal/apperr"
	"metarelay/api/internal/response"
	"metarelay/api/internal/security"
)

const contextUserID = "auth_user_id"

// AccessTokenCookie is the cookie carrier for the access credential; the
// Authorization header takes precedence when both are present.
const AccessTokenCookie = "access_token"

// Auth verifies the bearer access credential on each protected request.
// Stateless: signature and expiry only, no store round trip.
func Auth(issuer *security.TokenIssuer, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractAccessToken(c)
		if tokenStr == "" {
			response.Abort(c, apperr.KindAuthRequired.HTTPStatus(), "Authentication token required.")
			return
		}

		userID, err := issuer.VerifyAccess(tokenStr)
		if err != nil {
			kind := apperr.KindOf(err)
			log.Warn().
				Str("kind", kind.String()).
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Msg("access token rejected")
			response.Abort(c, kind.HTTPStatus(), apperr.Message(err))
			return
		}

		c.Set(contextUserID, userID)
		c.Next()
	}
}

func extractAccessToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// UserID returns the identity attached by Auth.
func UserID(c *gin.Context) (string, bool) {
	val, ok := c.Get(contextUserID)
	if !ok {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
