// Package response renders the uniform API envelope. Every handler outcome,
// success or failure, is a JSON body with a success flag, numeric code,
// human message and optional data.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"metarelay/api/internal/apperr"
)

type Envelope struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func JSON(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{
		Success: code < 400,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Abort writes the envelope and stops the handler chain. For middleware.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Envelope{
		Success: false,
		Code:    code,
		Message: message,
	})
}

// Error classifies err through the apperr taxonomy and writes the matching
// envelope. Server-side kinds are logged with full context; the client only
// ever sees the caller-safe message.
func Error(c *gin.Context, log zerolog.Logger, err error) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()

	event := log.Warn()
	if status >= 500 {
		event = log.Error()
	}
	event.
		Err(err).
		Str("kind", kind.String()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("request failed")

	JSON(c, status, apperr.Message(err), nil)
}
