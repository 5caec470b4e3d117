package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"metarelay/api/internal/ids"
	"metarelay/api/internal/response"
	"metarelay/api/internal/security"
)

// VerifyWebhook answers the provider's challenge-response handshake. Admit
// only mode "subscribe" with the pre-shared verify token; the challenge is
// echoed back verbatim, anything else is a bare 403.
func (h HandlerSet) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	secret := h.cfg.Webhook.VerifyToken
	if mode == "subscribe" && secret != "" && security.TokensMatch(token, secret) {
		h.log.Info().Str("path", c.Request.URL.Path).Msg("webhook verified")
		c.String(http.StatusOK, "%s", challenge)
		return
	}

	c.Status(http.StatusForbidden)
}

// ReceiveWebhook admits provider event deliveries. When an app secret is
// configured the X-Hub-Signature-256 header must match the raw body. The
// delivery is queued for the relay workers and archived; failures there are
// logged but never bounce the provider, which would trigger redelivery.
func (h HandlerSet) ReceiveWebhook(platform string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			response.JSON(c, http.StatusBadRequest, "Invalid webhook body.", nil)
			return
		}

		if secret := h.cfg.Webhook.AppSecret; secret != "" {
			presented := c.GetHeader(security.SignatureHeader)
			if !security.ValidateBodySignature(secret, presented, body) {
				h.log.Warn().
					Str("platform", platform).
					Str("client_ip", c.ClientIP()).
					Msg("webhook signature rejected")
				c.Status(http.StatusForbidden)
				return
			}
		}

		deliveryID := ids.New()
		h.log.Info().
			Str("platform", platform).
			Str("delivery_id", deliveryID).
			Int("bytes", len(body)).
			Msg("webhook received")

		ctx := c.Request.Context()
		if err := h.queue.Publish(ctx, platform, deliveryID, body); err != nil {
			h.log.Error().Err(err).Str("platform", platform).Msg("webhook enqueue failed")
		}
		if h.archive != nil {
			if err := h.archive.PutPayload(ctx, platform, deliveryID, body); err != nil {
				h.log.Error().Err(err).Str("platform", platform).Msg("webhook archive failed")
			}
		}

		response.JSON(c, http.StatusOK, "Webhook received successfully.", nil)
	}
}
