package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-checkout-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	adminTokenHeader   = "X-Admin-Token"
	actorIDHeader      = "X-Actor-Id"
	actorEmailHeader   = "X-Actor-Email"
	webhookTokenHeader = "X-Webhook-Token"

	actorKey = "actor"
)

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

// requireAdmin guards privileged routes. With no token configured they are closed.
func requireAdmin(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(adminTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Error: "admin token required",
				Kind:  domain.KindInvalidInput,
			})
			return
		}

		actor := domain.Actor{ID: c.GetHeader(actorIDHeader), Email: c.GetHeader(actorEmailHeader)}
		if actor.ID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorResponse{
				Error: actorIDHeader + " header is required",
				Kind:  domain.KindInvalidInput,
			})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// requireWebhookSecret checks the shared secret on gateway pushes when one is configured.
// Pushes are re-checked with the gateway either way.
func requireWebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		given := c.GetHeader(webhookTokenHeader)
		if subtle.ConstantTimeCompare([]byte(given), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Error: "webhook token required",
				Kind:  domain.KindInvalidInput,
			})
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	actor, _ := c.MustGet(actorKey).(domain.Actor)
	return actor
}
