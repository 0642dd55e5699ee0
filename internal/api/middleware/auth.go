package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vdpcore/licensed/internal/config"
)

// APIKeyContextKey marks in the request context whether a key was presented.
const APIKeyContextKey = "api_key_present"

// APIKeyCheck observes the client API key on admin routes. By default the
// check only logs whether a key was presented and never rejects the request;
// with auth.enforce enabled a missing or mismatched key is rejected.
func APIKeyCheck(cfg config.AuthConfig, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		key := extractAPIKey(c)
		c.Set(APIKeyContextKey, key != "")

		logger.Info("api key check",
			slog.String("path", c.Request.URL.Path),
			slog.Bool("present", key != ""),
		)

		if cfg.Enforce {
			if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
				c.JSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Clé API invalide.",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// extractAPIKey reads the key from x-api-key or an Authorization bearer header
func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader("x-api-key"); key != "" {
		return key
	}

	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return ""
}
