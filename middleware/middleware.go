package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dinerozz/focus-session-backend/internal/entity"
	"github.com/dinerozz/focus-session-backend/internal/model/response/wrapper"
	"github.com/dinerozz/focus-session-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

// APIKeyValidator resolves an extension API key to its user.
type APIKeyValidator interface {
	ValidateAPIKey(ctx context.Context, apiKey string) (*entity.ExtensionUser, error)
}

func AuthenticationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie("token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "Missing authentication token", Success: false})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			slog.Debug("invalid admin token", slog.String("error", err.Error()))
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "Invalid authentication token", Success: false})
			c.Abort()
			return
		}

		userID, _ := claims["user_id"].(string)
		c.Set("user_id", userID)
		c.Next()
	}
}

// SwaggerHostMiddleware hides the swagger UI from every host but allowedHost.
// An empty allowedHost leaves the UI open.
func SwaggerHostMiddleware(allowedHost string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allowedHost != "" && strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			if !strings.HasPrefix(c.Request.Host, allowedHost) {
				c.AbortWithStatusJSON(http.StatusForbidden, wrapper.ErrorWrapper{
					Message: "Access denied",
					Success: false,
				})
				return
			}
		}
		c.Next()
	}
}

// APIKeyMiddleware authenticates extension requests. Handlers read the user
// from "extension_user_id"; the session archive is keyed by it.
func APIKeyMiddleware(validator APIKeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")

		if apiKey == "" {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{
				Message: "X-API-Key header is required",
				Success: false,
			})
			c.Abort()
			return
		}

		user, err := validator.ValidateAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{
				Message: "Invalid or inactive API key",
				Success: false,
			})
			c.Abort()
			return
		}

		c.Set("extension_user", user)
		c.Set("extension_user_id", user.ID.String())
		c.Set("extension_username", user.Username)

		c.Next()
	}
}

// CORSMiddleware allows local origins, the configured dashboard origin and
// browser extension origins.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		switch {
		case strings.HasPrefix(origin, "http://localhost:"),
			strings.HasPrefix(origin, "http://127.0.0.1:"),
			strings.HasPrefix(origin, "moz-extension://"),
			strings.HasPrefix(origin, "chrome-extension://"),
			origin != "" && origin == allowedOrigin:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		default:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
