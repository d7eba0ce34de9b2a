package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
)

// ContextKeyIdentityID is the context key for the authenticated identity id.
const ContextKeyIdentityID = "identity_id"

// AuthMiddleware validates the bearer session token and stores the identity
// id in the request context.
func AuthMiddleware(authService *auth.Service, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug().Msg("missing authorization header")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			logger.Debug().Msg("invalid authorization header format")
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid authorization header format"})
			c.Abort()
			return
		}

		identityID, err := authService.VerifySession(parts[1])
		if err != nil {
			logger.Debug().Err(err).Msg("invalid session token")
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token expired"
			}
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: msg})
			c.Abort()
			return
		}

		c.Set(ContextKeyIdentityID, identityID)
		c.Next()
	}
}

// LoggerMiddleware logs HTTP requests after completion.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}

// identityFromContext extracts the authenticated identity id.
func identityFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyIdentityID)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}
