package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/store"
)

// AuthHandlers provides the login endpoint.
type AuthHandlers struct {
	authService *auth.Service
	log         *zerolog.Logger
}

// NewAuthHandlers creates a new auth handlers instance.
func NewAuthHandlers(authService *auth.Service, logger *zerolog.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		log:         logger,
	}
}

// LoginRequest carries the identity-provider credential.
type LoginRequest struct {
	ProviderToken string `json:"provider_token" binding:"required"`
}

// ProfileResponse represents the caller's own profile.
type ProfileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Email       string `json:"email,omitempty"`
	Premium     bool   `json:"premium"`
}

// LoginResponse returns the session token and the refreshed profile.
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Login exchanges an identity-provider credential for a session token.
// POST /api/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid login request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.ProviderToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrCredentialRejected):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "credential rejected"})
		case errors.Is(err, auth.ErrBanned):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "identity banned"})
		default:
			h.log.Error().Err(err).Msg("login failed")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.log.Info().Str("identity", user.ID).Msg("login successful")
	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		Profile: ownProfile(user),
	})
}

func ownProfile(user *store.User) ProfileResponse {
	return ProfileResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Email:       user.Email,
		Premium:     user.Premium,
	}
}
