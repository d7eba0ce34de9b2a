package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/store"
)

// maxDisplayNameLen bounds user-chosen display names.
const maxDisplayNameLen = 40

// UserHandlers provides HTTP handlers for profile operations.
type UserHandlers struct {
	store store.UserStore
	log   *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(st store.UserStore, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		store: st,
		log:   logger,
	}
}

// PublicProfileResponse is the profile view exposed to other users.
type PublicProfileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Premium     bool   `json:"premium"`
}

// UpdateNameRequest carries a new display name.
type UpdateNameRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// UpdateAvatarRequest carries a new avatar reference.
type UpdateAvatarRequest struct {
	AvatarURL string `json:"avatar_url" binding:"required"`
}

// Me returns the caller's own profile.
// GET /api/me
func (h *UserHandlers) Me(c *gin.Context) {
	identityID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Str("identity", identityID).Msg("failed to load profile")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ownProfile(user))
}

// UpdateDisplayName changes the caller's display name.
// PATCH /api/me/name
func (h *UserHandlers) UpdateDisplayName(c *gin.Context) {
	identityID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req UpdateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" || len([]rune(name)) > maxDisplayNameLen {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "display name must be 1-40 characters"})
		return
	}

	if err := h.store.UpdateDisplayName(c.Request.Context(), identityID, name); err != nil {
		h.log.Error().Err(err).Str("identity", identityID).Msg("failed to update display name")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateAvatar changes the caller's avatar reference.
// PATCH /api/me/avatar
func (h *UserHandlers) UpdateAvatar(c *gin.Context) {
	identityID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.store.UpdateAvatar(c.Request.Context(), identityID, req.AvatarURL); err != nil {
		h.log.Error().Err(err).Str("identity", identityID).Msg("failed to update avatar")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// PublicProfile returns another user's public profile.
// GET /api/users/:id
func (h *UserHandlers) PublicProfile(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Str("identity", c.Param("id")).Msg("failed to load public profile")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, PublicProfileResponse{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Premium:     user.Premium,
	})
}
