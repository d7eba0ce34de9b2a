package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/core"
	"github.com/covechat/cove-server/internal/store"
)

// AdminHandlers exposes moderation actions. The moderator itself enforces
// that the caller is the configured administrator identity.
type AdminHandlers struct {
	moderator *core.Moderator
	log       *zerolog.Logger
}

// NewAdminHandlers creates a new admin handlers instance.
func NewAdminHandlers(moderator *core.Moderator, logger *zerolog.Logger) *AdminHandlers {
	return &AdminHandlers{
		moderator: moderator,
		log:       logger,
	}
}

// ModerationRequest identifies the moderated identity.
type ModerationRequest struct {
	IdentityID string `json:"identity_id" binding:"required"`
}

// Ban bans an identity and evicts its live sessions.
// POST /api/admin/ban
func (h *AdminHandlers) Ban(c *gin.Context) {
	callerID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.moderator.Ban(c.Request.Context(), callerID, req.IdentityID); err != nil {
		h.respondModerationError(c, err, "ban")
		return
	}

	c.Status(http.StatusNoContent)
}

// Unban clears an identity's ban flag.
// POST /api/admin/unban
func (h *AdminHandlers) Unban(c *gin.Context) {
	callerID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.moderator.Unban(c.Request.Context(), callerID, req.IdentityID); err != nil {
		h.respondModerationError(c, err, "unban")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteMessage deletes a room message and broadcasts a retraction.
// DELETE /api/admin/messages/:id
func (h *AdminHandlers) DeleteMessage(c *gin.Context) {
	callerID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	messageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid message id"})
		return
	}

	if err := h.moderator.DeleteRoomMessage(c.Request.Context(), callerID, messageID); err != nil {
		h.respondModerationError(c, err, "delete message")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AdminHandlers) respondModerationError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "admin only"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, core.ErrNotRoomMessage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "direct messages cannot be deleted"})
	default:
		h.log.Error().Err(err).Str("action", action).Msg("moderation action failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}
