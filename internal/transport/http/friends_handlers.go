package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/service/friends"
)

// FriendHandlers provides HTTP handlers for friendship operations.
type FriendHandlers struct {
	friends *friends.Service
	log     *zerolog.Logger
}

// NewFriendHandlers creates a new friend handlers instance.
func NewFriendHandlers(svc *friends.Service, logger *zerolog.Logger) *FriendHandlers {
	return &FriendHandlers{
		friends: svc,
		log:     logger,
	}
}

// AddFriendRequest identifies the user to befriend.
type AddFriendRequest struct {
	FriendID string `json:"friend_id" binding:"required"`
}

// List returns the caller's friends with profile snapshots.
// GET /api/friends
func (h *FriendHandlers) List(c *gin.Context) {
	identityID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	users, err := h.friends.List(c.Request.Context(), identityID)
	if err != nil {
		h.log.Error().Err(err).Str("identity", identityID).Msg("failed to list friends")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]PublicProfileResponse, 0, len(users))
	for _, u := range users {
		response = append(response, PublicProfileResponse{
			ID:          u.ID,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Premium:     u.Premium,
		})
	}

	c.JSON(http.StatusOK, response)
}

// Add creates a symmetric friendship. Idempotent.
// POST /api/friends
func (h *FriendHandlers) Add(c *gin.Context) {
	identityID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req AddFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.friends.Add(c.Request.Context(), identityID, req.FriendID); err != nil {
		switch {
		case errors.Is(err, friends.ErrCannotFriendSelf):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot befriend yourself"})
		case errors.Is(err, friends.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		default:
			h.log.Error().Err(err).Str("identity", identityID).Msg("failed to add friend")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
