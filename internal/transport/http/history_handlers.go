package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/core"
	"github.com/covechat/cove-server/internal/store"
)

// historyLimit is the number of messages returned by history queries.
const historyLimit = 80

// HistoryHandlers serves message history for rooms and direct channels.
type HistoryHandlers struct {
	store store.MessageStore
	log   *zerolog.Logger
}

// NewHistoryHandlers creates a new history handlers instance.
func NewHistoryHandlers(st store.MessageStore, logger *zerolog.Logger) *HistoryHandlers {
	return &HistoryHandlers{
		store: st,
		log:   logger,
	}
}

// MessageResponse represents a persisted message in API responses.
type MessageResponse struct {
	ID        int64  `json:"id"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// RoomMessages lists the last messages of a room, ascending.
// GET /api/rooms/:room/messages
func (h *HistoryHandlers) RoomMessages(c *gin.Context) {
	roomID := c.Param("room")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room is required"})
		return
	}

	messages, err := h.store.ListRecent(c.Request.Context(), core.RoomChannel(roomID), historyLimit)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to list room messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toMessageResponses(messages))
}

// DirectMessages lists the last messages of a direct channel, ascending.
// The caller must be one of the two participants encoded in the name.
// GET /api/direct/:channel/messages
func (h *HistoryHandlers) DirectMessages(c *gin.Context) {
	identityID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	channelName := c.Param("channel")
	if _, _, valid := core.ParseDirectChannel(channelName); !valid {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed channel identifier"})
		return
	}
	if !core.IsDirectParticipant(channelName, identityID) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a participant"})
		return
	}

	messages, err := h.store.ListRecent(c.Request.Context(), core.DirectChannel(channelName), historyLimit)
	if err != nil {
		h.log.Error().Err(err).Str("channel", channelName).Msg("failed to list direct messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toMessageResponses(messages))
}

func toMessageResponses(messages []*store.Message) []MessageResponse {
	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			ID:        msg.ID,
			AuthorID:  msg.AuthorID,
			Text:      msg.Body,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		})
	}
	return response
}
