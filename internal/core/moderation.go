package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/observability"
	"github.com/covechat/cove-server/internal/store"
)

// Moderator implements admin moderation actions that must reach both the
// durable store and live sessions.
type Moderator struct {
	users      store.UserStore
	messages   store.MessageStore
	registry   *Registry
	dispatcher *Dispatcher
	adminID    string
	log        *zerolog.Logger
}

// NewModerator wires moderation to the stores and the live session core.
// adminID is the configured administrator identity.
func NewModerator(users store.UserStore, messages store.MessageStore, registry *Registry, dispatcher *Dispatcher, adminID string, logger *zerolog.Logger) *Moderator {
	return &Moderator{
		users:      users,
		messages:   messages,
		registry:   registry,
		dispatcher: dispatcher,
		adminID:    adminID,
		log:        logger,
	}
}

// Ban sets the ban flag and evicts every live session of the target.
func (m *Moderator) Ban(ctx context.Context, callerID, targetID string) error {
	if err := m.requireAdmin(callerID); err != nil {
		return err
	}

	if err := m.users.SetBanned(ctx, targetID, true); err != nil {
		return fmt.Errorf("set ban flag: %w", err)
	}
	m.registry.Evict(targetID)
	observability.IncEviction()

	m.log.Info().Str("target", targetID).Msg("identity banned")
	return nil
}

// Unban clears the ban flag. It does not reconnect anyone.
func (m *Moderator) Unban(ctx context.Context, callerID, targetID string) error {
	if err := m.requireAdmin(callerID); err != nil {
		return err
	}

	if err := m.users.SetBanned(ctx, targetID, false); err != nil {
		return fmt.Errorf("clear ban flag: %w", err)
	}

	m.log.Info().Str("target", targetID).Msg("identity unbanned")
	return nil
}

// DeleteRoomMessage removes a room message from the store and, if a row was
// actually deleted, broadcasts a retraction to the room's live members.
// Direct messages are not deletable.
func (m *Moderator) DeleteRoomMessage(ctx context.Context, callerID string, messageID int64) error {
	if err := m.requireAdmin(callerID); err != nil {
		return err
	}

	msg, err := m.messages.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	roomID, ok := RoomFromChannel(msg.ChannelID)
	if !ok {
		return ErrNotRoomMessage
	}

	deleted, err := m.messages.DeleteMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if deleted {
		m.dispatcher.Retract(roomID, messageID)
		m.log.Info().Int64("message_id", messageID).Str("room", roomID).Msg("message retracted")
	}
	return nil
}

func (m *Moderator) requireAdmin(callerID string) error {
	if m.adminID == "" || callerID != m.adminID {
		return auth.ErrForbidden
	}
	return nil
}
