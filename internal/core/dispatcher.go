package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/observability"
	"github.com/covechat/cove-server/internal/store"
)

// MaxMessageLen is the maximum accepted message length in characters.
const MaxMessageLen = 500

// Dispatcher validates, persists and fans out chat messages. A message is
// never broadcast before its persistence write is acknowledged.
type Dispatcher struct {
	registry   *Registry
	membership *Membership
	messages   store.MessageStore
	log        *zerolog.Logger
}

// NewDispatcher wires the dispatcher to the registry, membership manager
// and message store.
func NewDispatcher(registry *Registry, membership *Membership, messages store.MessageStore, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		membership: membership,
		messages:   messages,
		log:        logger,
	}
}

// SendRoomMessage handles a room send: validate, persist, fan out. Invalid
// sends are dropped without a reply; only persistence failures are reported
// back, and only to the sender.
func (d *Dispatcher) SendRoomMessage(ctx context.Context, client *Client, roomID, text string) {
	session, ok := d.registry.Lookup(client)
	if !ok {
		return
	}

	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > MaxMessageLen {
		return
	}

	channelID := RoomChannel(roomID)
	if !d.membership.IsMember(channelID, client) {
		return
	}

	msg := &store.Message{ChannelID: channelID, AuthorID: session.IdentityID, Body: text}
	if err := d.messages.AppendMessage(ctx, msg); err != nil {
		d.log.Error().Err(err).Str("room", roomID).Msg("persist room message failed")
		push(client, &Event{Kind: EventSendFailed, Reason: ReasonStorageFailure}, d.log)
		return
	}

	event := &Event{
		Kind: EventRoomMessage,
		Room: roomID,
		Message: &BroadcastMessage{
			ID:        msg.ID,
			Room:      roomID,
			Author:    authorSnapshot(session),
			Text:      msg.Body,
			CreatedAt: msg.CreatedAt,
		},
	}
	d.fanout(channelID, event)
	observability.IncMessage("room")
}

// SendDirectMessage handles a direct send. Membership is re-validated
// against the channel-name decomposition rather than current join state;
// a participant may send without having joined.
func (d *Dispatcher) SendDirectMessage(ctx context.Context, client *Client, channelName, text string) {
	session, ok := d.registry.Lookup(client)
	if !ok {
		return
	}

	if !IsDirectParticipant(channelName, session.IdentityID) {
		return
	}

	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > MaxMessageLen {
		return
	}

	channelID := DirectChannel(channelName)
	msg := &store.Message{ChannelID: channelID, AuthorID: session.IdentityID, Body: text}
	if err := d.messages.AppendMessage(ctx, msg); err != nil {
		d.log.Error().Err(err).Str("channel", channelName).Msg("persist direct message failed")
		push(client, &Event{Kind: EventSendFailed, Reason: ReasonStorageFailure}, d.log)
		return
	}

	event := &Event{
		Kind: EventDirectMessage,
		Message: &BroadcastMessage{
			ID:        msg.ID,
			Channel:   channelName,
			Author:    authorSnapshot(session),
			Text:      msg.Body,
			CreatedAt: msg.CreatedAt,
		},
	}
	d.fanout(channelID, event)
	observability.IncMessage("direct")
}

// Retract notifies a room's current members that a message was deleted.
func (d *Dispatcher) Retract(roomID string, messageID int64) {
	d.fanout(RoomChannel(roomID), &Event{
		Kind:      EventRetracted,
		Room:      roomID,
		MessageID: messageID,
	})
	observability.IncRetraction()
}

// fanout delivers an event to the members of a channel at this moment.
// Connections joining afterwards get prior history via the query interface.
func (d *Dispatcher) fanout(channelID string, event *Event) {
	for _, client := range d.membership.MembersOf(channelID) {
		push(client, event, d.log)
	}
}

func authorSnapshot(session *Session) Author {
	return Author{
		ID:          session.IdentityID,
		DisplayName: session.DisplayName,
		AvatarURL:   session.AvatarURL,
		Premium:     session.Premium,
	}
}
