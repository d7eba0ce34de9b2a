package http

import (
	"errors"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/core"
	"github.com/covechat/cove-server/internal/proto"
)

// outboundFromEvent converts a core event into its wire representation.
func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventAuthOK:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventAuthOK}

	case core.EventAuthFailed:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventAuthFailed,
			Data:  proto.EventReason{Reason: event.Reason},
		}

	case core.EventBannedNotice:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventBanned}

	case core.EventRoomMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomMessage,
			Data:  messageData(event.Message),
		}

	case core.EventDirectMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventDirectMessage,
			Data:  messageData(event.Message),
		}

	case core.EventRetracted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRetracted,
			Data:  proto.EventRetraction{Room: event.Room, MessageID: event.MessageID},
		}

	case core.EventSendFailed:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventSendFailed,
			Data:  proto.EventReason{Reason: event.Reason},
		}

	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: "internal", Msg: "unknown event"},
		}
	}
}

func messageData(msg *core.BroadcastMessage) proto.EventMessage {
	return proto.EventMessage{
		ID:      msg.ID,
		Room:    msg.Room,
		Channel: msg.Channel,
		Author: proto.AuthorData{
			ID:          msg.Author.ID,
			DisplayName: msg.Author.DisplayName,
			AvatarURL:   msg.Author.AvatarURL,
			Premium:     msg.Author.Premium,
		},
		Text: msg.Text,
		TS:   msg.CreatedAt.Unix(),
	}
}

// authFailReason maps an authentication error to its wire reason code.
func authFailReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return core.ReasonTokenExpired
	case errors.Is(err, auth.ErrUnknownIdentity):
		return core.ReasonUnknownIdentity
	case errors.Is(err, auth.ErrBanned):
		return core.ReasonBanned
	default:
		return core.ReasonInvalidToken
	}
}
