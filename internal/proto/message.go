package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeAuth       = "auth"
	InboundTypeJoinRoom   = "join_room"
	InboundTypeJoinDirect = "join_direct"
	InboundTypeRoomMsg    = "msg_room"
	InboundTypeDirectMsg  = "msg_direct"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventAuthOK        = "auth_ok"
	EventAuthFailed    = "auth_failed"
	EventBanned        = "banned"
	EventRoomMessage   = "new_room_message"
	EventDirectMessage = "new_direct_message"
	EventRetracted     = "message_retracted"
	EventSendFailed    = "send_failed"
)

// AuthData carries the session token for connection authentication.
type AuthData struct {
	Token string `json:"token"`
}

// JoinRoomData requests to join a room.
type JoinRoomData struct {
	Room string `json:"room"`
}

// JoinDirectData requests to join a direct channel by canonical name.
type JoinDirectData struct {
	Channel string `json:"channel"`
}

// RoomMsgData is a chat message addressed to a room.
type RoomMsgData struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// DirectMsgData is a chat message addressed to a direct channel.
type DirectMsgData struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// AuthorData is the author snapshot attached to delivered messages.
type AuthorData struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Premium     bool   `json:"premium,omitempty"`
}

// EventMessage is a delivered chat message.
type EventMessage struct {
	ID      int64      `json:"id"`
	Room    string     `json:"room,omitempty"`
	Channel string     `json:"channel,omitempty"`
	Author  AuthorData `json:"author"`
	Text    string     `json:"text"`
	TS      int64      `json:"ts"`
}

// EventReason carries the reason code of a failure event.
type EventReason struct {
	Reason string `json:"reason"`
}

// EventRetraction tells clients to drop a message from view.
type EventRetraction struct {
	Room      string `json:"room"`
	MessageID int64  `json:"message_id"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
