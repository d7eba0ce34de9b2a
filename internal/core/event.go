package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventAuthOK confirms a successful connection authentication.
	EventAuthOK EventKind = iota
	// EventAuthFailed reports a failed connection authentication.
	EventAuthFailed
	// EventBannedNotice tells a client its identity was banned; the
	// connection is terminated right after.
	EventBannedNotice
	// EventRoomMessage delivers a chat message sent to a room.
	EventRoomMessage
	// EventDirectMessage delivers a chat message sent to a direct channel.
	EventDirectMessage
	// EventRetracted tells room members a message was deleted.
	EventRetracted
	// EventSendFailed tells the sender its message could not be persisted.
	EventSendFailed
)

// Author is the cached profile snapshot attached to broadcast messages.
type Author struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Premium     bool
}

// BroadcastMessage is a persisted message as fanned out to channel members.
// ID and CreatedAt are exactly the values assigned by the message store.
type BroadcastMessage struct {
	ID        int64
	Room      string // set for room messages
	Channel   string // set for direct messages (canonical name)
	Author    Author
	Text      string
	CreatedAt time.Time
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	Room      string
	Message   *BroadcastMessage
	MessageID int64  // for EventRetracted
	Reason    string // for EventAuthFailed / EventSendFailed
}
