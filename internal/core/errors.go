package core

import "errors"

// Reason codes carried by failure events on the wire.
const (
	ReasonInvalidToken    = "invalid_token"
	ReasonTokenExpired    = "token_expired"
	ReasonUnknownIdentity = "unknown_identity"
	ReasonBanned          = "banned"
	ReasonStorageFailure  = "storage_failure"
)

// ErrNotRoomMessage is returned when moderation targets a message that does
// not belong to a room. Direct messages are not deletable.
var ErrNotRoomMessage = errors.New("message does not belong to a room")
