package core

import "strings"

// DirectSeparator joins the two participant ids of a direct channel name.
// The canonical form (lexicographic order) is an external contract shared
// with clients; lookups only match when both sides derive it identically.
const DirectSeparator = "_"

// Internal channel keys are namespaced so a room named like a direct
// channel cannot collide with it.
const (
	roomPrefix   = "room:"
	directPrefix = "dm:"
)

// RoomChannel returns the internal channel key for a room.
func RoomChannel(roomID string) string {
	return roomPrefix + roomID
}

// DirectChannel returns the internal channel key for a direct channel name.
func DirectChannel(name string) string {
	return directPrefix + name
}

// DirectChannelName builds the canonical direct channel name for two
// identity ids.
func DirectChannelName(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + DirectSeparator + b
}

// ParseDirectChannel splits a direct channel name into its two participant
// ids. ok is false unless the name decomposes into exactly two non-empty ids.
func ParseDirectChannel(name string) (a, b string, ok bool) {
	parts := strings.Split(name, DirectSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// IsDirectParticipant reports whether identityID is one of the two ids
// encoded in the direct channel name.
func IsDirectParticipant(name, identityID string) bool {
	a, b, ok := ParseDirectChannel(name)
	return ok && (a == identityID || b == identityID)
}

// RoomFromChannel extracts the room id from an internal channel key.
func RoomFromChannel(channelID string) (string, bool) {
	room, found := strings.CutPrefix(channelID, roomPrefix)
	if !found {
		return "", false
	}
	return room, true
}

// DirectNameFromChannel extracts the direct channel name from an internal
// channel key.
func DirectNameFromChannel(channelID string) (string, bool) {
	name, found := strings.CutPrefix(channelID, directPrefix)
	if !found {
		return "", false
	}
	return name, true
}
