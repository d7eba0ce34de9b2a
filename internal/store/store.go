package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// User represents an identity in the system. The ID is the stable subject
// identifier assigned by the external identity provider.
type User struct {
	ID          string
	DisplayName string
	AvatarURL   string
	Email       string
	Premium     bool
	Banned      bool
	LastSeenAt  time.Time
	CreatedAt   time.Time
}

// Message represents a persisted chat message. ChannelID is the internal
// channel key ("room:<name>" or "dm:<a>_<b>").
type Message struct {
	ID        int64
	ChannelID string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

// Friend represents one direction of a symmetric friendship.
type Friend struct {
	UserID    string
	FriendID  string
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// UpsertUser creates or refreshes a user row on login. Profile fields
	// and the last-seen timestamp are overwritten; the ban flag is kept.
	UpsertUser(ctx context.Context, id, displayName, avatarURL, email string, premium bool) (*User, error)

	// GetUser retrieves a user by identity id.
	GetUser(ctx context.Context, id string) (*User, error)

	// SetBanned sets or clears the ban flag.
	SetBanned(ctx context.Context, id string, banned bool) error

	// UpdateDisplayName changes the user's display name.
	UpdateDisplayName(ctx context.Context, id, displayName string) error

	// UpdateAvatar changes the user's avatar reference.
	UpdateAvatar(ctx context.Context, id, avatarURL string) error

	// TouchLastSeen bumps the last-seen timestamp.
	TouchLastSeen(ctx context.Context, id string) error
}

// MessageStore handles message persistence.
type MessageStore interface {
	// AppendMessage persists a message, assigning its id and timestamp.
	// Both are written back into msg.
	AppendMessage(ctx context.Context, msg *Message) error

	// ListRecent returns the newest messages for a channel in ascending
	// creation order, at most limit entries.
	ListRecent(ctx context.Context, channelID string, limit int) ([]*Message, error)

	// GetMessage retrieves a single message by id.
	GetMessage(ctx context.Context, id int64) (*Message, error)

	// DeleteMessage removes a message. Returns true if a row was deleted.
	DeleteMessage(ctx context.Context, id int64) (bool, error)
}

// FriendStore handles friendship persistence.
type FriendStore interface {
	// AddFriend records a symmetric friendship as two directed rows.
	// Idempotent: adding an existing friendship is a no-op.
	AddFriend(ctx context.Context, userID, friendID string) error

	// ListFriends returns the profiles of all friends of a user.
	ListFriends(ctx context.Context, userID string) ([]*User, error)

	// IsFriend reports whether a friendship exists in either direction.
	IsFriend(ctx context.Context, userID, friendID string) (bool, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore
	FriendStore

	// Close closes the underlying database connection.
	Close() error
}
