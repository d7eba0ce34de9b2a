package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/covechat/cove-server/internal/store"
)

// schema is applied at open. CREATE IF NOT EXISTS keeps restarts cheap.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	avatar_url   TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	premium      BOOLEAN NOT NULL DEFAULT 0,
	banned       BOOLEAN NOT NULL DEFAULT 0,
	last_seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	channel_id TEXT NOT NULL,
	author_id  TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	FOREIGN KEY (author_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_messages_channel ON messages(channel_id, id);

CREATE TABLE IF NOT EXISTS friends (
	user_id    TEXT NOT NULL,
	friend_id  TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, friend_id),
	FOREIGN KEY (user_id) REFERENCES users(id),
	FOREIGN KEY (friend_id) REFERENCES users(id)
);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}

// NewWithSetup opens the database and runs a setup function before use.
// Tests use it to apply alternate schemas against ":memory:".
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// UpsertUser creates or refreshes a user row on login.
func (s *SQLiteStore) UpsertUser(ctx context.Context, id, displayName, avatarURL, email string, premium bool) (*store.User, error) {
	query := `
		INSERT INTO users (id, display_name, avatar_url, email, premium, last_seen_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			avatar_url   = excluded.avatar_url,
			email        = excluded.email,
			premium      = excluded.premium,
			last_seen_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, id, displayName, avatarURL, email, premium); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return s.GetUser(ctx, id)
}

// GetUser retrieves a user by identity id.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*store.User, error) {
	query := `
		SELECT id, display_name, avatar_url, email, premium, banned, last_seen_at, created_at
		FROM users
		WHERE id = ?
	`
	var user store.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Email,
		&user.Premium,
		&user.Banned,
		&user.LastSeenAt,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// SetBanned sets or clears the ban flag.
func (s *SQLiteStore) SetBanned(ctx context.Context, id string, banned bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET banned = ? WHERE id = ?`, banned, id)
	if err != nil {
		return fmt.Errorf("update ban flag: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// UpdateDisplayName changes the user's display name.
func (s *SQLiteStore) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET display_name = ? WHERE id = ?`, displayName, id)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// UpdateAvatar changes the user's avatar reference.
func (s *SQLiteStore) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET avatar_url = ? WHERE id = ?`, avatarURL, id)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// TouchLastSeen bumps the last-seen timestamp.
func (s *SQLiteStore) TouchLastSeen(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_seen_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return nil
}

// ==== MessageStore implementation ====

// AppendMessage persists a message, assigning its id and timestamp.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *store.Message) error {
	createdAt := time.Now().UTC()

	query := `
		INSERT INTO messages (channel_id, author_id, body, created_at)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, msg.ChannelID, msg.AuthorID, msg.Body, createdAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	msg.ID = id
	msg.CreatedAt = createdAt
	return nil
}

// ListRecent returns the newest messages for a channel in ascending order.
func (s *SQLiteStore) ListRecent(ctx context.Context, channelID string, limit int) ([]*store.Message, error) {
	query := `
		SELECT id, channel_id, author_id, body, created_at
		FROM messages
		WHERE channel_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*store.Message
	for rows.Next() {
		var msg store.Message
		if err := rows.Scan(&msg.ID, &msg.ChannelID, &msg.AuthorID, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i := 0; i < len(messages)/2; i++ {
		messages[i], messages[len(messages)-1-i] = messages[len(messages)-1-i], messages[i]
	}

	return messages, nil
}

// GetMessage retrieves a single message by id.
func (s *SQLiteStore) GetMessage(ctx context.Context, id int64) (*store.Message, error) {
	query := `
		SELECT id, channel_id, author_id, body, created_at
		FROM messages
		WHERE id = ?
	`
	var msg store.Message
	err := s.db.QueryRowContext(ctx, query, id).Scan(&msg.ID, &msg.ChannelID, &msg.AuthorID, &msg.Body, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %d: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query message: %w", err)
	}

	return &msg, nil
}

// DeleteMessage removes a message. Returns true if a row was deleted.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ==== FriendStore implementation ====

// AddFriend records a symmetric friendship as two directed rows.
func (s *SQLiteStore) AddFriend(ctx context.Context, userID, friendID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT OR IGNORE INTO friends (user_id, friend_id)
		VALUES (?, ?)
	`
	if _, err := tx.ExecContext(ctx, query, userID, friendID); err != nil {
		return fmt.Errorf("insert friend row: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, friendID, userID); err != nil {
		return fmt.Errorf("insert reverse friend row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListFriends returns the profiles of all friends of a user.
func (s *SQLiteStore) ListFriends(ctx context.Context, userID string) ([]*store.User, error) {
	query := `
		SELECT u.id, u.display_name, u.avatar_url, u.email, u.premium, u.banned, u.last_seen_at, u.created_at
		FROM friends f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY u.display_name ASC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query friends: %w", err)
	}
	defer rows.Close()

	var friends []*store.User
	for rows.Next() {
		var user store.User
		if err := rows.Scan(
			&user.ID,
			&user.DisplayName,
			&user.AvatarURL,
			&user.Email,
			&user.Premium,
			&user.Banned,
			&user.LastSeenAt,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, &user)
	}

	return friends, rows.Err()
}

// IsFriend reports whether a friendship exists in either direction.
func (s *SQLiteStore) IsFriend(ctx context.Context, userID, friendID string) (bool, error) {
	query := `
		SELECT 1 FROM friends
		WHERE user_id = ? AND friend_id = ?
	`
	var exists int
	err := s.db.QueryRowContext(ctx, query, userID, friendID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query friendship: %w", err)
	}
	return true, nil
}
