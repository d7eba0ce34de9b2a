package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/covechat/cove-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertUserRefreshesProfileAndKeepsBan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.UpsertUser(ctx, "sub-1", "Alice", "https://cdn/a.png", "alice@example.com", false)
	require.NoError(t, err)
	require.Equal(t, "sub-1", user.ID)
	require.Equal(t, "Alice", user.DisplayName)
	require.False(t, user.Banned)

	require.NoError(t, s.SetBanned(ctx, "sub-1", true))

	// A later login refreshes profile fields but must not clear the ban.
	user, err = s.UpsertUser(ctx, "sub-1", "Alice2", "https://cdn/a2.png", "alice@example.com", true)
	require.NoError(t, err)
	require.Equal(t, "Alice2", user.DisplayName)
	require.Equal(t, "https://cdn/a2.png", user.AvatarURL)
	require.True(t, user.Premium)
	require.True(t, user.Banned)
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppendMessageAssignsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, "sub-1", "Alice", "", "", false)
	require.NoError(t, err)

	first := &store.Message{ChannelID: "room:lounge", AuthorID: "sub-1", Body: "hello"}
	require.NoError(t, s.AppendMessage(ctx, first))
	require.NotZero(t, first.ID)
	require.False(t, first.CreatedAt.IsZero())

	second := &store.Message{ChannelID: "room:lounge", AuthorID: "sub-1", Body: "again"}
	require.NoError(t, s.AppendMessage(ctx, second))
	require.Greater(t, second.ID, first.ID)
}

func TestListRecentAscendingWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, "sub-1", "Alice", "", "", false)
	require.NoError(t, err)

	bodies := []string{"one", "two", "three", "four"}
	for _, b := range bodies {
		require.NoError(t, s.AppendMessage(ctx, &store.Message{ChannelID: "room:lounge", AuthorID: "sub-1", Body: b}))
	}
	require.NoError(t, s.AppendMessage(ctx, &store.Message{ChannelID: "room:other", AuthorID: "sub-1", Body: "elsewhere"}))

	msgs, err := s.ListRecent(ctx, "room:lounge", 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "two", msgs[0].Body)
	require.Equal(t, "three", msgs[1].Body)
	require.Equal(t, "four", msgs[2].Body)
	for i := 1; i < len(msgs); i++ {
		require.Greater(t, msgs[i].ID, msgs[i-1].ID)
	}
}

func TestDeleteMessage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, "sub-1", "Alice", "", "", false)
	require.NoError(t, err)

	msg := &store.Message{ChannelID: "room:lounge", AuthorID: "sub-1", Body: "doomed"}
	require.NoError(t, s.AppendMessage(ctx, msg))

	deleted, err := s.DeleteMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	// Second delete is a no-op.
	deleted, err = s.DeleteMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	msgs, err := s.ListRecent(ctx, "room:lounge", 80)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestAddFriendIsSymmetricAndIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertUser(ctx, "sub-a", "Alice", "", "", false)
	require.NoError(t, err)
	_, err = s.UpsertUser(ctx, "sub-b", "Bob", "", "", false)
	require.NoError(t, err)

	require.NoError(t, s.AddFriend(ctx, "sub-a", "sub-b"))
	require.NoError(t, s.AddFriend(ctx, "sub-a", "sub-b"))

	ok, err := s.IsFriend(ctx, "sub-a", "sub-b")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.IsFriend(ctx, "sub-b", "sub-a")
	require.NoError(t, err)
	require.True(t, ok)

	friends, err := s.ListFriends(ctx, "sub-a")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, "sub-b", friends[0].ID)

	friends, err = s.ListFriends(ctx, "sub-b")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	require.Equal(t, "sub-a", friends[0].ID)
}
