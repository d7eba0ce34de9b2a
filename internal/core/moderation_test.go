package core

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/store"
)

func newTestModerator(tc *testCore) *Moderator {
	logger := zerolog.Nop()
	return NewModerator(tc.store, tc.store, tc.registry, tc.dispatcher, "sub-admin", &logger)
}

func TestBanRequiresAdmin(t *testing.T) {
	tc := newTestCore(t)
	mod := newTestModerator(tc)

	if err := mod.Ban(context.Background(), "sub-a", "sub-b"); !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestBanEvictsAndBlocksReauthentication(t *testing.T) {
	tc := newTestCore(t)
	mod := newTestModerator(tc)
	ctx := context.Background()

	client, _ := tc.connect(t, "sub-a", "Alice")

	if err := mod.Ban(ctx, "sub-admin", "sub-a"); err != nil {
		t.Fatalf("ban: %v", err)
	}

	mustEvent(t, client.Events, EventBannedNotice)
	if _, ok := tc.registry.Lookup(client); ok {
		t.Fatalf("expected session evicted")
	}

	token, err := auth.IssueToken(tc.tokens, "sub-a")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := tc.registry.Authenticate(ctx, NewClient("conn-2"), token); !errors.Is(err, auth.ErrBanned) {
		t.Fatalf("expected ErrBanned on re-authentication, got %v", err)
	}

	// Unban clears the flag; authentication works again.
	if err := mod.Unban(ctx, "sub-admin", "sub-a"); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if _, err := tc.registry.Authenticate(ctx, NewClient("conn-3"), token); err != nil {
		t.Fatalf("expected authentication after unban, got %v", err)
	}
}

func TestDeleteRoomMessageBroadcastsRetraction(t *testing.T) {
	tc := newTestCore(t)
	mod := newTestModerator(tc)
	ctx := context.Background()

	alice, aliceSess := tc.connect(t, "sub-a", "Alice")
	bob, bobSess := tc.connect(t, "sub-b", "Bob")
	tc.membership.JoinRoom(aliceSess, "lounge")
	tc.membership.JoinRoom(bobSess, "lounge")

	tc.dispatcher.SendRoomMessage(ctx, alice, "lounge", "regrettable")
	sent := mustEvent(t, alice.Events, EventRoomMessage)

	if err := mod.DeleteRoomMessage(ctx, "sub-admin", sent.Message.ID); err != nil {
		t.Fatalf("delete room message: %v", err)
	}

	for _, client := range []*Client{alice, bob} {
		ev := mustEvent(t, client.Events, EventRetracted)
		if ev.Room != "lounge" || ev.MessageID != sent.Message.ID {
			t.Fatalf("unexpected retraction: %+v", ev)
		}
	}

	history, err := tc.store.ListRecent(ctx, RoomChannel("lounge"), 80)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected message gone from history, got %d rows", len(history))
	}
}

func TestDeleteRefusesDirectMessages(t *testing.T) {
	tc := newTestCore(t)
	mod := newTestModerator(tc)
	ctx := context.Background()

	alice, _ := tc.connect(t, "sub-a", "Alice")
	name := DirectChannelName("sub-a", "sub-b")
	tc.dispatcher.SendDirectMessage(ctx, alice, name, "private")

	history, err := tc.store.ListRecent(ctx, DirectChannel(name), 80)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected persisted direct message")
	}

	if err := mod.DeleteRoomMessage(ctx, "sub-admin", history[0].ID); !errors.Is(err, ErrNotRoomMessage) {
		t.Fatalf("expected ErrNotRoomMessage, got %v", err)
	}
}

func TestDeleteMissingMessageReturnsNotFound(t *testing.T) {
	tc := newTestCore(t)
	mod := newTestModerator(tc)

	if err := mod.DeleteRoomMessage(context.Background(), "sub-admin", 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
