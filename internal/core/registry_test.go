package core

import (
	"context"
	"errors"
	"testing"

	"github.com/covechat/cove-server/internal/auth"
)

func TestAuthenticateCachesProfileSnapshot(t *testing.T) {
	tc := newTestCore(t)

	_, session := tc.connect(t, "sub-a", "Alice")
	if session.IdentityID != "sub-a" || session.DisplayName != "Alice" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.AvatarURL == "" {
		t.Fatalf("expected cached avatar reference")
	}
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	tc := newTestCore(t)
	client := NewClient("conn-1")

	_, err := tc.registry.Authenticate(context.Background(), client, "garbage")
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, ok := tc.registry.Lookup(client); ok {
		t.Fatalf("failed authentication must not bind the connection")
	}
}

func TestAuthenticateRejectsUnknownIdentity(t *testing.T) {
	tc := newTestCore(t)

	token, err := auth.IssueToken(tc.tokens, "ghost")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = tc.registry.Authenticate(context.Background(), NewClient("conn-1"), token)
	if !errors.Is(err, auth.ErrUnknownIdentity) {
		t.Fatalf("expected ErrUnknownIdentity, got %v", err)
	}
}

func TestAuthenticateRejectsBannedIdentity(t *testing.T) {
	tc := newTestCore(t)
	ctx := context.Background()

	if _, err := tc.store.UpsertUser(ctx, "sub-a", "Alice", "", "", false); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	if err := tc.store.SetBanned(ctx, "sub-a", true); err != nil {
		t.Fatalf("set banned: %v", err)
	}

	token, err := auth.IssueToken(tc.tokens, "sub-a")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = tc.registry.Authenticate(ctx, NewClient("conn-1"), token)
	if !errors.Is(err, auth.ErrBanned) {
		t.Fatalf("expected ErrBanned, got %v", err)
	}
}

func TestReauthenticateOverwritesBinding(t *testing.T) {
	tc := newTestCore(t)
	ctx := context.Background()

	client, _ := tc.connect(t, "sub-a", "Alice")

	if _, err := tc.store.UpsertUser(ctx, "sub-b", "Bob", "", "", false); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	token, err := auth.IssueToken(tc.tokens, "sub-b")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := tc.registry.Authenticate(ctx, client, token); err != nil {
		t.Fatalf("re-authenticate: %v", err)
	}

	session, ok := tc.registry.Lookup(client)
	if !ok || session.IdentityID != "sub-b" {
		t.Fatalf("expected binding overwritten to sub-b, got %+v", session)
	}
	if tc.registry.SessionCount() != 1 {
		t.Fatalf("expected a single session, got %d", tc.registry.SessionCount())
	}

	// The old identity must be gone from the reverse index.
	tc.registry.Evict("sub-a")
	if _, ok := tc.registry.Lookup(client); !ok {
		t.Fatalf("evicting the stale identity must not touch the new binding")
	}
}

func TestTerminateIsIdempotent(t *testing.T) {
	tc := newTestCore(t)

	client, _ := tc.connect(t, "sub-a", "Alice")

	tc.registry.Terminate(client)
	tc.registry.Terminate(client)

	if _, ok := tc.registry.Lookup(client); ok {
		t.Fatalf("expected binding removed")
	}
	if tc.registry.SessionCount() != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestConcurrentDisconnectAndEvict(t *testing.T) {
	tc := newTestCore(t)

	client, session := tc.connect(t, "sub-a", "Alice")
	tc.membership.JoinRoom(session, "lounge")

	// Disconnect racing a forced eviction of the same connection; both
	// paths run the same idempotent teardown.
	done := make(chan struct{}, 2)
	go func() {
		tc.registry.Terminate(client)
		tc.membership.Leave(client)
		done <- struct{}{}
	}()
	go func() {
		tc.registry.Evict("sub-a")
		tc.membership.Leave(client)
		done <- struct{}{}
	}()
	<-done
	<-done

	if _, ok := tc.registry.Lookup(client); ok {
		t.Fatalf("expected binding removed")
	}
	if _, ok := tc.membership.Current(client); ok {
		t.Fatalf("expected channel membership removed")
	}
	if len(tc.membership.MembersOf(RoomChannel("lounge"))) != 0 {
		t.Fatalf("expected empty member set")
	}
}

func TestEvictTerminatesAllSessionsOfIdentity(t *testing.T) {
	tc := newTestCore(t)

	// Multi-device: two connections for the same identity.
	phone, _ := tc.connect(t, "sub-a", "Alice")
	laptop, _ := tc.connect(t, "sub-a", "Alice")
	other, _ := tc.connect(t, "sub-b", "Bob")

	tc.registry.Evict("sub-a")

	for _, client := range []*Client{phone, laptop} {
		ev := mustEvent(t, client.Events, EventBannedNotice)
		if ev.Kind != EventBannedNotice {
			t.Fatalf("expected banned notice, got %v", ev.Kind)
		}
		select {
		case <-client.Done():
		default:
			t.Fatalf("expected connection %s forcibly closed", client.ID)
		}
		if _, ok := tc.registry.Lookup(client); ok {
			t.Fatalf("expected binding removed for %s", client.ID)
		}
	}

	// Unrelated sessions are untouched.
	if _, ok := tc.registry.Lookup(other); !ok {
		t.Fatalf("expected sub-b session to survive")
	}
	mustNoEvent(t, other.Events)
}
