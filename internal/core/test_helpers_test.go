package core

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/store"
	"github.com/covechat/cove-server/internal/store/sqlite"
)

type testCore struct {
	store      store.Store
	tokens     *auth.TokenConfig
	registry   *Registry
	membership *Membership
	dispatcher *Dispatcher
}

func newTestCore(t *testing.T) *testCore {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	tokens := &auth.TokenConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}

	registry := NewRegistry(st, tokens, &logger)
	membership := NewMembership()
	dispatcher := NewDispatcher(registry, membership, st, &logger)

	return &testCore{
		store:      st,
		tokens:     tokens,
		registry:   registry,
		membership: membership,
		dispatcher: dispatcher,
	}
}

// connect creates a user, mints a token and authenticates a fresh client.
func (tc *testCore) connect(t *testing.T, identityID, displayName string) (*Client, *Session) {
	t.Helper()

	ctx := context.Background()
	if _, err := tc.store.UpsertUser(ctx, identityID, displayName, "https://cdn/"+identityID+".png", "", false); err != nil {
		t.Fatalf("upsert user %s: %v", identityID, err)
	}

	token, err := auth.IssueToken(tc.tokens, identityID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	client := NewClient("conn-" + identityID)
	session, err := tc.registry.Authenticate(ctx, client, token)
	if err != nil {
		t.Fatalf("authenticate %s: %v", identityID, err)
	}
	return client, session
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got kind %v", ev.Kind)
	default:
	}
}
