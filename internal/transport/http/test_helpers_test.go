package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/config"
	"github.com/covechat/cove-server/internal/core"
	"github.com/covechat/cove-server/internal/service/friends"
	"github.com/covechat/cove-server/internal/store"
	"github.com/covechat/cove-server/internal/store/sqlite"
)

const testAdminID = "admin-1"

// stubVerifier accepts any credential registered in its map and rejects
// everything else, standing in for the external identity provider.
type stubVerifier struct {
	identities map[string]*auth.ExternalIdentity
}

func (v *stubVerifier) Verify(_ context.Context, providerToken string) (*auth.ExternalIdentity, error) {
	identity, ok := v.identities[providerToken]
	if !ok {
		return nil, auth.ErrCredentialRejected
	}
	return identity, nil
}

// testServer is a fully wired server over an in-memory store.
type testServer struct {
	srv      *httptest.Server
	store    *sqlite.SQLiteStore
	tokens   *auth.TokenConfig
	verifier *stubVerifier
	registry *core.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	logger := zerolog.Nop()
	tokens := &auth.TokenConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "cove",
		Audience: "cove",
		TTL:      time.Hour,
	}
	verifier := &stubVerifier{identities: make(map[string]*auth.ExternalIdentity)}

	registry := core.NewRegistry(st, tokens, &logger)
	membership := core.NewMembership()
	dispatcher := core.NewDispatcher(registry, membership, st, &logger)
	moderator := core.NewModerator(st, st, registry, dispatcher, testAdminID, &logger)

	cfg := config.Default()
	httpSrv := NewServer(&cfg, Services{
		Auth:       auth.NewService(st, verifier, tokens),
		Registry:   registry,
		Membership: membership,
		Dispatcher: dispatcher,
		Moderator:  moderator,
		Friends:    friends.New(st),
		Store:      st,
	}, &logger)

	srv := httptest.NewServer(httpSrv.Handler)
	t.Cleanup(srv.Close)

	return &testServer{
		srv:      srv,
		store:    st,
		tokens:   tokens,
		verifier: verifier,
		registry: registry,
	}
}

// addUser seeds a user row and returns a valid session token for it.
func (ts *testServer) addUser(t *testing.T, id, displayName string) string {
	t.Helper()
	_, err := ts.store.UpsertUser(context.Background(), id, displayName, "", "", false)
	require.NoError(t, err)
	return ts.token(t, id)
}

func (ts *testServer) token(t *testing.T, id string) string {
	t.Helper()
	token, err := auth.IssueToken(ts.tokens, id)
	require.NoError(t, err)
	return token
}

func (ts *testServer) seedMessage(t *testing.T, channelID, authorID, body string) *store.Message {
	t.Helper()
	msg := &store.Message{ChannelID: channelID, AuthorID: authorID, Body: body}
	require.NoError(t, ts.store.AppendMessage(context.Background(), msg))
	return msg
}

// request performs an HTTP request against the test server. A non-empty
// token is sent as a bearer credential.
func (ts *testServer) request(t *testing.T, method, path, token string, body any) *stdhttp.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := stdhttp.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *stdhttp.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
