package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/covechat/cove-server/internal/auth"
	"github.com/covechat/cove-server/internal/store"
)

// Session is the live binding of one connection to one authenticated
// identity, with the profile snapshot cached at authentication time.
type Session struct {
	Client      *Client
	IdentityID  string
	DisplayName string
	AvatarURL   string
	Premium     bool
}

// Registry is the single source of truth for who is online and as whom.
// It maps connections to sessions and supports reverse lookup by identity
// so an admin ban can reach every device of a user.
type Registry struct {
	mu         sync.RWMutex
	byConn     map[*Client]*Session
	byIdentity map[string]map[*Client]*Session

	users  store.UserStore
	tokens *auth.TokenConfig
	log    *zerolog.Logger
}

// NewRegistry creates an empty session registry.
func NewRegistry(users store.UserStore, tokens *auth.TokenConfig, logger *zerolog.Logger) *Registry {
	return &Registry{
		byConn:     make(map[*Client]*Session),
		byIdentity: make(map[string]map[*Client]*Session),
		users:      users,
		tokens:     tokens,
		log:        logger,
	}
}

// Authenticate verifies a session token, loads the identity and binds the
// connection to it. A second call for the same connection overwrites the
// prior binding.
func (r *Registry) Authenticate(ctx context.Context, client *Client, token string) (*Session, error) {
	identityID, err := auth.VerifyToken(r.tokens, token)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetUser(ctx, identityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, auth.ErrUnknownIdentity
		}
		return nil, err
	}
	if user.Banned {
		return nil, auth.ErrBanned
	}

	session := &Session{
		Client:      client,
		IdentityID:  user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Premium:     user.Premium,
	}

	r.mu.Lock()
	if prior, ok := r.byConn[client]; ok {
		r.dropIdentityIndex(prior)
	}
	r.byConn[client] = session
	if _, ok := r.byIdentity[user.ID]; !ok {
		r.byIdentity[user.ID] = make(map[*Client]*Session)
	}
	r.byIdentity[user.ID][client] = session
	r.mu.Unlock()

	return session, nil
}

// Lookup returns the session bound to a connection, if any.
func (r *Registry) Lookup(client *Client) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.byConn[client]
	return session, ok
}

// Terminate removes the binding for a connection. Idempotent; called on
// disconnect and on forced eviction. The last-seen update is best effort
// and never blocks teardown.
func (r *Registry) Terminate(client *Client) {
	r.mu.Lock()
	session, ok := r.byConn[client]
	if ok {
		delete(r.byConn, client)
		r.dropIdentityIndex(session)
	}
	r.mu.Unlock()

	if !ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.users.TouchLastSeen(ctx, session.IdentityID); err != nil {
			r.log.Warn().Err(err).Str("identity", session.IdentityID).Msg("last-seen update failed")
		}
	}()
}

// Evict sends a banned notice to every live session of an identity and
// forcibly terminates the underlying connections. Used by the admin ban.
func (r *Registry) Evict(identityID string) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.byIdentity[identityID]))
	for _, session := range r.byIdentity[identityID] {
		sessions = append(sessions, session)
	}
	r.mu.RUnlock()

	for _, session := range sessions {
		push(session.Client, &Event{Kind: EventBannedNotice}, r.log)
		session.Client.Close()
		r.Terminate(session.Client)
	}

	if len(sessions) > 0 {
		r.log.Info().Str("identity", identityID).Int("sessions", len(sessions)).Msg("evicted live sessions")
	}
}

// SessionCount returns the number of live sessions.
func (r *Registry) SessionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// dropIdentityIndex removes a session from the reverse index. Caller holds
// the write lock.
func (r *Registry) dropIdentityIndex(session *Session) {
	clients, ok := r.byIdentity[session.IdentityID]
	if !ok {
		return
	}
	delete(clients, session.Client)
	if len(clients) == 0 {
		delete(r.byIdentity, session.IdentityID)
	}
}

// push queues an event for a client without blocking. Slow consumers whose
// queue is full lose the event; membership, not transport backpressure,
// defines the delivery set.
func push(client *Client, event *Event, logger *zerolog.Logger) {
	select {
	case client.Events <- event:
	default:
		if logger != nil {
			logger.Warn().Str("client_id", client.ID).Msg("event queue full, dropping event")
		}
	}
}
