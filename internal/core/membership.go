package core

import "sync"

// Membership maps channel keys to their member connections and tracks each
// connection's current channel. A connection belongs to at most one channel;
// joining a new one leaves the previous one. Channels exist only while they
// have members.
type Membership struct {
	mu      sync.RWMutex
	members map[string]map[*Client]struct{}
	current map[*Client]string
}

// NewMembership creates an empty membership manager.
func NewMembership() *Membership {
	return &Membership{
		members: make(map[string]map[*Client]struct{}),
		current: make(map[*Client]string),
	}
}

// JoinRoom moves the session's connection into a room channel. Rooms have
// open membership; this always succeeds for a valid session.
func (m *Membership) JoinRoom(session *Session, roomID string) {
	m.join(session.Client, RoomChannel(roomID))
}

// JoinDirect moves the session's connection into a direct channel, provided
// the name decomposes into two identity ids and the session's identity is
// one of them. Unauthorized or malformed joins are a silent no-op.
func (m *Membership) JoinDirect(session *Session, channelName string) bool {
	if !IsDirectParticipant(channelName, session.IdentityID) {
		return false
	}
	m.join(session.Client, DirectChannel(channelName))
	return true
}

// Leave removes the connection from its current channel, if any. Idempotent;
// safe to call during teardown races.
func (m *Membership) Leave(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(client)
}

// MembersOf returns a snapshot of the connections currently in a channel.
func (m *Membership) MembersOf(channelID string) []*Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.members[channelID]
	clients := make([]*Client, 0, len(set))
	for client := range set {
		clients = append(clients, client)
	}
	return clients
}

// IsMember reports whether a connection is currently in a channel.
func (m *Membership) IsMember(channelID string, client *Client) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.members[channelID][client]
	return ok
}

// Current returns the connection's current channel key, if any.
func (m *Membership) Current(client *Client) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	channelID, ok := m.current[client]
	return channelID, ok
}

func (m *Membership) join(client *Client, channelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leaveLocked(client)

	if _, ok := m.members[channelID]; !ok {
		m.members[channelID] = make(map[*Client]struct{})
	}
	m.members[channelID][client] = struct{}{}
	m.current[client] = channelID
}

// leaveLocked removes the connection from its channel and garbage-collects
// the channel entry when it drops its last member. Caller holds the lock.
func (m *Membership) leaveLocked(client *Client) {
	channelID, ok := m.current[client]
	if !ok {
		return
	}
	delete(m.current, client)

	set, ok := m.members[channelID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(m.members, channelID)
	}
}
