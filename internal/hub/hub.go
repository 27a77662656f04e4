package hub

import (
	"encoding/json"
	"sync"

	pkglog "github.com/maseurodrigo/TipStream-sub000/pkg/log"
)

// Hub tracks every live connection and which sessions each one has joined.
// Sessions are structural: they exist while at least one member remains and
// are never pre-declared, so joining an unknown session ID simply creates it.
type Hub struct {
	clients     map[string]*Client            // clientID -> client
	rooms       map[string]map[string]*Client // sessionID -> clientID -> client
	memberships map[string]map[string]bool    // clientID -> sessionID set
	register    chan *Client
	unregister  chan *Client
	stop        chan struct{}
	done        chan struct{}
	mu          sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		rooms:       make(map[string]map[string]*Client),
		memberships: make(map[string]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's registration loop. Joins, leaves and broadcasts are
// handled synchronously under the hub lock; only connection lifecycle flows
// through here.
func (h *Hub) Run() {
	defer close(h.done)
	l := pkglog.L()
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l.Info().Str(pkglog.FieldClientID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.removeClient(client)
			l.Info().Str(pkglog.FieldClientID, client.ID).Msg("client unregistered")

		case <-h.stop:
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				delete(h.memberships, id)
				client.closeSend()
			}
			h.rooms = make(map[string]map[string]*Client)
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts the hub down, closing every client's send channel.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

// Register adds a client to the hub. After Stop it returns without
// registering, so handlers that accept a connection mid-shutdown do not
// block forever.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub and every session it joined.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// JoinRoom adds a client to a session. Joining a session the client is
// already a member of is a no-op. If replay is non-nil it is evaluated under
// the hub lock and its result, if any, queued to the joining client there.
// Broadcasts take the same lock after storing their state, so the snapshot a
// joiner sees plus the live updates that follow always add up to the newest
// state, with the snapshot ordered first.
func (h *Hub) JoinRoom(client *Client, sessionID string, replay func() []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[sessionID]; !ok {
		h.rooms[sessionID] = make(map[string]*Client)
	}
	h.rooms[sessionID][client.ID] = client

	if _, ok := h.memberships[client.ID]; !ok {
		h.memberships[client.ID] = make(map[string]bool)
	}
	h.memberships[client.ID][sessionID] = true

	if replay != nil {
		if snapshot := replay(); snapshot != nil {
			client.enqueue(snapshot)
		}
	}

	l := pkglog.L()
	l.Info().Str(pkglog.FieldClientID, client.ID).Str(pkglog.FieldSessionID, sessionID).Msg("client joined session")
}

// LeaveRoom removes a client from a session. Leaving a session the client
// never joined is not an error.
func (h *Hub) LeaveRoom(client *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeMembership(client.ID, sessionID)

	l := pkglog.L()
	l.Info().Str(pkglog.FieldClientID, client.ID).Str(pkglog.FieldSessionID, sessionID).Msg("client left session")
}

// BroadcastToRoom sends a message to every member of a session except the
// excluded client ID. Delivery is synchronous with respect to membership
// changes: a client either was a member when the broadcast ran, or it was not.
func (h *Hub) BroadcastToRoom(sessionID string, message interface{}, exclude string) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[sessionID]
	if !ok {
		return nil
	}

	for clientID, client := range roomClients {
		if clientID == exclude {
			continue
		}
		if !client.enqueue(data) {
			// Send buffer full; treat as a dead connection.
			go h.Unregister(client)
		}
	}
	return nil
}

// SendToClient sends a message to a specific registered client. Unknown
// client IDs are ignored; the peer may have disconnected since the caller
// looked it up.
func (h *Hub) SendToClient(clientID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		return nil
	}

	if !client.enqueue(data) {
		go h.Unregister(client)
	}
	return nil
}

// RoomMembers returns the connection IDs of every member of a session,
// including the caller's own if it is a member. Order is not significant.
func (h *Hub) RoomMembers(sessionID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients := h.rooms[sessionID]
	members := make([]string, 0, len(roomClients))
	for clientID := range roomClients {
		members = append(members, clientID)
	}
	return members
}

// RoomsOf returns the session IDs a client currently belongs to. Used on
// disconnect to enumerate implicit leaves from the registry rather than from
// client-provided state.
func (h *Hub) RoomsOf(clientID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sessions := h.memberships[clientID]
	out := make([]string, 0, len(sessions))
	for sessionID := range sessions {
		out = append(out, sessionID)
	}
	return out
}

// Stats returns the number of active sessions and connected clients.
func (h *Hub) Stats() (sessions, clients int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms), len(h.clients)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	for sessionID := range h.memberships[client.ID] {
		h.removeMembership(client.ID, sessionID)
	}
	delete(h.memberships, client.ID)
	delete(h.clients, client.ID)
	client.closeSend()
}

// removeMembership must be called with h.mu held.
func (h *Hub) removeMembership(clientID, sessionID string) {
	if roomClients, ok := h.rooms[sessionID]; ok {
		delete(roomClients, clientID)
		if len(roomClients) == 0 {
			delete(h.rooms, sessionID)
		}
	}
	if sessions, ok := h.memberships[clientID]; ok {
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(h.memberships, clientID)
		}
	}
}
