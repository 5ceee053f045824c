// Package runtime holds the in-memory relay core: the connection registry
// and the relay worker that fans events out to connected clients. All state
// here is scoped to a single running process.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"sync"
)

type Set map[chat.ConnID]struct{}

// Registry maps live connections to their sink, their bound user identity,
// and their joined rooms. The room->connection index and the
// connection->room index are mutated together under one lock so they can
// never disagree.
type Registry struct {
	mu          sync.RWMutex
	sinks       map[chat.ConnID]contract.EventSink
	identities  map[chat.ConnID]string
	roomMembers map[chat.RoomID]Set
	joinedRooms map[chat.ConnID]map[chat.RoomID]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		sinks:       make(map[chat.ConnID]contract.EventSink),
		identities:  make(map[chat.ConnID]string),
		roomMembers: make(map[chat.RoomID]Set),
		joinedRooms: make(map[chat.ConnID]map[chat.RoomID]struct{}),
	}
}

// Register records a freshly-accepted connection and its sink. The
// connection starts unidentified: it is not addressable by any user ID until
// Bind succeeds.
func (r *Registry) Register(connID chat.ConnID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[connID] = sink
}

// Bind associates a user identity with a connection and joins the
// connection to the user's private room, so direct deliveries addressed to
// that user reach this connection. Binding is idempotent per connection.
// An empty userID is refused and reported to the caller; per the historical
// behavior it must never be fatal.
func (r *Registry) Bind(connID chat.ConnID, userID string) bool {
	if userID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[connID]; !ok {
		return false
	}
	r.identities[connID] = userID
	r.join(connID, chat.RoomID(userID))
	return true
}

// Join subscribes a connection to a room. Any opaque string is a valid room
// ID; rooms exist implicitly for as long as they have at least one member.
func (r *Registry) Join(connID chat.ConnID, roomID chat.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[connID]; !ok {
		return
	}
	r.join(connID, roomID)
}

// join must be called with the write lock held.
func (r *Registry) join(connID chat.ConnID, roomID chat.RoomID) {
	if _, ok := r.roomMembers[roomID]; !ok {
		r.roomMembers[roomID] = make(Set)
	}
	r.roomMembers[roomID][connID] = struct{}{}

	if _, ok := r.joinedRooms[connID]; !ok {
		r.joinedRooms[connID] = make(map[chat.RoomID]struct{})
	}
	r.joinedRooms[connID][roomID] = struct{}{}
}

// SinksForRoom resolves all connections currently joined to a room, minus an
// excluded connection (the sender). An unknown room is not an error and
// yields nil, which silently drops any relay targeting it.
func (r *Registry) SinksForRoom(roomID chat.RoomID, exclude chat.ConnID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connID := range members {
		if connID == exclude {
			continue
		}
		if sink, exists := r.sinks[connID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Sink returns the sink of a single connection, for sender-only replies.
func (r *Registry) Sink(connID chat.ConnID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.sinks[connID]
	return sink, ok
}

// Identity returns the user ID bound to a connection, or "" while the
// connection is still unidentified.
func (r *Registry) Identity(connID chat.ConnID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.identities[connID]
}

// Count reports the number of live connections, for telemetry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}

// Unregister removes a connection from every room it had joined and drops
// its identity and sink. It is bound to the transport's terminal close
// signal and leaves no dangling membership behind. Empty rooms are removed
// entirely so the maps do not grow over time.
func (r *Registry) Unregister(connID chat.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID := range r.joinedRooms[connID] {
		if members, ok := r.roomMembers[roomID]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(r.roomMembers, roomID)
			}
		}
	}
	delete(r.joinedRooms, connID)
	delete(r.identities, connID)
	delete(r.sinks, connID)
}
