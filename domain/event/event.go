// Package event defines the outbound events the relay pushes to connected
// clients. Wire names are kept exactly as the historical frontend expects
// them, including the misspelled "message recieved".
package event

import "chat-relay/domain/chat"

// DomainEvent is anything the relay can push to a client sink. Name is the
// wire event name; Payload is the JSON-serializable body, nil when the event
// carries none.
type DomainEvent interface {
	Name() string
	Payload() any
}

// Connected acknowledges a successful identity setup. Sent to the
// originating connection only.
type Connected struct{}

func (Connected) Name() string { return "connected" }

func (Connected) Payload() any { return nil }

// TypingStarted is re-emitted to every other connection in the room.
// The original emits it bare, so it carries no payload.
type TypingStarted struct {
	Room chat.RoomID
}

func (TypingStarted) Name() string { return "typing" }

func (TypingStarted) Payload() any { return nil }

// TypingStopped mirrors TypingStarted.
type TypingStopped struct {
	Room chat.RoomID
}

func (TypingStopped) Name() string { return "stop typing" }

func (TypingStopped) Payload() any { return nil }

// MessageReceived delivers a message to one recipient's connections. Raw is
// the sender's payload, forwarded byte-identical.
type MessageReceived struct {
	Room chat.RoomID
	Raw  chat.RawMessage
}

func (MessageReceived) Name() string { return "message recieved" }

func (e MessageReceived) Payload() any { return e.Raw }
