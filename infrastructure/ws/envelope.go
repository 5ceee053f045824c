// Package ws is the websocket transport: it upgrades HTTP connections,
// frames events as JSON envelopes, and bridges each connection to the relay
// through an EventSink. Event names on the wire are the historical ones and
// must not be renamed.
package ws

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"encoding/json"
	"fmt"
)

const (
	EventSetup      = "setup"
	EventJoinChat   = "join chat"
	EventTyping     = "typing"
	EventStopTyping = "stop typing"
	EventNewMessage = "new message"
)

var ErrUnknownEvent = fmt.Errorf("unknown event")

// Envelope is one websocket frame: a named event plus an optional JSON body.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeCommand validates a raw frame and turns it into a typed relay
// command. Every malformed-payload case is a returned error here, so the
// relay itself only ever sees well-formed commands.
func DecodeCommand(connID chat.ConnID, data []byte) (chat.Command, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("invalid frame: %w", err)
	}

	switch env.Event {
	case EventSetup:
		userID, err := decodeUserID(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("invalid setup payload: %w", err)
		}
		return chat.SetupCommand{Conn: connID, UserID: userID}, nil

	case EventJoinChat:
		room, err := decodeRoom(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("invalid join payload: %w", err)
		}
		return chat.JoinCommand{Conn: connID, Room: room}, nil

	case EventTyping:
		room, err := decodeRoom(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("invalid typing payload: %w", err)
		}
		return chat.TypingStartCommand{Conn: connID, Room: room}, nil

	case EventStopTyping:
		room, err := decodeRoom(env.Payload)
		if err != nil {
			return nil, fmt.Errorf("invalid stop typing payload: %w", err)
		}
		return chat.TypingStopCommand{Conn: connID, Room: room}, nil

	case EventNewMessage:
		var msg chat.MessagePayload
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, fmt.Errorf("invalid message payload: %w", err)
		}
		return chat.NewMessageCommand{Conn: connID, Message: msg, Raw: env.Payload}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}

// decodeUserID accepts either the full user object the frontend sends on
// setup, or a bare string ID.
func decodeUserID(payload json.RawMessage) (string, error) {
	var user chat.UserRef
	if err := json.Unmarshal(payload, &user); err == nil {
		return user.ID, nil
	}
	var id string
	if err := json.Unmarshal(payload, &id); err != nil {
		return "", err
	}
	return id, nil
}

func decodeRoom(payload json.RawMessage) (chat.RoomID, error) {
	var room string
	if err := json.Unmarshal(payload, &room); err != nil {
		return "", err
	}
	return chat.RoomID(room), nil
}

// EncodeEvent frames an outbound event. Events without a body are sent as
// the bare envelope, matching the original emitter.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	env := Envelope{Event: e.Name()}
	if p := e.Payload(); p != nil {
		body, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		env.Payload = body
	}
	return json.Marshal(env)
}
