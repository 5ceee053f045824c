// Package chat holds the identifiers and wire shapes shared by the relay,
// the registry, and the transport layer.
package chat

import "encoding/json"

// RoomID names a broadcast scope. It is either a persisted chat ID or a raw
// user ID acting as that user's private room for direct pushes.
type RoomID string

// ConnID identifies one live transport session. A user may own several at
// once (multiple tabs or devices).
type ConnID string

// UserRef is the collaborator-provided user shape embedded in message
// payloads. Only the ID is read by the relay.
type UserRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
	Pic  string `json:"pic,omitempty"`
}

// ChatRef is the chat object embedded in a message payload. Users is the
// intended recipient set.
type ChatRef struct {
	ID      string    `json:"_id"`
	Name    string    `json:"chatName,omitempty"`
	IsGroup bool      `json:"isGroupChat,omitempty"`
	Users   []UserRef `json:"users"`
}

// MessagePayload is the fully-formed message object handed over by the API
// layer before the client emits it on the socket. The relay never validates
// IDs beyond presence.
type MessagePayload struct {
	ID      string  `json:"_id"`
	Sender  UserRef `json:"sender"`
	Content string  `json:"content"`
	Chat    ChatRef `json:"chat"`
}

// Recipients returns the IDs of every intended recipient except the sender.
func (m MessagePayload) Recipients() []string {
	var out []string
	for _, u := range m.Chat.Users {
		if u.ID == m.Sender.ID {
			continue
		}
		out = append(out, u.ID)
	}
	return out
}

// RawMessage keeps the untouched frame payload so recipients receive exactly
// the bytes the sender emitted.
type RawMessage = json.RawMessage
