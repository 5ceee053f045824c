package chat

// Command is the typed union of inbound relay events. The transport boundary
// decodes and validates raw frames into one of these before any relay logic
// runs, so a malformed payload can never reach the fan-out path.
type Command interface {
	Origin() ConnID
}

// SetupCommand binds a user identity to a connection.
type SetupCommand struct {
	Conn   ConnID
	UserID string
}

func (c SetupCommand) Origin() ConnID { return c.Conn }

// JoinCommand subscribes a connection to a room.
type JoinCommand struct {
	Conn ConnID
	Room RoomID
}

func (c JoinCommand) Origin() ConnID { return c.Conn }

// TypingStartCommand signals the sender started typing in a room.
type TypingStartCommand struct {
	Conn ConnID
	Room RoomID
}

func (c TypingStartCommand) Origin() ConnID { return c.Conn }

// TypingStopCommand signals the sender stopped typing in a room.
type TypingStopCommand struct {
	Conn ConnID
	Room RoomID
}

func (c TypingStopCommand) Origin() ConnID { return c.Conn }

// NewMessageCommand asks the relay to deliver an already-persisted message to
// every recipient's private room. Raw carries the original frame payload.
type NewMessageCommand struct {
	Conn    ConnID
	Message MessagePayload
	Raw     RawMessage
}

func (c NewMessageCommand) Origin() ConnID { return c.Conn }

// DisconnectCommand is issued exactly once when a connection's transport
// terminates. It is the only path that tears down registry state.
type DisconnectCommand struct {
	Conn ConnID
}

func (c DisconnectCommand) Origin() ConnID { return c.Conn }
