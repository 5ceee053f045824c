package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/runtime"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type capturingRelay struct {
	mu       sync.Mutex
	commands []chat.Command
}

func (r *capturingRelay) Dispatch(cmd chat.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

func (r *capturingRelay) all() []chat.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]chat.Command, len(r.commands))
	copy(out, r.commands)
	return out
}

func Test_Consume_Reports_Full_And_Closed_Sinks(t *testing.T) {
	req := require.New(t)

	opts := DefaultOptions()
	opts.SendBufferSize = 1
	client := &Client{
		id:   "c1",
		send: make(chan []byte, opts.SendBufferSize),
		log:  slog.Default(),
		opts: opts,
	}

	// First event fits the buffer
	req.NoError(client.Consume(context.Background(), event.Connected{}))

	// Second one finds it full; the relay skips this recipient
	err := client.Consume(context.Background(), event.Connected{})
	req.ErrorIs(err, errors.ErrSinkFull)

	// After close every delivery is refused
	client.closed.Store(true)
	err = client.Consume(context.Background(), event.Connected{})
	req.ErrorIs(err, errors.ErrSinkClosed)
}

// dialTestServer mounts the transport over a real websocket and returns a
// connected client side.
func dialTestServer(t *testing.T, relay Relay) *websocket.Conn {
	t.Helper()

	registry := runtime.NewRegistry()
	mux := http.NewServeMux()
	Attach(mux, slog.Default(), relay, registry, DefaultOptions())

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition never satisfied")
}

func Test_ReadPump_Decodes_Frames_Into_Commands(t *testing.T) {
	req := require.New(t)
	relay := &capturingRelay{}
	conn := dialTestServer(t, relay)

	req.NoError(conn.WriteJSON(map[string]any{
		"event":   "setup",
		"payload": map[string]string{"_id": "user-7"},
	}))
	req.NoError(conn.WriteJSON(map[string]any{
		"event":   "join chat",
		"payload": "room-42",
	}))

	waitFor(t, func() bool { return len(relay.all()) == 2 })

	commands := relay.all()
	setup, ok := commands[0].(chat.SetupCommand)
	req.True(ok)
	req.Equal("user-7", setup.UserID)

	join, ok := commands[1].(chat.JoinCommand)
	req.True(ok)
	req.Equal(chat.RoomID("room-42"), join.Room)
	req.Equal(setup.Conn, join.Conn)
}

func Test_Malformed_Frame_Is_Dropped_Not_Fatal(t *testing.T) {
	req := require.New(t)
	relay := &capturingRelay{}
	conn := dialTestServer(t, relay)

	// Garbage first, then a valid frame: the connection survives
	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	req.NoError(conn.WriteJSON(map[string]any{"event": "typing", "payload": "room-42"}))

	waitFor(t, func() bool { return len(relay.all()) == 1 })
	_, ok := relay.all()[0].(chat.TypingStartCommand)
	req.True(ok)
}

func Test_Close_Dispatches_Disconnect_Exactly_Once(t *testing.T) {
	req := require.New(t)
	relay := &capturingRelay{}
	conn := dialTestServer(t, relay)

	req.NoError(conn.WriteJSON(map[string]any{"event": "typing", "payload": "room-42"}))
	waitFor(t, func() bool { return len(relay.all()) == 1 })

	req.NoError(conn.Close())

	waitFor(t, func() bool {
		commands := relay.all()
		_, ok := commands[len(commands)-1].(chat.DisconnectCommand)
		return ok
	})

	// Give the pumps a moment to prove no duplicate follows
	time.Sleep(100 * time.Millisecond)
	disconnects := 0
	for _, cmd := range relay.all() {
		if _, ok := cmd.(chat.DisconnectCommand); ok {
			disconnects++
		}
	}
	req.Equal(1, disconnects)
}

func Test_End_To_End_Relay_Between_Two_Sockets(t *testing.T) {
	req := require.New(t)

	registry := runtime.NewRegistry()
	relay := runtime.NewRelay(slog.Default(), registry, 64, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = relay.Run(ctx) }()

	mux := http.NewServeMux()
	Attach(mux, slog.Default(), relay, registry, DefaultOptions())
	server := httptest.NewServer(mux)
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	dial := func() *websocket.Conn {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		req.NoError(err)
		return conn
	}
	readEvent := func(conn *websocket.Conn, want string) json.RawMessage {
		req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
		for {
			var env Envelope
			req.NoError(conn.ReadJSON(&env))
			if env.Event == want {
				return env.Payload
			}
		}
	}

	alice := dial()
	defer alice.Close()
	bob := dial()
	defer bob.Close()

	req.NoError(alice.WriteJSON(map[string]any{"event": "setup", "payload": map[string]string{"_id": "alice"}}))
	readEvent(alice, "connected")
	req.NoError(bob.WriteJSON(map[string]any{"event": "setup", "payload": map[string]string{"_id": "bob"}}))
	readEvent(bob, "connected")

	message := map[string]any{
		"_id":     "m1",
		"sender":  map[string]string{"_id": "alice"},
		"content": "hello",
		"chat": map[string]any{
			"_id":   "chat-1",
			"users": []map[string]string{{"_id": "alice"}, {"_id": "bob"}},
		},
	}
	req.NoError(alice.WriteJSON(map[string]any{"event": "new message", "payload": message}))

	payload := readEvent(bob, "message recieved")
	var received struct {
		Content string `json:"content"`
	}
	req.NoError(json.Unmarshal(payload, &received))
	req.Equal("hello", received.Content)
}
