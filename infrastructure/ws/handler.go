package ws

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Options tunes the transport. The 60s pong wait mirrors the original
// server's ping timeout; the ping interval must stay below it.
type Options struct {
	SendBufferSize int
	MaxMessageSize int64
	PongWait       time.Duration
	WriteWait      time.Duration
	PingInterval   time.Duration
	AllowedOrigin  string
}

func DefaultOptions() Options {
	return Options{
		SendBufferSize: 256,
		MaxMessageSize: 64 * 1024,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		PingInterval:   54 * time.Second,
	}
}

// Attach mounts the websocket endpoint on the given mux. Each accepted
// connection gets a fresh connection ID, is registered as a sink, and runs
// its own read/write pumps until the transport closes.
func Attach(mux *http.ServeMux, log *slog.Logger, relay Relay,
	registry contract.IRegistry, opts Options) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if opts.AllowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == opts.AllowedOrigin
		},
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "websocket endpoint only accepts GET", http.StatusMethodNotAllowed)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		connID := chat.ConnID(uuid.NewString())
		client := NewClient(connID, conn, relay, log, opts)
		registry.Register(connID, client)
		log.Info("Websocket connected", "conn_id", connID, "remote", r.RemoteAddr)

		go client.writePump()
		go client.readPump()
	})
}
