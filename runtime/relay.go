package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Relay interprets inbound client commands and fans the resulting events out
// to the correct recipient sinks, always excluding the originating
// connection. It runs as a single supervised worker consuming a buffered
// command channel, so registry mutations happen from one logical flow and
// each command is handled to completion before the next.
//
// Nothing here is ever fatal: malformed payloads are dropped with a log
// line, unresolved rooms or users are silent no-ops, and a sink failing
// mid-fan-out never aborts the remaining deliveries.
type Relay struct {
	log             *slog.Logger
	registry        contract.IRegistry
	commands        chan chat.Command
	deliveryTimeout time.Duration
}

func NewRelay(log *slog.Logger, registry contract.IRegistry,
	bufferSize int, deliveryTimeout time.Duration) *Relay {
	return &Relay{
		log:             log,
		registry:        registry,
		commands:        make(chan chat.Command, bufferSize),
		deliveryTimeout: deliveryTimeout,
	}
}

// Dispatch hands a decoded command to the relay worker. It never blocks the
// transport read loop: when the buffer is full the command is dropped with a
// warning, which only degrades typing indicators and live delivery, never
// persisted state.
func (r *Relay) Dispatch(cmd chat.Command) {
	select {
	case r.commands <- cmd:
	default:
		r.log.Warn("Relay command buffer full, dropping command",
			"conn_id", cmd.Origin())
	}
}

// Run drains the command channel until the context is canceled. Returning
// nil on a closed channel tells the supervisor this is a normal stop.
func (r *Relay) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.log.Debug("Stopping relay worker")
			return nil
		case cmd, ok := <-r.commands:
			if !ok {
				return nil
			}
			r.handle(ctx, cmd)
		}
	}
}

func (r *Relay) handle(ctx context.Context, cmd chat.Command) {
	switch c := cmd.(type) {
	case chat.SetupCommand:
		r.handleSetup(ctx, c)
	case chat.JoinCommand:
		r.registry.Join(c.Conn, c.Room)
		r.log.Info(fmt.Sprintf("Connection joined room %s", c.Room), "conn_id", c.Conn)
	case chat.TypingStartCommand:
		r.fanout(ctx, r.registry.SinksForRoom(c.Room, c.Conn), event.TypingStarted{Room: c.Room})
	case chat.TypingStopCommand:
		r.fanout(ctx, r.registry.SinksForRoom(c.Room, c.Conn), event.TypingStopped{Room: c.Room})
	case chat.NewMessageCommand:
		r.handleNewMessage(ctx, c)
	case chat.DisconnectCommand:
		r.registry.Unregister(c.Conn)
		r.log.Debug("Connection unregistered", "conn_id", c.Conn)
	default:
		r.log.Warn("Unknown relay command", "conn_id", cmd.Origin())
	}
}

// handleSetup transitions a connection from unidentified to identified and
// acknowledges the sender only. An empty user ID is refused upstream by the
// registry and logged here, never surfaced to the client.
func (r *Relay) handleSetup(ctx context.Context, cmd chat.SetupCommand) {
	if !r.registry.Bind(cmd.Conn, cmd.UserID) {
		r.log.Warn("Identity setup without a user id, ignoring", "conn_id", cmd.Conn)
		return
	}
	sink, ok := r.registry.Sink(cmd.Conn)
	if !ok {
		// Connection closed between dispatch and handling.
		return
	}
	r.deliver(ctx, sink, event.Connected{})
}

// handleNewMessage fans one message out to every intended recipient except
// the sender, through each recipient's private room, reaching all of their
// live connections. Recipients with no live connection are skipped silently.
func (r *Relay) handleNewMessage(ctx context.Context, cmd chat.NewMessageCommand) {
	if len(cmd.Message.Chat.Users) == 0 {
		r.log.Warn("chat.users not defined, dropping message", "conn_id", cmd.Conn)
		return
	}
	for _, userID := range cmd.Message.Recipients() {
		room := chat.RoomID(userID)
		evt := event.MessageReceived{Room: room, Raw: cmd.Raw}
		r.fanout(ctx, r.registry.SinksForRoom(room, cmd.Conn), evt)
	}
}

// fanout pushes one event to each resolved sink. Delivery is best effort and
// never atomic across recipients: a sink that fails (full buffer, closed
// connection) is skipped and the loop continues.
func (r *Relay) fanout(ctx context.Context, sinks []contract.EventSink, evt event.DomainEvent) {
	for _, sink := range sinks {
		r.deliver(ctx, sink, evt)
	}
}

func (r *Relay) deliver(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	deliveryCtx, cancel := context.WithTimeout(ctx, r.deliveryTimeout)
	defer cancel()
	if err := sink.Consume(deliveryCtx, evt); err != nil {
		r.log.Debug("Skipping recipient", "event", evt.Name(), "error", err)
	}
}
