//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one side of a live connection: the relay calls Consume to
// push an outbound event, the transport drains it to the wire. Consume must
// never block longer than ctx allows; a full or closed sink returns an error
// and the fan-out moves on.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry tracks which connections exist, who they claim to be, and which
// rooms they joined. All methods are safe for concurrent use.
type IRegistry interface {
	Register(connID chat.ConnID, sink EventSink)
	Bind(connID chat.ConnID, userID string) bool
	Join(connID chat.ConnID, roomID chat.RoomID)
	SinksForRoom(roomID chat.RoomID, exclude chat.ConnID) []EventSink
	Sink(connID chat.ConnID) (EventSink, bool)
	Unregister(connID chat.ConnID)
}

// IRelay accepts decoded inbound commands from the transport layer.
type IRelay interface {
	Dispatch(cmd chat.Command)
}
