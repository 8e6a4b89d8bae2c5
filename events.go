package grizzly

import (
	"context"
	"fmt"
	"time"

	"github.com/autom8ter/machine/v4"
)

const eventsChannel = "events"

// Event records a successful state changing command against the database.
type Event struct {
	// ID uniquely identifies the event
	ID string `json:"id" validate:"required"`
	// Operation is the command verb that produced the event
	Operation string `json:"operation" validate:"required"`
	// Database is the database the command ran against
	Database string `json:"database" validate:"required"`
	// Collection is the collection the command targeted (empty for database level commands)
	Collection string `json:"collection"`
	// Timestamp is when the command committed
	Timestamp time.Time `json:"timestamp" validate:"required"`
	// Response is the command's response document
	Response *Document `json:"response"`
	// Metadata carries the metadata of the request that issued the command
	Metadata *Document `json:"metadata"`
}

// Namespace returns the event's database.collection namespace
func (e Event) Namespace() string {
	if e.Collection == "" {
		return e.Database
	}
	return fmt.Sprintf("%s.%s", e.Database, e.Collection)
}

// Document returns the event as a json document
func (e Event) Document() (*Document, error) {
	return NewDocumentFrom(e)
}

// EventHandler handles events pulled from the event stream. Returning false stops the stream.
type EventHandler func(ctx context.Context, event Event) (bool, error)

type stream[T any] struct {
	machine machine.Machine
}

func newStream[T any](m machine.Machine) stream[T] {
	return stream[T]{machine: m}
}

func (s stream[T]) Broadcast(ctx context.Context, channel string, msg T) {
	s.machine.Publish(ctx, machine.Message{
		Channel: channel,
		Body:    msg,
	})
}

// Pull blocks until fn returns false, fn returns an error, or the context is cancelled
func (s stream[T]) Pull(ctx context.Context, channel string, fn func(ctx context.Context, msg T) (bool, error)) error {
	return s.machine.Subscribe(ctx, channel, func(ctx context.Context, msg machine.Message) (bool, error) {
		return fn(ctx, msg.Body.(T))
	})
}
