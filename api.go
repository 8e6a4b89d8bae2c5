package grizzly

import (
	"context"
)

// Executor dispatches a command and returns its raw deferred response. The
// returned future settles exactly once: with the server's response document
// on success, with a CommandError when the server rejects the command, or
// with a plain error when dispatch itself fails. Executors must be safe for
// concurrent use and must settle from at most one goroutine per future.
//
// Retries, routing and timeouts belong to the executor; callers layering
// timeout semantics race the future against a timer and accept that the
// command still runs to completion.
type Executor interface {
	Execute(ctx context.Context, cmd *Command) *Future[*Document]
}

// System provides lifecycle and health operations.
type System interface {
	// Ping verifies the database is reachable and serving commands
	Ping(ctx context.Context) error
	// Close closes the database and releases its resources
	Close(ctx context.Context) error
}

// Administrator hands out handles on named collections.
type Administrator interface {
	// Collection returns a handle on a named collection
	Collection(name string) *Collection
	// Collections lists the database's collection names
	Collections(ctx context.Context) ([]string, error)
	// ConfigureCollection creates or updates a collection from a yaml configuration
	ConfigureCollection(ctx context.Context, config []byte) error
}

// Streamer exposes the stream of administration events.
type Streamer interface {
	// Events blocks, invoking fn for each event until the context is
	// cancelled or fn returns false
	Events(ctx context.Context, fn EventHandler) error
}

// Seeder loads documents into a collection. Seeding is a Go-level capability,
// not a wire command: the command surface is administrative only.
type Seeder interface {
	Seed(ctx context.Context, collection string, documents Documents) error
}

// Database is the full capability set of a grizzly database.
type Database interface {
	Executor
	System
	Administrator
	Streamer
	Seeder
}
