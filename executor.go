package grizzly

import (
	"context"
	"fmt"
	"time"

	"github.com/autom8ter/grizzly/kv"
)

var readVerbs = map[string]bool{
	"ping":            true,
	"collStats":       true,
	"listIndexes":     true,
	"listCollections": true,
}

var mutationVerbs = map[string]bool{
	"create":        true,
	"drop":          true,
	"createIndexes": true,
	"dropIndexes":   true,
}

// Execute dispatches the command on a managed goroutine and settles the
// returned future exactly once. Side effects of a committed mutation (cache
// invalidation, the event stream, triggers) run after the future settles;
// their failures surface through the machine, never through the future.
func (d *DB) Execute(ctx context.Context, cmd *Command) *Future[*Document] {
	future := NewFuture[*Document]()
	// capture the config before the command runs - a drop removes it
	var prior *CollectionConfig
	if mutationVerbs[cmd.Verb()] {
		if state, ok := d.getState(cmd.Database(), cmd.Body().GetString(cmd.Verb())); ok {
			prior = state.config
		}
	}
	d.machine.Go(ctx, func(ctx context.Context) error {
		response, err := d.run(ctx, cmd)
		if err != nil {
			future.Fail(err)
			return nil
		}
		future.Complete(response)
		return d.afterCommit(ctx, cmd, prior, response)
	})
	return future
}

func (d *DB) run(ctx context.Context, cmd *Command) (*Document, error) {
	verb := cmd.Verb()
	if d.cache != nil && readVerbs[verb] && verb != "ping" {
		if bits, ok, err := d.cache.Get(ctx, cacheKey(cmd)); err == nil && ok {
			if doc, err := NewDocumentFromBytes(bits); err == nil {
				return doc, nil
			}
		}
	}
	response, err := d.dispatch(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if d.cache != nil && readVerbs[verb] && verb != "ping" {
		_ = d.cache.Set(ctx, cacheKey(cmd), response.Bytes(), d.cacheTTL)
	}
	return response, nil
}

func (d *DB) dispatch(ctx context.Context, cmd *Command) (*Document, error) {
	body := cmd.Body()
	switch verb := cmd.Verb(); verb {
	case "ping":
		return d.runPing(ctx)
	case "create":
		return d.runCreate(ctx, cmd.Database(), body)
	case "drop":
		return d.runDrop(ctx, cmd.Database(), body.GetString("drop"))
	case "collStats":
		return d.runCollStats(ctx, cmd.Database(), body.GetString("collStats"), body)
	case "createIndexes":
		return d.runCreateIndexes(ctx, cmd.Database(), body.GetString("createIndexes"), body)
	case "listIndexes":
		return d.runListIndexes(ctx, cmd.Database(), body.GetString("listIndexes"))
	case "dropIndexes":
		return d.runDropIndexes(ctx, cmd.Database(), body.GetString("dropIndexes"), body)
	case "listCollections":
		return d.runListCollections(ctx, cmd.Database())
	default:
		return nil, NewCommandError(CodeCommandNotFound, fmt.Sprintf("no such command: '%s'", verb), nil)
	}
}

// afterCommit invalidates cached reads and publishes the command's event for
// committed mutations. The command itself has already settled successfully.
func (d *DB) afterCommit(ctx context.Context, cmd *Command, prior *CollectionConfig, response *Document) error {
	verb := cmd.Verb()
	if !mutationVerbs[verb] {
		return nil
	}
	if d.cache != nil {
		_ = d.cache.DelPrefix(ctx, cmd.Database()+"|")
	}
	collection := cmd.Body().GetString(verb)
	event := Event{
		ID:         newID(),
		Operation:  verb,
		Database:   cmd.Database(),
		Collection: collection,
		Timestamp:  time.Now(),
		Response:   response,
		Metadata:   ExtractMetadata(ctx),
	}
	d.events.Broadcast(ctx, eventsChannel, event)
	config := prior
	if state, ok := d.getState(cmd.Database(), collection); ok {
		config = state.config
	}
	return d.runTriggers(ctx, config, event)
}

// cacheKey is stable for a given command body: field order is append order
func cacheKey(cmd *Command) string {
	return fmt.Sprintf("%s|%s", cmd.Database(), cmd.String())
}

func (d *DB) runPing(ctx context.Context) (*Document, error) {
	if err := d.kv.Tx(ctx, kv.TxOpts{IsReadOnly: true}, func(ctx context.Context, tx kv.Tx) error {
		_, err := tx.Get(ctx, []byte("internal.ping"))
		return err
	}); err != nil {
		return nil, err
	}
	return okResponse()
}

func okResponse() (*Document, error) {
	doc := NewDocument()
	if err := doc.Set("ok", 1); err != nil {
		return nil, err
	}
	return doc, nil
}
