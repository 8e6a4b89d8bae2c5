package grizzly

import (
	"context"
)

// CollectionAdmin is the asynchronous administration surface of a single
// collection: drop, capped-flag check, statistics and index management.
// Every operation submits a command through the collection's executor and
// returns a future immediately; the transformation of the raw response into
// the operation's typed result happens when the raw future settles.
//
// The facade is stateless beyond the collection handle, the error classifier
// and a collStats command template cached at construction, all of which are
// read-only - concurrent calls share nothing mutable and never observe each
// other's futures.
type CollectionAdmin struct {
	coll       *Collection
	classifier Classifier
	statsCmd   *Command
}

// AdminOpt configures a CollectionAdmin.
type AdminOpt func(*CollectionAdmin)

// WithClassifier replaces the error classifier used when results are
// transformed. The default understands CommandError.
func WithClassifier(classifier Classifier) AdminOpt {
	return func(a *CollectionAdmin) {
		a.classifier = classifier
	}
}

// NewCollectionAdmin returns the administration surface of the given
// collection.
func NewCollectionAdmin(coll *Collection, opts ...AdminOpt) *CollectionAdmin {
	a := &CollectionAdmin{
		coll:       coll,
		classifier: stdClassifier{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.statsCmd = NewCommand(coll.Database(), "collStats", coll.Name()).
		WithReadPreference(coll.ReadPreference())
	return a
}

// Blocking returns the synchronous adapter over the same operations.
func (a *CollectionAdmin) Blocking() *BlockingCollectionAdmin {
	return &BlockingCollectionAdmin{admin: a}
}

// Drop drops the collection. Any failure propagates, including a command
// failure for a collection that does not exist.
func (a *CollectionAdmin) Drop(ctx context.Context) *Future[Void] {
	cmd := NewCommand(a.coll.Database(), "drop", a.coll.Name())
	return Transform(a.execute(ctx, cmd), unitTransform)
}

// IsCapped reports whether the collection is capped. A "not found" command
// failure is a success: a collection that does not exist is not capped.
func (a *CollectionAdmin) IsCapped(ctx context.Context) *Future[bool] {
	return Transform(a.execute(ctx, a.statsCmd), a.cappedTransform)
}

// Statistics returns the server's collStats response document. On a "not
// found" command failure the failure's own response document is returned as
// the result (ok: 0 and all) rather than an error - a missing collection is
// not an error for read-only introspection.
func (a *CollectionAdmin) Statistics(ctx context.Context) *Future[*Document] {
	return Transform(a.execute(ctx, a.statsCmd), a.statsTransform)
}

// StatisticsScaled is Statistics with size fields divided by scale.
func (a *CollectionAdmin) StatisticsScaled(ctx context.Context, scale int) *Future[*Document] {
	return Transform(a.execute(ctx, a.statsCmd.With("scale", scale)), a.statsTransform)
}

// CreateIndex creates a single index. Equivalent to CreateIndexes with one
// descriptor.
func (a *CollectionAdmin) CreateIndex(ctx context.Context, index Index) *Future[Void] {
	return a.CreateIndexes(ctx, index)
}

// CreateIndexes creates the given indexes in order.
func (a *CollectionAdmin) CreateIndexes(ctx context.Context, indexes ...Index) *Future[Void] {
	docs := make([]*Document, 0, len(indexes))
	for _, ix := range indexes {
		doc, err := ix.Document()
		if err != nil {
			return FailedFuture[Void](err)
		}
		docs = append(docs, doc)
	}
	cmd := NewCommand(a.coll.Database(), "createIndexes", a.coll.Name()).
		With("indexes", docs)
	return Transform(a.execute(ctx, cmd), unitTransform)
}

// GetIndexes returns the collection's index documents in the server's order.
func (a *CollectionAdmin) GetIndexes(ctx context.Context) *Future[Documents] {
	cmd := NewCommand(a.coll.Database(), "listIndexes", a.coll.Name()).
		WithReadPreference(a.coll.ReadPreference())
	return Transform(a.execute(ctx, cmd), indexListTransform)
}

// DropIndex drops the named index.
func (a *CollectionAdmin) DropIndex(ctx context.Context, name string) *Future[Void] {
	cmd := NewCommand(a.coll.Database(), "dropIndexes", a.coll.Name()).
		With("index", name)
	return Transform(a.execute(ctx, cmd), unitTransform)
}

// DropIndexModel drops the index named by the descriptor. Equivalent to
// DropIndex(ctx, index.IndexName()).
func (a *CollectionAdmin) DropIndexModel(ctx context.Context, index Index) *Future[Void] {
	return a.DropIndex(ctx, index.IndexName())
}

// DropIndexes drops every index except _id_. Equivalent to DropIndex with
// the server-recognized "*" wildcard.
func (a *CollectionAdmin) DropIndexes(ctx context.Context) *Future[Void] {
	return a.DropIndex(ctx, "*")
}

func (a *CollectionAdmin) execute(ctx context.Context, cmd *Command) *Future[*Document] {
	return a.coll.Executor().Execute(ctx, cmd)
}

// unitTransform discards the response document, passing errors through.
func unitTransform(_ *Document, err error) (Void, error) {
	return Void{}, err
}

func (a *CollectionAdmin) cappedTransform(raw *Document, err error) (bool, error) {
	if err != nil {
		if a.classifier.NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return raw.GetBool("capped"), nil
}

func (a *CollectionAdmin) statsTransform(raw *Document, err error) (*Document, error) {
	if err != nil {
		if failure, ok := a.classifier.CommandFailure(err); ok && a.classifier.NotFound(err) {
			return failure.Response, nil
		}
		return nil, err
	}
	return raw, nil
}

// indexListTransform unwraps the listIndexes cursor batch, preserving order.
func indexListTransform(raw *Document, err error) (Documents, error) {
	if err != nil {
		return nil, err
	}
	return raw.GetDocuments("cursor.firstBatch"), nil
}
