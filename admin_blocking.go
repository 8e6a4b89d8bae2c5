package grizzly

import (
	"context"
)

// BlockingCollectionAdmin adapts CollectionAdmin to synchronous callers. It
// shares the asynchronous facade's command building and result
// transformation and only awaits the futures, so both surfaces always agree.
type BlockingCollectionAdmin struct {
	admin *CollectionAdmin
}

// Drop drops the collection.
func (b *BlockingCollectionAdmin) Drop(ctx context.Context) error {
	_, err := b.admin.Drop(ctx).Await(ctx)
	return err
}

// IsCapped reports whether the collection is capped; false when the
// collection does not exist.
func (b *BlockingCollectionAdmin) IsCapped(ctx context.Context) (bool, error) {
	return b.admin.IsCapped(ctx).Await(ctx)
}

// Statistics returns the collection's collStats response document.
func (b *BlockingCollectionAdmin) Statistics(ctx context.Context) (*Document, error) {
	return b.admin.Statistics(ctx).Await(ctx)
}

// StatisticsScaled is Statistics with size fields divided by scale.
func (b *BlockingCollectionAdmin) StatisticsScaled(ctx context.Context, scale int) (*Document, error) {
	return b.admin.StatisticsScaled(ctx, scale).Await(ctx)
}

// CreateIndex creates a single index.
func (b *BlockingCollectionAdmin) CreateIndex(ctx context.Context, index Index) error {
	_, err := b.admin.CreateIndex(ctx, index).Await(ctx)
	return err
}

// CreateIndexes creates the given indexes in order.
func (b *BlockingCollectionAdmin) CreateIndexes(ctx context.Context, indexes ...Index) error {
	_, err := b.admin.CreateIndexes(ctx, indexes...).Await(ctx)
	return err
}

// GetIndexes returns the collection's index documents in the server's order.
func (b *BlockingCollectionAdmin) GetIndexes(ctx context.Context) (Documents, error) {
	return b.admin.GetIndexes(ctx).Await(ctx)
}

// DropIndex drops the named index.
func (b *BlockingCollectionAdmin) DropIndex(ctx context.Context, name string) error {
	_, err := b.admin.DropIndex(ctx, name).Await(ctx)
	return err
}

// DropIndexModel drops the index named by the descriptor.
func (b *BlockingCollectionAdmin) DropIndexModel(ctx context.Context, index Index) error {
	_, err := b.admin.DropIndexModel(ctx, index).Await(ctx)
	return err
}

// DropIndexes drops every index except _id_.
func (b *BlockingCollectionAdmin) DropIndexes(ctx context.Context) error {
	_, err := b.admin.DropIndexes(ctx).Await(ctx)
	return err
}
