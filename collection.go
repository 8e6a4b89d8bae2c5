package grizzly

import "fmt"

// Collection is a client-side handle on a named collection: the namespace,
// the executor that serves its commands, and the read preference its
// read-only commands are routed with. Handles are immutable and cheap -
// create one per use or share them freely.
type Collection struct {
	database string
	name     string
	rp       ReadPreference
	exec     Executor
}

// CollectionOpt configures a collection handle.
type CollectionOpt func(*Collection)

// WithReadPreference sets the read preference used by the collection's
// read-only commands.
func WithReadPreference(rp ReadPreference) CollectionOpt {
	return func(c *Collection) {
		c.rp = rp
	}
}

// NewCollection returns a handle on the named collection served by the given
// executor.
func NewCollection(exec Executor, database, name string, opts ...CollectionOpt) *Collection {
	c := &Collection{
		database: database,
		name:     name,
		exec:     exec,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Database returns the database name.
func (c *Collection) Database() string {
	return c.database
}

// Namespace returns the full namespace in the form database.collection.
func (c *Collection) Namespace() string {
	return fmt.Sprintf("%s.%s", c.database, c.name)
}

// ReadPreference returns the collection's read preference.
func (c *Collection) ReadPreference() ReadPreference {
	return c.rp
}

// Executor returns the executor serving the collection's commands.
func (c *Collection) Executor() Executor {
	return c.exec
}

// Admin returns the collection's administration surface.
func (c *Collection) Admin(opts ...AdminOpt) *CollectionAdmin {
	return NewCollectionAdmin(c, opts...)
}
