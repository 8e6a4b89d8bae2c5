package grizzly

import (
	"time"

	"github.com/autom8ter/grizzly/cache"
)

// DBOpt is an option for configuring a database instance
type DBOpt func(d *DB)

// WithDatabase sets the logical database commands run against (default: "default")
func WithDatabase(name string) DBOpt {
	return func(d *DB) {
		d.database = name
	}
}

// WithCache adds a response cache consulted by read commands. Mutations invalidate
// the database's cached responses on commit.
func WithCache(c cache.Cache) DBOpt {
	return func(d *DB) {
		d.cache = c
	}
}

// WithCacheTTL sets how long cached read responses live (default: 1 minute)
func WithCacheTTL(ttl time.Duration) DBOpt {
	return func(d *DB) {
		d.cacheTTL = ttl
	}
}

// WithGlobalTriggers registers triggers that run for every collection in addition
// to the triggers configured on the collection itself
func WithGlobalTriggers(triggers ...Trigger) DBOpt {
	return func(d *DB) {
		d.globalTriggers = append(d.globalTriggers, triggers...)
	}
}
