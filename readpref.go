package grizzly

// ReadPreference selects which replica a read-only command is routed to.
// Write commands never carry a read preference - the executor routes them to
// the primary.
type ReadPreference string

const (
	// ReadPrimary routes reads to the primary
	ReadPrimary ReadPreference = "primary"
	// ReadPrimaryPreferred routes reads to the primary, falling back to a secondary
	ReadPrimaryPreferred ReadPreference = "primaryPreferred"
	// ReadSecondary routes reads to a secondary
	ReadSecondary ReadPreference = "secondary"
	// ReadSecondaryPreferred routes reads to a secondary, falling back to the primary
	ReadSecondaryPreferred ReadPreference = "secondaryPreferred"
	// ReadNearest routes reads to the lowest latency member
	ReadNearest ReadPreference = "nearest"
)

// Valid returns whether the read preference is a recognized mode. The empty
// value is valid and means "no preference".
func (r ReadPreference) Valid() bool {
	switch r {
	case "", ReadPrimary, ReadPrimaryPreferred, ReadSecondary, ReadSecondaryPreferred, ReadNearest:
		return true
	}
	return false
}
