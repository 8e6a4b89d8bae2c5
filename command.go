package grizzly

import "github.com/autom8ter/grizzly/errors"

// Command is an ordered server instruction: the first field of the body is
// the command verb, remaining fields are its arguments. Commands are
// immutable once built so they are safe to cache and share across
// goroutines - With and WithReadPreference return copies.
type Command struct {
	db   string
	body *Document
	rp   ReadPreference
}

// NewCommand builds a command against the given database. The verb becomes
// the body's first field with the given target value (conventionally the
// collection name).
func NewCommand(db string, verb string, target any) *Command {
	body := NewDocument()
	_ = body.Set(verb, target)
	return &Command{db: db, body: body}
}

// CommandFromDocument builds a command from a raw body document whose first
// field is the verb. The body is cloned so later changes to doc do not leak
// into the command.
func CommandFromDocument(db string, doc *Document) (*Command, error) {
	if doc == nil || !doc.Valid() || len(doc.Fields()) == 0 {
		return nil, errors.New(errors.Validation, "command body must have at least one field")
	}
	return &Command{db: db, body: doc.Clone()}, nil
}

// With returns a copy of the command with the field appended to its body.
func (c *Command) With(field string, value any) *Command {
	body := c.body.Clone()
	_ = body.Set(field, value)
	return &Command{db: c.db, body: body, rp: c.rp}
}

// WithReadPreference returns a copy of the command carrying the given read
// preference.
func (c *Command) WithReadPreference(rp ReadPreference) *Command {
	return &Command{db: c.db, body: c.body, rp: rp}
}

// Database returns the database the command targets.
func (c *Command) Database() string {
	return c.db
}

// Verb returns the command verb (the body's first field).
func (c *Command) Verb() string {
	fields := c.body.Fields()
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Body returns a copy of the command's body document.
func (c *Command) Body() *Document {
	return c.body.Clone()
}

// ReadPreference returns the command's read preference ("" for writes).
func (c *Command) ReadPreference() ReadPreference {
	return c.rp
}

// String returns the command body as a json string.
func (c *Command) String() string {
	return c.body.String()
}
