package grizzly

import (
	"github.com/autom8ter/grizzly/errors"
	"github.com/autom8ter/grizzly/util"
	"github.com/tidwall/sjson"
	"github.com/xeipuuv/gojsonschema"
)

// Trigger is a javascript function that runs after a successful operation on a collection.
// The script has access to the db, ctx, metadata, and event builtins.
type Trigger struct {
	// Name is the unique name of the trigger within its collection
	Name string `json:"name" validate:"required"`
	// On lists the operations the trigger fires on
	On []string `json:"on" validate:"min=1,dive,oneof=create drop createIndexes dropIndexes seed"`
	// Script is the javascript source executed when the trigger fires
	Script string `json:"script" validate:"required"`
}

// CollectionConfig configures a collection. Configs are persisted in the database
// and drive capped behavior, document validation, secondary indexes, and triggers.
type CollectionConfig struct {
	// Name is the collection name
	Name string `json:"name" validate:"required"`
	// Capped bounds the collection at CappedMax documents
	Capped bool `json:"capped"`
	// CappedSize is the advisory byte size of a capped collection
	CappedSize int64 `json:"cappedSize"`
	// CappedMax is the maximum number of documents a capped collection retains
	CappedMax int64 `json:"cappedMax"`
	// ReadPreference is the preference attached to the collection's read commands
	ReadPreference ReadPreference `json:"readPreference"`
	// Schema is an optional json schema applied to documents entering the collection
	Schema string `json:"schema"`
	// Indexes are the secondary indexes on the collection (the primary key index is implicit)
	Indexes []Index `json:"indexes" validate:"dive"`
	// Triggers are the javascript triggers registered on the collection
	Triggers []Trigger `json:"triggers" validate:"dive"`
}

// NewCollectionConfig parses a yaml or json collection configuration
func NewCollectionConfig(config []byte) (*CollectionConfig, error) {
	jsonContent, err := util.YAMLToJSON(config)
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to parse collection config")
	}
	doc, err := NewDocumentFromBytes(jsonContent)
	if err != nil {
		return nil, err
	}
	return collectionConfigFromDocument(doc)
}

func collectionConfigFromDocument(doc *Document) (*CollectionConfig, error) {
	c := &CollectionConfig{
		Name:           doc.GetString("name"),
		Capped:         doc.GetBool("capped"),
		CappedSize:     doc.GetInt("cappedSize"),
		CappedMax:      doc.GetInt("cappedMax"),
		ReadPreference: ReadPreference(doc.GetString("readPreference")),
	}
	if doc.Exists("schema") {
		if s, ok := doc.Get("schema").(string); ok {
			c.Schema = s
		} else {
			c.Schema = util.JSONString(doc.Get("schema"))
		}
	}
	for _, ixDoc := range doc.GetDocuments("indexes") {
		ix, err := indexFromDocument(ixDoc)
		if err != nil {
			return nil, err
		}
		c.Indexes = append(c.Indexes, ix)
	}
	for _, trigDoc := range doc.GetDocuments("triggers") {
		var trigger Trigger
		if err := trigDoc.Scan(&trigger); err != nil {
			return nil, errors.Wrap(err, errors.Validation, "failed to parse trigger")
		}
		c.Triggers = append(c.Triggers, trigger)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate validates the collection config
func (c *CollectionConfig) Validate() error {
	if err := util.ValidateStruct(c); err != nil {
		return err
	}
	if !c.ReadPreference.Valid() {
		return errors.New(errors.Validation, "collection %s: invalid read preference: %s", c.Name, c.ReadPreference)
	}
	if c.Schema != "" {
		if _, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(c.Schema)); err != nil {
			return errors.Wrap(err, errors.Validation, "collection %s: invalid json schema", c.Name)
		}
	}
	seen := map[string]bool{}
	for _, ix := range c.Indexes {
		name := ix.IndexName()
		if seen[name] {
			return errors.New(errors.Validation, "collection %s: duplicate index name: %s", c.Name, name)
		}
		seen[name] = true
	}
	return nil
}

// Document returns the config as a json document. Index key order is preserved.
func (c *CollectionConfig) Document() (*Document, error) {
	doc := NewDocument()
	if err := doc.Set("name", c.Name); err != nil {
		return nil, err
	}
	if err := doc.Set("capped", c.Capped); err != nil {
		return nil, err
	}
	if err := doc.Set("cappedSize", c.CappedSize); err != nil {
		return nil, err
	}
	if err := doc.Set("cappedMax", c.CappedMax); err != nil {
		return nil, err
	}
	if c.ReadPreference != "" {
		if err := doc.Set("readPreference", string(c.ReadPreference)); err != nil {
			return nil, err
		}
	}
	if c.Schema != "" {
		if err := doc.Set("schema", c.Schema); err != nil {
			return nil, err
		}
	}
	ixRaw := "[]"
	for _, ix := range c.Indexes {
		ixDoc, err := ix.Document()
		if err != nil {
			return nil, err
		}
		ixRaw, err = sjson.SetRaw(ixRaw, "-1", ixDoc.String())
		if err != nil {
			return nil, err
		}
	}
	if err := doc.Set("indexes", []byte(ixRaw)); err != nil {
		return nil, err
	}
	if len(c.Triggers) > 0 {
		if err := doc.Set("triggers", []byte(util.JSONString(c.Triggers))); err != nil {
			return nil, err
		}
	} else if err := doc.Set("triggers", []byte("[]")); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetIndex returns the named secondary index if it exists
func (c *CollectionConfig) GetIndex(name string) (Index, bool) {
	for _, ix := range c.Indexes {
		if ix.IndexName() == name {
			return ix, true
		}
	}
	return Index{}, false
}
