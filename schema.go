package grizzly

import (
	"strings"

	"github.com/autom8ter/grizzly/errors"
	"github.com/xeipuuv/gojsonschema"
)

// documentSchema validates documents against a collection's json schema
type documentSchema struct {
	loaded *gojsonschema.Schema
}

func newDocumentSchema(schema string) (*documentSchema, error) {
	loaded, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, errors.Wrap(err, errors.Validation, "failed to load json schema")
	}
	return &documentSchema{loaded: loaded}, nil
}

// Validate validates the document against the collection's json schema
func (s *documentSchema) Validate(doc *Document) error {
	result, err := s.loaded.Validate(gojsonschema.NewBytesLoader(doc.Bytes()))
	if err != nil {
		return errors.Wrap(err, errors.Validation, "failed to validate document")
	}
	if !result.Valid() {
		var errs []string
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return errors.New(errors.Validation, "document validation failed: %s", strings.Join(errs, ","))
	}
	return nil
}
