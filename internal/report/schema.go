package report

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var resolvedSchema *jsonschema.Resolved

// loadSchema parses and resolves the embedded schema once. Reused across
// every Validate call rather than re-resolved per document.
func loadSchema() (*jsonschema.Resolved, error) {
	if resolvedSchema != nil {
		return resolvedSchema, nil
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil, fmt.Errorf("report: parsing schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("report: resolving schema: %w", err)
	}
	resolvedSchema = resolved
	return resolved, nil
}

// Validate checks doc's marshaled JSON shape against schema.json, the
// report's documented external contract. Called by the scan command on
// every assembled report and by the package's schema round-trip test.
func Validate(doc *Document) error {
	resolved, err := loadSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("report: marshaling document: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("report: unmarshaling document: %w", err)
	}

	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("report: schema validation failed: %w", err)
	}
	return nil
}
