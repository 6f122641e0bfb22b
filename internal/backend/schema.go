package backend

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// problemsSchema describes the expected /problems payload: a JSON array of
// problem objects, each carrying at least an id, language, and question.
var problemsSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "minLength": 1},
			"language":    map[string]any{"type": "string", "minLength": 1},
			"question":    map[string]any{"type": "string", "minLength": 1},
			"explanation": map[string]any{"type": "string"},
			"category":    map[string]any{"type": "string"},
			"difficulty":  map[string]any{"type": "integer"},
			"createdAt":   map[string]any{"type": "string"},
		},
		"required": []any{"id", "language", "question"},
	},
}

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

// validateProblemsPayload checks a raw /problems body against the schema.
// Returns *ErrInvalidPayload on any mismatch.
func validateProblemsPayload(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidPayload{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := getProblemsSchema()
	if err != nil {
		return &ErrInvalidPayload{Err: fmt.Errorf("compile schema: %w", err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidPayload{Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}

// getProblemsSchema compiles the problems schema once and caches it.
func getProblemsSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value, not raw
		// bytes. Marshal then unmarshal to get a clean representation.
		defBytes, err := json.Marshal(problemsSchema)
		if err != nil {
			compileSchemaError = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileSchemaError = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://problems.json"
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileSchemaError = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileSchemaError = c.Compile(schemaURL)
	})
	return compiledSchema, compileSchemaError
}
