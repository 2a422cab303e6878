package ipc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const observationSchemaSrc = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["map", "allied_ships", "enemy_ships", "planets_occupation", "resources"],
  "properties": {
    "map": {
      "type": "array",
      "items": {"type": "array", "items": {"type": "integer"}}
    },
    "allied_ships": {"$ref": "#/definitions/ships"},
    "enemy_ships": {"$ref": "#/definitions/ships"},
    "planets_occupation": {
      "type": "array",
      "items": {
        "type": "array",
        "minItems": 3,
        "items": {"type": "integer"}
      }
    },
    "resources": {
      "oneOf": [
        {"type": "number"},
        {"type": "array", "items": {"type": "number"}}
      ]
    }
  },
  "definitions": {
    "ships": {
      "type": "array",
      "items": {
        "type": "array",
        "minItems": 6,
        "items": {"type": "integer"}
      }
    }
  }
}`

var (
	schemaOnce        sync.Once
	observationSchema *jsonschema.Schema
	schemaErr         error
)

func compiledObservationSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		observationSchema, schemaErr = jsonschema.CompileString("observation.schema.json", observationSchemaSrc)
	})
	return observationSchema, schemaErr
}

// ValidateObservation checks raw observation JSON against the wire schema.
func ValidateObservation(raw json.RawMessage) error {
	s, err := compiledObservationSchema()
	if err != nil {
		return fmt.Errorf("compile observation schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal observation: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("observation schema: %w", err)
	}
	return nil
}
