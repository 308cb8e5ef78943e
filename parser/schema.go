package parser

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema describes the persisted net document shape. Loading
// rejects malformed documents here, before any net construction, with a
// message that names the offending field.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["places", "transitions", "arcs"],
  "properties": {
    "name":   {"type": "string"},
    "source": {"type": "string"},
    "places": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "tokens", "x", "y"],
        "properties": {
          "id":         {"type": "integer", "minimum": 0},
          "name":       {"type": "string"},
          "tokens":     {"type": "integer", "minimum": 0},
          "x":          {"type": "number"},
          "y":          {"type": "number"},
          "is_process": {"type": "boolean"},
          "process":    {"type": "string"}
        }
      }
    },
    "transitions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "x", "y"],
        "properties": {
          "id":      {"type": "integer", "minimum": 0},
          "name":    {"type": "string"},
          "x":       {"type": "number"},
          "y":       {"type": "number"},
          "process": {"type": "string"}
        }
      }
    },
    "arcs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["source_id", "target_id", "is_place_to_transition"],
        "properties": {
          "source_id":              {"type": "integer", "minimum": 0},
          "target_id":              {"type": "integer", "minimum": 0},
          "is_place_to_transition": {"type": "boolean"}
        }
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("procnet://document.schema.json", documentSchema)

func validateSchema(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parser: invalid JSON: %w", err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return fmt.Errorf("parser: document does not match schema: %w", err)
	}
	return nil
}
