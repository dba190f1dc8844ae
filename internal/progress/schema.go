package progress

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://progress.json"

const documentSchema = `{
  "type": "object",
  "required": ["total_questions", "total_correct", "session_history", "drug_performance"],
  "$defs": {
    "count": {"type": "integer", "minimum": 0}
  },
  "properties": {
    "total_questions": {"$ref": "#/$defs/count"},
    "total_correct": {"$ref": "#/$defs/count"},
    "session_history": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["date", "mode", "total", "correct"],
        "properties": {
          "date": {"type": "string"},
          "mode": {"type": "string"},
          "total": {"$ref": "#/$defs/count"},
          "correct": {"$ref": "#/$defs/count"},
          "accuracy": {"type": "number"}
        }
      }
    },
    "drug_performance": {
      "type": "object",
      "propertyNames": {"pattern": "^[0-9]+$"},
      "additionalProperties": {
        "type": "object",
        "required": ["correct", "total"],
        "properties": {
          "correct": {"$ref": "#/$defs/count"},
          "total": {"$ref": "#/$defs/count"},
          "name": {"type": "string"}
        }
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func documentValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		def, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validate checks raw against the progress document schema.
func validate(raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := documentValidator()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
