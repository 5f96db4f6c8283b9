package answer

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// MalformedError reports an answer document that cannot be treated as a
// structured answer (not a JSON object, or fields of the wrong shape).
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed answer: %s: %v", e.Reason, e.Err)
	}
	return "malformed answer: " + e.Reason
}

func (e *MalformedError) Unwrap() error { return e.Err }

// knownKeys are the top-level keys decoded into typed fields; every other
// numeric key lands in Answer.Fields.
var knownKeys = map[string]bool{
	"text":              true,
	"calculations":      true,
	"reasoning":         true,
	"explanation":       true,
	"results":           true,
	"hypotheses":        true,
	"experiment_design": true,
	"plan":              true,
	"breakdowns":        true,
}

// Decode parses a JSON answer document. Any document that is not a JSON
// object, or whose known sections have the wrong shape, yields a
// *MalformedError.
func Decode(raw []byte) (*Answer, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &MalformedError{Reason: "invalid JSON", Err: err}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &MalformedError{Reason: "answer is not an object"}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile answer schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &MalformedError{Reason: "schema validation failed", Err: err}
	}

	var a Answer
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &MalformedError{Reason: "decode answer", Err: err}
	}

	for k, v := range obj {
		if knownKeys[k] {
			continue
		}
		if n, ok := v.(float64); ok {
			if a.Fields == nil {
				a.Fields = make(map[string]float64)
			}
			a.Fields[k] = n
		}
	}
	return &a, nil
}

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

// compiledSchema compiles the answer schema once.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(answerSchema), &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://answer.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(url)
	})
	return schemaCompiled, schemaErr
}
