package analysis

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/chemviz/chemviz/internal/errors"
)

const historySchemaURL = "chemviz://schemas/history.json"

// historySchema describes GET /api/history/: an array of objects with a
// scalar id, a string or numeric uploaded_at, and an object summary.
// Additional properties are allowed.
const historySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "uploaded_at", "summary"],
    "properties": {
      "id": {"type": ["string", "number", "boolean", "null"]},
      "uploaded_at": {"type": ["string", "number"]},
      "summary": {"type": "object"}
    }
  }
}`

var (
	compileOnce     sync.Once
	compiledHistory *jsonschema.Schema
	compileErr      error
)

func historyValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(historySchemaURL, strings.NewReader(historySchema)); err != nil {
			compileErr = err
			return
		}
		compiledHistory, compileErr = c.Compile(historySchemaURL)
	})
	return compiledHistory, compileErr
}

// ValidateHistory checks a raw history response against the history schema.
func ValidateHistory(data []byte) error {
	schema, err := historyValidator()
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidPayload, "compile history schema: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return errors.Wrapf(errors.ErrInvalidPayload, "decode history: %v", err)
	}
	if err := schema.Validate(doc); err != nil {
		return errors.Wrapf(errors.ErrInvalidPayload, "history does not match schema: %v", err)
	}
	return nil
}
