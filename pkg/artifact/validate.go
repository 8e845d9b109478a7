package artifact

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/mockbox/pkg/spec"
)

//go:embed mock-spec.schema.json
var mockSpecSchema string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(SpecFileName, strings.NewReader(mockSpecSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(SpecFileName)
	})
	return schema, schemaErr
}

// Validate checks a MockSpec against the embedded JSON Schema. It catches
// malformed specs before they are persisted or served.
func Validate(ms *spec.MockSpec) error {
	if ms == nil {
		return fmt.Errorf("mock spec is nil")
	}

	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile mock spec schema: %w", err)
	}

	raw, err := json.Marshal(ms)
	if err != nil {
		return fmt.Errorf("marshal mock spec: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode mock spec: %w", err)
	}

	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("invalid mock spec: %w", err)
	}
	return nil
}
