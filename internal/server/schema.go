package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed payload.schema.json
var payloadSchemaJSON []byte

const payloadSchemaURL = "schema://questionnaire-result.json"

func compilePayloadSchema() (*jsonschema.Schema, error) {
	var def any
	if err := json.Unmarshal(payloadSchemaJSON, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(payloadSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(payloadSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
}

// validatePayload checks raw JSON against the schema and returns a short,
// single-line message on failure.
func validatePayload(schema *jsonschema.Schema, raw []byte) error {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return errors.New("invalid payload: " + flattenSchemaError(verr))
		}
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func flattenSchemaError(verr *jsonschema.ValidationError) string {
	lines := strings.Split(verr.Error(), "\n")
	var details []string
	for _, l := range lines[1:] {
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "-"))
		if l != "" {
			details = append(details, l)
		}
	}
	if len(details) == 0 {
		return lines[0]
	}
	return strings.Join(details, "; ")
}
