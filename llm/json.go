package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON schema for one kind of structured model output
type Schema struct {
	schema *gojsonschema.Schema
}

// MustSchema compiles a schema literal, panicking on an invalid schema.
// Intended for package-level schema variables.
func MustSchema(src string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("llm: invalid schema: %v", err))
	}
	return &Schema{schema: s}
}

// CleanJSON strips markdown code fences and any prose around the outermost JSON object
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// DecodeJSON cleans raw model output, validates it against schema and
// unmarshals it into v. Any mismatch wraps ErrMalformed.
func DecodeJSON(raw string, schema *Schema, v any) error {
	doc := CleanJSON(raw)
	if doc == "" {
		return fmt.Errorf("no JSON object in output: %w", ErrMalformed)
	}

	result, err := schema.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("parse output: %v: %w", err, ErrMalformed)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("output validation failed: %s: %w", strings.Join(errs, "; "), ErrMalformed)
	}

	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return fmt.Errorf("decode output: %v: %w", err, ErrMalformed)
	}
	return nil
}
