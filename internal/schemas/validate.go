// Package schemas validates parsed remote-model payloads against embedded
// JSON Schemas, one per operation kind. A repaired response that parses but
// fails its schema is discarded rather than trusted, which pushes the
// operation onto the local fallback path.
package schemas

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// ValidationError reports the schema violations found in a payload.
type ValidationError struct {
	Kind   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("payload does not match %s schema: %s", e.Kind, strings.Join(e.Errors, "; "))
}

// Validate checks a JSON payload against the embedded schema for the given
// kind (e.g. "resume_content"). A missing schema is a programmer error.
func Validate(kind string, payload []byte) error {
	schemaData, err := schemaFiles.ReadFile(kind + ".schema.json")
	if err != nil {
		return fmt.Errorf("no embedded schema for kind %q: %w", kind, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed for %q: %w", kind, err)
	}

	if !result.Valid() {
		verr := &ValidationError{Kind: kind}
		for _, desc := range result.Errors() {
			verr.Errors = append(verr.Errors, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return verr
	}
	return nil
}
