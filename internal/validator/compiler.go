// Package validator provides JSON Schema validation used to check fmtbot
// configuration documents for structural correctness.
package validator

// Draft represents a JSON Schema draft version.
type Draft string

const (
	// Draft7 represents JSON Schema Draft 7.
	Draft7 Draft = "http://json-schema.org/draft-07/schema#"
	// Draft2020_12 represents JSON Schema Draft 2020-12.
	Draft2020_12 Draft = "https://json-schema.org/draft/2020-12/schema"
)

// A JSONDocument is a valid parsed JSON Document - i.e. the result of json.Unmarshal().
type JSONDocument interface{}

// A JSONSchema is a valid parsed JSON Document representing a JSON Schema.
// Note that a Compiler must compile the JSONSchema before use which will identify any JSON Schema issues.
type JSONSchema JSONDocument

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates a JSON document.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler. Schemas are registered under an id
// and compiled into Validators.
type Compiler interface {
	// AddSchema registers a JSONSchema with the compiler.
	// An error is produced if the JSONSchema cannot be added.
	AddSchema(id string, data JSONSchema) error

	// Compile creates a Validator from the JSONSchema previously added with the given ID.
	// An error is produced if the JSONSchema cannot be compiled.
	Compile(id string) (Validator, error)

	// SupportedSchemaVersions returns a slice of Draft representing the supported schema versions.
	SupportedSchemaVersions() []Draft
}
