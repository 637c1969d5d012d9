package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "https://nasin.local/tasks.schema.json"

// ErrInvalidDocument wraps every schema violation.
var ErrInvalidDocument = errors.New("invalid task file")

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON pointer to the offending value
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidDocument, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidDocument, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidDocument, e.Err}
}

// Validate checks raw document bytes against the task list schema.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Err: fmt.Errorf("parse task file: %w", err)}
	}

	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := ve
			for len(leaf.Causes) > 0 {
				leaf = leaf.Causes[0]
			}
			return &ValidationError{Path: leaf.InstanceLocation, Err: errors.New(leaf.Message)}
		}
		return &ValidationError{Err: err}
	}
	return nil
}
