package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

// Add appends a field error. Domain rules that JSON Schema cannot express
// report through the same type as schema violations.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, ValidationError{Field: field, Message: message})
}

// Err returns nil when no errors were collected.
func (e *ValidationErrors) Err() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateValue checks the JSON encoding of any value against a schema.
func (v *Validator) ValidateValue(value interface{}, schema map[string]interface{}) error {
	if len(schema) == 0 {
		return nil
	}

	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return v.validateJSON(dataJSON, schema)
}

func (v *Validator) validateJSON(dataJSON []byte, schema map[string]interface{}) error {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(dataJSON),
	)
	if err != nil {
		return err
	}

	if !result.Valid() {
		ve := &ValidationErrors{}
		for _, desc := range result.Errors() {
			ve.Add(desc.Field(), desc.Description())
		}
		return ve
	}

	return nil
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
