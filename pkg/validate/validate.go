// Package validate wraps go-playground/validator with field-level error
// collection. Errors report JSON field names so API clients can map
// violations back onto request payloads.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single field-level constraint violation.
type FieldError struct {
	Field string `json:"field"`           // JSON field name, e.g. "serviceType"
	Rule  string `json:"rule"`            // failed validator tag, e.g. "oneof"
	Param string `json:"param,omitempty"` // tag parameter, e.g. "design pcba im prototyping"
	Value any    `json:"value,omitempty"` // offending value as received
}

// ValidationError aggregates every field violation found in one pass.
// All invalid fields are reported, not just the first.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(names, ", "))
}

// Has reports whether the given JSON field name is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON tag names instead of Go field names.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return val
}

// Struct validates s against its `validate` struct tags. It returns nil when
// every field conforms, or a *ValidationError listing all violations.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Non-validation error (e.g. s is not a struct); surface as-is.
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}
