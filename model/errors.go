package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownModel is returned when looking up a model that was never defined.
	ErrUnknownModel = errors.New("tote: unknown model")

	// ErrUnknownQuery is returned when calling a query the model doesn't declare.
	ErrUnknownQuery = errors.New("tote: unknown query")

	// ErrUnknownAction is returned when calling an action the model doesn't declare.
	ErrUnknownAction = errors.New("tote: unknown action")
)

// InvalidArgumentError is returned when Save receives a value that is not
// object-like.
type InvalidArgumentError struct {
	Value any
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("tote: data must be an object, got %T", e.Value)
}

// ConfigurationError is returned at save time when a model's id generator
// carries no function.
type ConfigurationError struct {
	Model string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("tote: model %q must have either generateIdSegments or generateId", e.Model)
}

// ValidationError carries the field to message mapping returned by a
// model's validate function.
type ValidationError struct {
	Model  string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return fmt.Sprintf("tote: %s failed validation: %s", e.Model, strings.Join(parts, "; "))
}
