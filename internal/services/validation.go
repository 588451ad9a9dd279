package services

import (
	"sort"
	"strings"
)

// ValidationError collects per-field messages from a boundary validation step.
type ValidationError struct {
	Fields map[string]string
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(err.Fields))
	for key := range err.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+err.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (err *ValidationError) add(field string, message string) {
	if err.Fields == nil {
		err.Fields = map[string]string{}
	}
	if _, exists := err.Fields[field]; exists {
		return
	}
	err.Fields[field] = message
}

func (err *ValidationError) orNil() error {
	if err == nil || len(err.Fields) == 0 {
		return nil
	}
	return err
}
