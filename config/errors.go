package config

import (
	"fmt"
	"strings"
)

// ConfigError is a configuration problem with a hint on how to fix it.
// Messages are lowercase.
//
//nolint:revive // ConfigError reads better than Error at call sites
type ConfigError struct {
	Category string // "missing", "invalid" or "connection"
	Field    string // dotted path, e.g. "db.host"
	Message  string
	Action   string
	Details  []string
}

func (e *ConfigError) Error() string {
	var parts []string
	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("config_%s:", e.Category))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Action != "" {
		parts = append(parts, e.Action)
	}
	if len(e.Details) > 0 {
		parts = append(parts, strings.Join(e.Details, "; "))
	}
	return strings.Join(parts, " ")
}

// EnvVar returns the environment variable that sets a dotted config path.
func EnvVar(field string) string {
	return strings.ToUpper(strings.ReplaceAll(field, ".", "_"))
}

// NewMissingFieldError reports a required field with no value.
func NewMissingFieldError(field string) *ConfigError {
	return &ConfigError{
		Category: "missing",
		Field:    field,
		Message:  "required",
		Action:   fmt.Sprintf("set %s in the environment or .env, or add %s to %s", EnvVar(field), field, DefaultConfigFile),
	}
}

// NewInvalidFieldError reports a value outside the accepted set.
func NewInvalidFieldError(field, message string, validOptions []string) *ConfigError {
	err := &ConfigError{
		Category: "invalid",
		Field:    field,
		Message:  message,
	}
	if len(validOptions) > 0 {
		err.Action = fmt.Sprintf("must be one of: %s", strings.Join(validOptions, ", "))
	}
	return err
}

// NewConnectionError reports a configured resource that could not be reached.
func NewConnectionError(resource, message string, troubleshooting []string) *ConfigError {
	return &ConfigError{
		Category: "connection",
		Field:    resource,
		Message:  message,
		Details:  troubleshooting,
	}
}
