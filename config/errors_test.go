package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		expected string
	}{
		{
			name:     "missing field",
			err:      NewMissingFieldError("db.host"),
			expected: "config_missing: db.host required set DB_HOST in the environment or .env, or add db.host to config.yaml",
		},
		{
			name:     "invalid with options",
			err:      NewInvalidFieldError("db.client", `unsupported value "sqlite"`, []string{MySQL, PostgreSQL}),
			expected: `config_invalid: db.client unsupported value "sqlite" must be one of: mysql, postgresql`,
		},
		{
			name:     "connection with details",
			err:      NewConnectionError("database", "ping failed", []string{"check DB_HOST", "check credentials"}),
			expected: "config_connection: database ping failed check DB_HOST; check credentials",
		},
		{
			name:     "bare message",
			err:      &ConfigError{Message: "broken"},
			expected: "broken",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "DB_HOST", EnvVar("db.host"))
	assert.Equal(t, "DB_QUERY_SLOW", EnvVar("db.query.slow"))
}
