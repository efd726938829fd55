package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Supported database clients.
const (
	MySQL      = "mysql"
	PostgreSQL = "postgresql"
)

const (
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report koanf paths (db.host) instead of Go field names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate applies derived defaults and checks cfg. The first problem found
// is returned as a *ConfigError.
func Validate(cfg *Config) error {
	applyDatabaseDefaults(&cfg.Database)

	err := structValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("config validation: %w", err)
	}
	return translate(fieldErrs[0])
}

// applyDatabaseDefaults fills the port for the selected client when unset.
func applyDatabaseDefaults(cfg *DatabaseConfig) {
	cfg.Client = strings.ToLower(strings.TrimSpace(cfg.Client))
	if cfg.Port != 0 {
		return
	}
	switch cfg.Client {
	case MySQL:
		cfg.Port = defaultMySQLPort
	case PostgreSQL:
		cfg.Port = defaultPostgresPort
	}
}

func translate(fe validator.FieldError) *ConfigError {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(field)
	case "oneof":
		return NewInvalidFieldError(field, fmt.Sprintf("unsupported value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	case "min":
		return NewInvalidFieldError(field, fmt.Sprintf("must be at least %s", fe.Param()), nil)
	case "max":
		return NewInvalidFieldError(field, fmt.Sprintf("must be at most %s", fe.Param()), nil)
	default:
		return NewInvalidFieldError(field, fmt.Sprintf("failed %s check", fe.Tag()), nil)
	}
}
