package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the full slimgen configuration. Every key can be set from the
// environment: DB_HOST maps to db.host, SERVE_PORT to serve.port and so on.
type Config struct {
	App      AppConfig      `koanf:"app" json:"app" yaml:"app"`
	Database DatabaseConfig `koanf:"db" json:"db" yaml:"db"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log"`
	Project  ProjectConfig  `koanf:"project" json:"project" yaml:"project"`
	Docs     DocsConfig     `koanf:"docs" json:"docs" yaml:"docs"`
	Serve    ServeConfig    `koanf:"serve" json:"serve" yaml:"serve"`

	k *koanf.Koanf `json:"-" yaml:"-"`
}

// AppConfig feeds the default info block of the generated document.
type AppConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Version string `koanf:"version" json:"version" yaml:"version" validate:"required"`
}

// DatabaseConfig describes the live connection that is introspected.
type DatabaseConfig struct {
	Client  string      `koanf:"client" json:"client" yaml:"client" validate:"required,oneof=mysql postgresql"`
	Host    string      `koanf:"host" json:"host" yaml:"host" validate:"required"`
	Port    int         `koanf:"port" json:"port" yaml:"port" validate:"min=0,max=65535"`
	User    string      `koanf:"user" json:"user" yaml:"user" validate:"required"`
	Pass    string      `koanf:"pass" json:"-" yaml:"pass"`
	Name    string      `koanf:"name" json:"name" yaml:"name" validate:"required"`
	Schema  string      `koanf:"schema" json:"schema" yaml:"schema"`
	SSLMode string      `koanf:"sslmode" json:"sslmode" yaml:"sslmode"`
	Pool    PoolConfig  `koanf:"pool" json:"pool" yaml:"pool"`
	Query   QueryConfig `koanf:"query" json:"query" yaml:"query"`
}

// PoolConfig bounds the database/sql pool shared by concurrent lookups.
type PoolConfig struct {
	Max      int           `koanf:"max" json:"max" yaml:"max" validate:"min=0"`
	Idle     int           `koanf:"idle" json:"idle" yaml:"idle" validate:"min=0"`
	Lifetime time.Duration `koanf:"lifetime" json:"lifetime" yaml:"lifetime"`
}

// QueryConfig controls query tracking and catalog throttling.
type QueryConfig struct {
	Slow      time.Duration `koanf:"slow" json:"slow" yaml:"slow"`
	MaxLength int           `koanf:"maxlength" json:"maxlength" yaml:"maxlength" validate:"min=0"`
	// Rate caps catalog queries per second. Zero disables the limit.
	Rate float64 `koanf:"rate" json:"rate" yaml:"rate" validate:"min=0"`
}

type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
	// Trace prints OpenTelemetry spans to stderr.
	Trace bool `koanf:"trace" json:"trace" yaml:"trace"`
}

// ProjectConfig locates the PHP project being generated into.
type ProjectConfig struct {
	Root string `koanf:"root" json:"root" yaml:"root" validate:"required"`
}

type DocsConfig struct {
	Workers int    `koanf:"workers" json:"workers" yaml:"workers" validate:"min=1"`
	YAML    bool   `koanf:"yaml" json:"yaml" yaml:"yaml"`
	Info    string `koanf:"info" json:"info" yaml:"info"`
}

// ServeConfig is both the docs server bind address and the server URL
// written into the document.
type ServeConfig struct {
	Host  string `koanf:"host" json:"host" yaml:"host"`
	Port  int    `koanf:"port" json:"port" yaml:"port" validate:"min=1,max=65535"`
	Watch bool   `koanf:"watch" json:"watch" yaml:"watch"`
}

// String returns a raw value by dotted key, for keys outside the struct.
func (c *Config) String(key string) string {
	if c.k == nil {
		return ""
	}
	return c.k.String(key)
}
