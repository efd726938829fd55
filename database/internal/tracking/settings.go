// Package tracking decorates a database handle with per-query logging,
// slow-query warnings and OpenTelemetry spans.
package tracking

import (
	"time"

	"github.com/gaborage/slimgen/config"
)

const (
	DefaultSlowQueryThreshold = 200 * time.Millisecond
	DefaultMaxQueryLength     = 1000
)

// Settings controls what the decorator logs.
type Settings struct {
	slowQueryThreshold time.Duration
	maxQueryLength     int
}

// NewSettings reads thresholds from cfg, falling back to defaults for nil or
// non-positive values.
func NewSettings(cfg *config.DatabaseConfig) Settings {
	s := Settings{
		slowQueryThreshold: DefaultSlowQueryThreshold,
		maxQueryLength:     DefaultMaxQueryLength,
	}
	if cfg == nil {
		return s
	}
	if cfg.Query.Slow > 0 {
		s.slowQueryThreshold = cfg.Query.Slow
	}
	if cfg.Query.MaxLength > 0 {
		s.maxQueryLength = cfg.Query.MaxLength
	}
	return s
}

func (s Settings) SlowQueryThreshold() time.Duration { return s.slowQueryThreshold }

func (s Settings) MaxQueryLength() int { return s.maxQueryLength }
