package tracking

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/slimgen/logger"
)

const (
	dbTracerName      = "slimgen/database"
	defaultOperation  = "query"
	maxDBQueryAttrLen = 2000
)

// Context groups what TrackDBOperation needs.
type Context struct {
	Logger   logger.Logger
	Vendor   string
	Settings Settings
}

// TrackDBOperation logs a finished operation and records a client span for
// it. sql.ErrNoRows is an empty result and is logged at debug level; other
// errors at error level. Successful queries slower than the threshold are
// logged as warnings.
func TrackDBOperation(ctx context.Context, tc *Context, query string, start time.Time, err error) {
	if tc == nil || tc.Logger == nil {
		return
	}
	elapsed := time.Since(start)

	if ctx != nil {
		recordSpan(ctx, tc.Vendor, query, start, err)
	}

	fields := map[string]any{
		"vendor":      tc.Vendor,
		"duration_ms": elapsed.Milliseconds(),
		"query":       TruncateString(collapseSpace(query), tc.Settings.MaxQueryLength()),
	}
	log := tc.Logger.WithFields(fields)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		log.Debug().Msg("Database query returned no rows")
	case err != nil:
		log.Error().Err(err).Msg("Database query failed")
	case elapsed > tc.Settings.SlowQueryThreshold():
		log.Warn().Dur("threshold", tc.Settings.SlowQueryThreshold()).Msg("Slow database query")
	default:
		log.Debug().Msg("Database query executed")
	}
}

// TruncateString shortens value to maxLen runes, marking the cut with "...".
func TruncateString(value string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(value) <= maxLen {
		return value
	}
	if maxLen <= 3 {
		return string([]rune(value)[:maxLen])
	}
	return string([]rune(value)[:maxLen-3]) + "..."
}

func collapseSpace(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func recordSpan(ctx context.Context, vendor, query string, start time.Time, err error) {
	operation := extractDBOperation(query)
	_, span := otel.Tracer(dbTracerName).Start(ctx, "db."+operation,
		trace.WithTimestamp(start),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	span.SetAttributes(
		attribute.String("db.system", vendor),
		attribute.String("db.operation.name", operation),
		attribute.String("db.query.text", TruncateString(query, maxDBQueryAttrLen)),
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// extractDBOperation returns the lowercase SQL verb of query.
func extractDBOperation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return defaultOperation
	}
	switch op := strings.ToLower(fields[0]); op {
	case "select", "show", "with", "describe":
		return op
	default:
		return defaultOperation
	}
}
