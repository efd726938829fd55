package logger

import (
	"net/url"
	"strings"
)

// DefaultMaskValue replaces the value of any sensitive field.
const DefaultMaskValue = "***"

const maxFilterDepth = 8

// FilterConfig lists which field names are considered sensitive.
type FilterConfig struct {
	SensitiveFields []string
	MaskValue       string
}

// DefaultFilterConfig covers database credentials and the usual secret names.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"pass", "password", "passwd", "pwd",
			"secret", "token", "api_key", "apikey",
			"authorization", "credentials",
			"dsn", "connection_string", "database_url",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks values whose field name looks like a secret.
type SensitiveDataFilter struct {
	fields map[string]struct{}
	mask   string
}

// NewSensitiveDataFilter builds a filter. A nil config uses DefaultFilterConfig.
func NewSensitiveDataFilter(cfg *FilterConfig) *SensitiveDataFilter {
	if cfg == nil {
		cfg = DefaultFilterConfig()
	}
	f := &SensitiveDataFilter{
		fields: make(map[string]struct{}, len(cfg.SensitiveFields)),
		mask:   cfg.MaskValue,
	}
	if f.mask == "" {
		f.mask = DefaultMaskValue
	}
	for _, name := range cfg.SensitiveFields {
		f.fields[strings.ToLower(name)] = struct{}{}
	}
	return f
}

// FilterString masks value when key is sensitive. URLs carrying a password
// in their user info are redacted even under harmless keys.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitive(key) {
		return f.mask
	}
	return f.redactURL(value)
}

// FilterValue masks value when key is sensitive and walks nested maps.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	return f.filterValue(key, value, maxFilterDepth)
}

// FilterFields returns a filtered copy of fields.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	return f.filterMap(fields, maxFilterDepth)
}

func (f *SensitiveDataFilter) filterValue(key string, value any, depth int) any {
	if f.isSensitive(key) {
		return f.mask
	}
	if depth <= 0 {
		return value
	}
	switch v := value.(type) {
	case string:
		return f.redactURL(v)
	case map[string]any:
		return f.filterMap(v, depth-1)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = f.FilterString(k, s)
		}
		return out
	default:
		return value
	}
}

func (f *SensitiveDataFilter) filterMap(m map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = f.filterValue(k, v, depth)
	}
	return out
}

func (f *SensitiveDataFilter) isSensitive(key string) bool {
	key = strings.ToLower(key)
	if _, ok := f.fields[key]; ok {
		return true
	}
	// db.pass, DB_PASS and similar dotted or prefixed forms
	for _, sep := range []string{".", "_"} {
		if i := strings.LastIndex(key, sep); i >= 0 {
			if _, ok := f.fields[key[i+1:]]; ok {
				return true
			}
		}
	}
	return false
}

func (f *SensitiveDataFilter) redactURL(value string) string {
	if !strings.Contains(value, "://") || !strings.Contains(value, "@") {
		return value
	}
	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return value
	}
	pass, hasPass := u.User.Password()
	if !hasPass || pass == "" {
		return value
	}
	if raw := ":" + url.UserPassword("", pass).String()[1:] + "@"; strings.Contains(value, raw) {
		return strings.Replace(value, raw, ":"+f.mask+"@", 1)
	}
	return strings.Replace(value, ":"+pass+"@", ":"+f.mask+"@", 1)
}
