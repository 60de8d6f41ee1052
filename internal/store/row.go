// ABOUTME: Typed accessors for result rows returned by the engine
// ABOUTME: Converts the driver's dynamic column values into Go types

package store

import "time"

// Int64 returns the named column as an integer. NULL and missing
// columns read as zero.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// String returns the named column as a string. NULL reads as "".
func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Bool returns the named column as a boolean. SQLite stores booleans
// as integers.
func (r Row) Bool(col string) bool {
	switch v := r[col].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	default:
		return false
	}
}

// Time parses the named column as a timestamp. CURRENT_TIMESTAMP
// defaults produce "2006-01-02 15:04:05"; RFC 3339 is accepted too.
// Unparseable or NULL values read as the zero time.
func (r Row) Time(col string) time.Time {
	s := r.String(col)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
