package sqlite

import (
	"database/sql"
	"encoding/json"
	"time"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// boolToInt stores a bool in an INTEGER column
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ============================================================================
// Time Helpers
// ============================================================================
//
// Timestamps are stored as Unix nanoseconds so ordering and round-trips do
// not depend on the driver's DATETIME text format.

// timeToNull converts a time to nullable Unix nanoseconds; zero is NULL
func timeToNull(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

// nullToTime converts nullable Unix nanoseconds back to a UTC time
func nullToTime(ni sql.NullInt64) time.Time {
	if !ni.Valid {
		return time.Time{}
	}
	return time.Unix(0, ni.Int64).UTC()
}

// ============================================================================
// JSON Marshaling Helpers
// ============================================================================

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalToNull marshals a string slice to nullable JSON.
// Returns empty NullString for nil or empty slices.
func marshalToNull(v []string) (sql.NullString, error) {
	if len(v) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ============================================================================
// Run Row Scanner
// ============================================================================

// runColumns lists the runs columns in scanArgs order
const runColumns = `id, model, adapters, canceled, started_at, finished_at`

// runRow holds all columns from a runs query for scanning
type runRow struct {
	ID           int64
	Model        string
	AdaptersJSON sql.NullString
	Canceled     int
	StartedAt    sql.NullInt64
	FinishedAt   sql.NullInt64
}

// scanArgs returns pointers to all fields for sql.Scan().
// MUST match runColumns order exactly.
func (r *runRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Model,
		&r.AdaptersJSON,
		&r.Canceled,
		&r.StartedAt,
		&r.FinishedAt,
	}
}
