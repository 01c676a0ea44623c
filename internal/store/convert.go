package store

import (
	"database/sql"
	"math"
	"time"
)

// timestampLayouts are the formats SQLite hands back for DATETIME values.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	time.RFC3339Nano,
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// nullable stores NaN as NULL; SQLite has no NaN.
func nullable(x float64) interface{} {
	if math.IsNaN(x) {
		return nil
	}
	return x
}

func fromNullable(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}
