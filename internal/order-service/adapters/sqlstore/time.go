package sqlstore

import (
	"fmt"
	"time"
)

// timeLayout keeps a fixed-width fraction so TEXT columns sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime renders t as RFC3339 in UTC. SQLite stores it as TEXT;
// PostgreSQL parses it into TIMESTAMPTZ.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// parseTime accepts the stored TEXT form and the RFC3339Nano rendering
// database/sql produces when scanning a TIMESTAMPTZ into a string.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlstore: parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}
