package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// timestampLayout is accepted by MySQL DATETIME(6) and sorts correctly as
// SQLite TEXT.
const timestampLayout = "2006-01-02 15:04:05.999999"

var timestampLayouts = []string{
	timestampLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
}

func nullTimestamp(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timestampLayout)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullStringPtr(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func nullIntPtr(n *int) any {
	if n == nil {
		return nil
	}
	return int64(*n)
}

// timestampColumn scans DATETIME values from MySQL (time.Time with parseTime)
// and TEXT values from SQLite into UTC.
type timestampColumn struct {
	Time time.Time
}

func (c *timestampColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		c.Time = time.Time{}
		return nil
	case time.Time:
		c.Time = v.UTC()
		return nil
	case []byte:
		return c.parse(string(v))
	case string:
		return c.parse(v)
	default:
		return fmt.Errorf("scan timestamp: unsupported type %T", src)
	}
}

func (c *timestampColumn) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			c.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("scan timestamp: unrecognised value %q", s)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
