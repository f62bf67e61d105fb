package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the textual date forms found in the retail tables.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
}

// flexTime scans DATE columns regardless of how the driver hands them over:
// time.Time (pgx, mysql with parseTime, modernc for DATE columns) or text.
// NULL leaves Valid false.
type flexTime struct {
	Time  time.Time
	Valid bool
}

func (f *flexTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		f.Time, f.Valid = time.Time{}, false
		return nil
	case time.Time:
		f.Time, f.Valid = v.UTC(), true
		return nil
	case []byte:
		return f.parse(string(v))
	case string:
		return f.parse(v)
	default:
		return fmt.Errorf("unsupported date value %T", src)
	}
}

func (f *flexTime) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		f.Time, f.Valid = time.Time{}, false
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time, f.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

// ptr returns the time as a pointer, nil when NULL.
func (f flexTime) ptr() *time.Time {
	if !f.Valid {
		return nil
	}
	t := f.Time
	return &t
}

// nullString collapses NULL text columns to "".
func nullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
