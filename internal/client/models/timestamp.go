package models

import (
	"fmt"
	"time"
)

// Layouts accepted for createdAt, tried in order. The zone-less forms are
// what a JPA LocalDateTime serializes to and are read as local time.
var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{time.DateOnly, true},
}

// ParseTimestamp parses a server-supplied createdAt value.
func ParseTimestamp(s string) (time.Time, error) {
	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.local {
			t, err = time.ParseInLocation(l.layout, s, time.Local)
		} else {
			t, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
