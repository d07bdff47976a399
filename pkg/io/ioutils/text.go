package ioutils

import (
	"strings"
	"time"
)

// TimeLayouts are tried in order when detecting timestamp columns.
var TimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006-01-02",
	"2006/01/02",
}

// IsNullToken reports whether a text cell denotes a missing value.
func IsNullToken(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}

// DetectTimeLayout returns the first layout in TimeLayouts that parses v.
func DetectTimeLayout(v string) string {
	for _, l := range TimeLayouts {
		if _, err := time.Parse(l, v); err == nil {
			return l
		}
	}
	return ""
}

// ParseTime tries the preferred layout first, then every known layout.
func ParseTime(v, preferred string) (time.Time, bool) {
	if preferred != "" {
		if ts, err := time.Parse(preferred, v); err == nil {
			return ts, true
		}
	}
	if l := DetectTimeLayout(v); l != "" {
		ts, _ := time.Parse(l, v)
		return ts, true
	}
	return time.Time{}, false
}
