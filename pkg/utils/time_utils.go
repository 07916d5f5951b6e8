package utils

import "time"

// DB columns store Unix seconds; responses carry RFC3339 strings.

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSeconds returns the zero time for t<=0 so callers can decide how to
// render missing values.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
