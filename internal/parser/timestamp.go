package parser

import (
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// epochMillisThreshold distinguishes second from millisecond epochs: any
// numeric timestamp above it is treated as milliseconds.
const epochMillisThreshold = 1e12

// parseTime interprets a timestamp value that may be ISO-8601 text or a
// numeric epoch in seconds or milliseconds.
func parseTime(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.Number:
		return epochTime(v.Float())
	case gjson.String:
		s := strings.TrimSpace(v.String())
		if s == "" {
			return time.Time{}, false
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
			return t, true
		}
		// Numeric epoch serialized as a string.
		if f := gjson.Parse(s); f.Type == gjson.Number {
			return epochTime(f.Float())
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func epochTime(f float64) (time.Time, bool) {
	if f <= 0 {
		return time.Time{}, false
	}
	if f > epochMillisThreshold {
		f /= 1000
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec), true
}

// firstTime probes keys in order and returns the first parseable timestamp.
func firstTime(doc gjson.Result, keys ...string) (time.Time, bool) {
	for _, key := range keys {
		if v := doc.Get(key); v.Exists() {
			if t, ok := parseTime(v); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// fileMtime returns the modification time and its float-second form.
// The mtime doubles as the creation-time fallback: Go exposes no portable
// birthtime, and resolution order reaches creation time only after mtime
// anyway.
func fileMtime(path string) (time.Time, float64) {
	info, err := os.Stat(path)
	if err != nil {
		now := time.Now()
		return now, float64(now.UnixNano()) / float64(time.Second)
	}
	mt := info.ModTime()
	return mt, float64(mt.UnixNano()) / float64(time.Second)
}

// resolveCreatedAt applies the session-level fallback chain: the explicit
// session timestamp when present, else the file's modification time.
func resolveCreatedAt(explicit time.Time, ok bool, path string) (time.Time, float64) {
	mt, mtime := fileMtime(path)
	if ok && !explicit.IsZero() {
		return explicit, mtime
	}
	return mt, mtime
}
