package calendar

import (
	"encoding/json"
	"strconv"
	"time"
)

// ParseFlexible normalizes the date shapes found in legacy records:
// ISO/RFC3339 strings, epoch milliseconds (number or numeric string),
// and document-store timestamp objects carrying seconds/nanoseconds.
// Anything unrecognized reports ok=false; callers treat that as
// "absent" and skip the record from date math.
func ParseFlexible(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return Truncate(x.UTC()), true
	case string:
		if t, ok := ParseISODate(x); ok {
			return t, true
		}
		if ms, err := strconv.ParseInt(x, 10, 64); err == nil {
			return fromEpochMillis(ms)
		}
		return time.Time{}, false
	case float64:
		return fromEpochMillis(int64(x))
	case int64:
		return fromEpochMillis(x)
	case int:
		return fromEpochMillis(int64(x))
	case json.Number:
		if ms, err := x.Int64(); err == nil {
			return fromEpochMillis(ms)
		}
		return time.Time{}, false
	case map[string]any:
		return fromTimestampObject(x)
	default:
		return time.Time{}, false
	}
}

func fromEpochMillis(ms int64) (time.Time, bool) {
	if ms <= 0 {
		return time.Time{}, false
	}
	return Truncate(time.UnixMilli(ms).UTC()), true
}

// fromTimestampObject reads {seconds, nanoseconds} shapes, including
// the underscore-prefixed variant some exports produce.
func fromTimestampObject(m map[string]any) (time.Time, bool) {
	for _, key := range []string{"seconds", "_seconds"} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		var secs int64
		switch s := raw.(type) {
		case float64:
			secs = int64(s)
		case int64:
			secs = s
		case json.Number:
			v, err := s.Int64()
			if err != nil {
				return time.Time{}, false
			}
			secs = v
		default:
			return time.Time{}, false
		}
		if secs <= 0 {
			return time.Time{}, false
		}
		return Truncate(time.Unix(secs, 0).UTC()), true
	}
	return time.Time{}, false
}
