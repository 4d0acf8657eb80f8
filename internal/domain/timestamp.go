package domain

import (
	"bytes"
	"math"
	"strconv"
	"time"
)

// UnixMillis is a unix timestamp in milliseconds decoded leniently from form
// payloads. It accepts a JSON number or a numeric string; anything else
// decodes to zero, which means absent.
type UnixMillis int64

func (m *UnixMillis) UnmarshalJSON(b []byte) error {
	*m = 0

	s := string(bytes.TrimSpace(b))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*m = UnixMillis(v)
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return nil
	}
	*m = UnixMillis(math.Trunc(f))
	return nil
}

// Time reports the timestamp and whether it is set. Zero and negative values
// are unset.
func (m UnixMillis) Time() (time.Time, bool) {
	if m <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(m)), true
}
