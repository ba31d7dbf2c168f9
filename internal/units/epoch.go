// Package units provides time conversions for millisecond-epoch sensor timestamps.
package units

import (
	"time"
)

// MillisLayout renders wall-clock time with millisecond precision.
const MillisLayout = "2006-01-02 15:04:05.000"

// MillisToTime converts an epoch-milliseconds timestamp to a time.Time in loc.
func MillisToTime(ms uint64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(ms)).In(loc)
}

// FormatUnixMillis renders an epoch-milliseconds timestamp as
// "YYYY-MM-DD HH:MM:SS.mmm" in loc.
func FormatUnixMillis(ms uint64, loc *time.Location) string {
	return MillisToTime(ms, loc).Format(MillisLayout)
}

// AbsDiff returns |a - b| for unsigned timestamps without wrapping.
func AbsDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
