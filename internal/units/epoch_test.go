package units

import (
	"testing"
	"time"
)

func TestFormatUnixMillis(t *testing.T) {
	tests := []struct {
		ms   uint64
		want string
	}{
		{1700000000000, "2023-11-14 22:13:20.000"},
		{1700000000042, "2023-11-14 22:13:20.042"},
		{1600000000999, "2020-09-13 12:26:40.999"},
	}
	for _, tt := range tests {
		if got := FormatUnixMillis(tt.ms, time.UTC); got != tt.want {
			t.Errorf("FormatUnixMillis(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestMillisToTimeNilLocation(t *testing.T) {
	got := MillisToTime(1700000000000, nil)
	if got.Location() != time.Local {
		t.Errorf("location = %v, want Local", got.Location())
	}
	if got.UnixMilli() != 1700000000000 {
		t.Errorf("UnixMilli() = %d, want 1700000000000", got.UnixMilli())
	}
}

func TestAbsDiff(t *testing.T) {
	if AbsDiff(150, 100) != 50 || AbsDiff(100, 150) != 50 || AbsDiff(7, 7) != 0 {
		t.Error("AbsDiff returned an unexpected value")
	}
	if AbsDiff(0, ^uint64(0)) != ^uint64(0) {
		t.Error("AbsDiff wrapped at the extremes")
	}
}
