package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseTimeFlexible accepts the timestamp formats clients actually send:
// RFC3339 (with or without sub-second precision) and epoch milliseconds.
func ParseTimeFlexible(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", value)
}
