package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rackops-backend/internal/util"
)

func TestParseTimeFlexible(t *testing.T) {
	rfc, err := util.ParseTimeFlexible("2026-08-29T10:15:00Z")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 29, 10, 15, 0, 0, time.UTC), rfc.UTC())

	nano, err := util.ParseTimeFlexible("2026-08-29T10:15:00.123456789Z")
	assert.NoError(t, err)
	assert.Equal(t, 123456789, nano.Nanosecond())

	millis, err := util.ParseTimeFlexible("1788000000000")
	assert.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1788000000000).UTC(), millis)

	_, err = util.ParseTimeFlexible("")
	assert.Error(t, err)

	_, err = util.ParseTimeFlexible("yesterday")
	assert.Error(t, err)
}
