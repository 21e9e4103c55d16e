package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(hour int) time.Time {
	return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestValidateTimeRange(t *testing.T) {
	assert.Nil(t, validateTimeRange(ts(10), ts(12)))

	errs := validateTimeRange(ts(12), ts(10))
	require.Len(t, errs, 1)
	assert.Equal(t, "end_time", errs[0].Field)

	// Equal endpoints are invalid too.
	assert.NotNil(t, validateTimeRange(ts(10), ts(10)))
}

func TestResolveSessionTimes_BothSupplied(t *testing.T) {
	start, end := ts(10), ts(12)
	gotStart, gotEnd, errs := resolveSessionTimes(time.Time{}, time.Time{}, &start, &end)
	require.Nil(t, errs)
	assert.Equal(t, start, gotStart)
	assert.Equal(t, end, gotEnd)
}

func TestResolveSessionTimes_EndOnlyAgainstStoredStart(t *testing.T) {
	// Stored session 10:00-12:00; moving end to 09:00 must fail and leave the
	// stored range authoritative.
	newEnd := ts(9)
	_, _, errs := resolveSessionTimes(ts(10), ts(12), nil, &newEnd)
	require.Len(t, errs, 1)
	assert.Equal(t, "end_time", errs[0].Field)
}

func TestResolveSessionTimes_StartOnlyAgainstStoredEnd(t *testing.T) {
	newStart := ts(13)
	_, _, errs := resolveSessionTimes(ts(10), ts(12), &newStart, nil)
	require.NotNil(t, errs)

	okStart := ts(11)
	gotStart, gotEnd, errs := resolveSessionTimes(ts(10), ts(12), &okStart, nil)
	require.Nil(t, errs)
	assert.Equal(t, okStart, gotStart)
	assert.Equal(t, ts(12), gotEnd)
}

func TestResolveSessionTimes_NoPriorSession(t *testing.T) {
	// An event without a session gets one synthesized; a side that was never
	// supplied is reported as missing, not compared against the zero value.
	start := ts(10)
	_, _, errs := resolveSessionTimes(time.Time{}, time.Time{}, &start, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "end_time", errs[0].Field)

	end := ts(12)
	_, _, errs = resolveSessionTimes(time.Time{}, time.Time{}, nil, &end)
	require.Len(t, errs, 1)
	assert.Equal(t, "start_time", errs[0].Field)

	_, _, errs = resolveSessionTimes(time.Time{}, time.Time{}, nil, nil)
	assert.Len(t, errs, 2)
}
