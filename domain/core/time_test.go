package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfDropsTimeOfDay(t *testing.T) {
	d := DateOf(time.Date(2026, 2, 5, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, NewDate(2026, time.February, 5), d)
	assert.Equal(t, "2026-02-05", d.String())
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.February, 5)
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-05"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2026, time.February, 5), d)

	require.NoError(t, d.Scan([]byte("2026-03-01T00:00:00Z")))
	assert.Equal(t, NewDate(2026, time.March, 1), d)

	assert.Error(t, d.Scan(42))
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2026, time.February, 28)
	b := a.AddDays(1)
	assert.Equal(t, NewDate(2026, time.March, 1), b)
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, Date{}.IsZero())
}
