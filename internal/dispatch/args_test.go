package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/fitness-mcp/internal/apierr"
)

func TestLimitResolve(t *testing.T) {
	l := Limit{Default: 20, Max: 100}
	assert.Equal(t, 20, l.Resolve(nil))
	assert.Equal(t, 1, l.Resolve(IntOf(0)))
	assert.Equal(t, 1, l.Resolve(IntOf(-7)))
	assert.Equal(t, 42, l.Resolve(IntOf(42)))
	assert.Equal(t, 100, l.Resolve(IntOf(100)))
	assert.Equal(t, 100, l.Resolve(IntOf(101)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("start_date", " 2024-01-31 ", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("start_date", "", time.UTC)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("start_date", "31/01/2024", time.UTC)
	require.ErrorIs(t, err, apierr.ErrValidation)
	assert.Equal(t, "start_date must be in YYYY-MM-DD format", err.Error())
}

func TestTrailingWindowDefaults(t *testing.T) {
	today := Today(time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC))
	w, err := TrailingWindow("", "", today, 30)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-14 to 2024-03-15", w.String())

	w, err = TrailingWindow("", "2024-01-31", today, 30)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 to 2024-01-31", w.String())

	w, err = TrailingWindow("2024-03-01", "", today, 30)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 to 2024-03-15", w.String())
}

func TestAroundWindowDefaults(t *testing.T) {
	today := Today(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	w, err := AroundWindow("", "", today, 7, 14)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08 to 2024-03-29", w.String())

	w, err = AroundWindow("2024-03-10", "", today, 7, 14)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10 to 2024-03-29", w.String())
}

func TestWindowRejectsReversedRange(t *testing.T) {
	today := Today(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	_, err := AroundWindow("2024-04-01", "2024-03-01", today, 7, 14)
	assert.ErrorIs(t, err, apierr.ErrValidation)
}

func TestRequire(t *testing.T) {
	v, err := Require("activity_id", "  i55 ")
	require.NoError(t, err)
	assert.Equal(t, "i55", v)

	_, err = Require("activity_id", " ")
	assert.ErrorIs(t, err, apierr.ErrValidation)
}
