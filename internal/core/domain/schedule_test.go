package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:05")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 9, Minute: 5}, c)
	assert.Equal(t, "09:05:00", c.String())

	c, err = ParseClock("23:59:30")
	require.NoError(t, err)
	assert.Equal(t, "23:59:30", c.String())
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"", "9", "24:00", "12:60", "aa:bb", "1:2:3:4"} {
		_, err := ParseClock(in)
		assert.ErrorIs(t, err, ErrInvalidInput, in)
	}
}

func TestClock_On(t *testing.T) {
	c := Clock{Hour: 9}
	got := c.On(2024, time.January, 10, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), got)
}

func TestChannel_Matches(t *testing.T) {
	ch := Channel{Alias: "@habits", Name: "C1"}

	assert.True(t, ch.Matches("C1"))
	assert.True(t, ch.Matches("@habits"))
	assert.False(t, ch.Matches(""))
	assert.Equal(t, "C1", ch.DisplayName())
	assert.Equal(t, "@x", Channel{Alias: "@x"}.DisplayName())
}
