package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRRuleString(t *testing.T) {
	tests := []struct {
		ordinal int
		weekday time.Weekday
		want    string
	}{
		{3, time.Wednesday, "FREQ=MONTHLY;BYDAY=+3WE"},
		{1, time.Monday, "FREQ=MONTHLY;BYDAY=+1MO"},
		{5, time.Friday, "FREQ=MONTHLY;BYDAY=+5FR"},
	}
	for _, tt := range tests {
		p, err := NewPicker(tt.ordinal, tt.weekday, date(2024, time.March, 10))
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.RRuleString())
	}
}

func TestRRuleMatchesPickerOnOrdinaryMonths(t *testing.T) {
	p, err := NewPickerAt(3, time.Wednesday, TimeOfDay{Hour: 14, Minute: 30}, date(2024, time.March, 10))
	require.NoError(t, err)

	rule, err := p.RRule(date(2024, time.March, 1))
	require.NoError(t, err)

	got := rule.After(date(2024, time.March, 1), true)
	assert.Equal(t, time.Date(2024, time.March, 20, 14, 30, 0, 0, time.UTC), got)
}

func TestRRuleDivergesOnMissingOrdinal(t *testing.T) {
	// iCalendar semantics skip months without a 5th Friday; the picker
	// rolls forward instead. Both behaviors are intentional.
	p, err := NewPicker(5, time.Friday, date(2025, time.February, 1))
	require.NoError(t, err)

	fromPicker, err := p.NextDate(0)
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 7), fromPicker)

	rule, err := p.RRule(date(2025, time.February, 1))
	require.NoError(t, err)
	fromRRule := rule.After(date(2025, time.February, 1), true)
	assert.Equal(t, time.Date(2025, time.May, 30, 12, 0, 0, 0, time.UTC), fromRRule)
}
