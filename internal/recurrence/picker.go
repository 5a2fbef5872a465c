package recurrence

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidOrdinal is returned when a rule asks for an ordinal
	// outside the 1st..5th occurrence of a weekday in a month.
	ErrInvalidOrdinal = errors.New("ordinal must be in 1..5")

	// ErrNegativeSteps is returned when a caller asks for an occurrence
	// in the past. The month-stepping arithmetic is only defined forward.
	ErrNegativeSteps = errors.New("steps ahead must not be negative")
)

// TimeOfDay is a zone-naive wall-clock time attached to computed
// occurrence dates.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Noon is the default occurrence time when a rule does not specify one.
var Noon = TimeOfDay{Hour: 12}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Picker computes the dates a monthly recurring event falls on, for
// rules of the form "the Nth weekday of the month" (e.g. the third
// Wednesday). It is a pure value: the reference date ("today") is
// captured at construction and never re-sampled, so repeated queries
// are deterministic and instances are safe for concurrent use.
type Picker struct {
	ordinal   int
	weekday   time.Weekday
	timeOfDay TimeOfDay
	reference time.Time
}

// NewPicker builds a picker for the ordinal-th weekday of each month
// with the occurrence time defaulting to noon. The reference date is
// the point "next" is computed relative to; pass time.Now() outside
// tests. Returns ErrInvalidOrdinal unless ordinal is in 1..5.
func NewPicker(ordinal int, weekday time.Weekday, reference time.Time) (*Picker, error) {
	return NewPickerAt(ordinal, weekday, Noon, reference)
}

// NewPickerAt is NewPicker with an explicit occurrence time of day.
func NewPickerAt(ordinal int, weekday time.Weekday, at TimeOfDay, reference time.Time) (*Picker, error) {
	if ordinal < 1 || ordinal > 5 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrdinal, ordinal)
	}
	return &Picker{
		ordinal:   ordinal,
		weekday:   weekday,
		timeOfDay: at,
		reference: midnight(reference),
	}, nil
}

// Ordinal returns the configured occurrence ordinal (1..5).
func (p *Picker) Ordinal() int { return p.ordinal }

// Weekday returns the configured weekday.
func (p *Picker) Weekday() time.Weekday { return p.weekday }

// TimeOfDay returns the configured occurrence time.
func (p *Picker) TimeOfDay() TimeOfDay { return p.timeOfDay }

// Reference returns the reference date, normalized to midnight.
func (p *Picker) Reference() time.Time { return p.reference }

// ForMonth returns the date of the configured occurrence for the
// calendar month containing anchor: the first date on or after the 1st
// whose weekday matches, advanced by (ordinal-1) whole weeks.
//
// The result is not clamped to anchor's month. A 5th-Friday rule
// applied to a month with four Fridays yields a date in the following
// month rather than an error.
func (p *Picker) ForMonth(anchor time.Time) time.Time {
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	offset := (int(p.weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+7*(p.ordinal-1))
}

// NextDate returns the date of the occurrence stepsAhead cycles after
// the soonest occurrence at or after the reference date. stepsAhead 0
// is the soonest such occurrence; if this month's occurrence has
// already passed, the next month's becomes the baseline. Each step
// advances one month from the previously resolved occurrence, so a
// rolled-forward date compounds into later steps.
func (p *Picker) NextDate(stepsAhead int) (time.Time, error) {
	if stepsAhead < 0 {
		return time.Time{}, fmt.Errorf("%w: got %d", ErrNegativeSteps, stepsAhead)
	}

	occurrence := p.ForMonth(p.reference)
	if occurrence.Before(p.reference) {
		// This month's occurrence already happened; start from next month.
		stepsAhead++
	}
	if stepsAhead > 0 {
		occurrence = p.ForMonth(addMonths(occurrence, stepsAhead))
	}
	return occurrence, nil
}

// NextDateTime is NextDate combined with the configured time of day.
// The result is zone-naive; attaching a zone is a caller concern.
func (p *Picker) NextDateTime(stepsAhead int) (time.Time, error) {
	d, err := p.NextDate(stepsAhead)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), p.timeOfDay.Hour, p.timeOfDay.Minute, 0, 0, d.Location()), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// addMonths advances d by whole months, clamping the day of month to
// the target month's length (Jan 31 + 1 month is Feb 28/29, not Mar 3).
// time.Time.AddDate would normalize the overflow into the next month
// and skew which month the follow-up ForMonth resolves in.
func addMonths(d time.Time, months int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(months), 1, 0, 0, 0, 0, d.Location())
	day := d.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}
