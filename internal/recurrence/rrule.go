package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// rruleWeekdays maps time.Weekday to the rrule-go weekday constants.
var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// RRuleString renders the rule as an iCalendar RRULE, e.g.
// "FREQ=MONTHLY;BYDAY=+3WE", for export to external calendar tooling.
//
// RRULE semantics differ from the picker's on the edge case: an RRULE
// skips months that lack the requested ordinal, while the picker rolls
// the date forward into the following month.
func (p *Picker) RRuleString() string {
	return fmt.Sprintf("FREQ=MONTHLY;BYDAY=+%d%s", p.ordinal, rruleWeekdays[p.weekday])
}

// RRule materializes the rule as an rrule-go recurrence anchored at
// dtstart, combined with the configured time of day.
func (p *Picker) RRule(dtstart time.Time) (*rrule.RRule, error) {
	wd := rruleWeekdays[p.weekday]
	return rrule.NewRRule(rrule.ROption{
		Freq:      rrule.MONTHLY,
		Byweekday: []rrule.Weekday{wd.Nth(p.ordinal)},
		Dtstart: time.Date(dtstart.Year(), dtstart.Month(), dtstart.Day(),
			p.timeOfDay.Hour, p.timeOfDay.Minute, 0, 0, dtstart.Location()),
	})
}
