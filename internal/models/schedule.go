package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cadence-tools/cadenced/internal/recurrence"
	"github.com/google/uuid"
)

type ScheduleStatus string

const (
	ScheduleStatusActive  ScheduleStatus = "active"
	ScheduleStatusPaused  ScheduleStatus = "paused"
	ScheduleStatusDeleted ScheduleStatus = "deleted"
)

// Weekday is a JSON-friendly wrapper around time.Weekday. It accepts
// full weekday names ("wednesday") and iCalendar two-letter codes
// ("WE") on input and marshals to the lowercase full name.
type Weekday struct {
	time.Weekday
}

var icalWeekdays = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

// ParseWeekday converts a weekday name or iCalendar code to a Weekday.
func ParseWeekday(s string) (Weekday, error) {
	if wd, ok := icalWeekdays[strings.ToUpper(s)]; ok {
		return Weekday{wd}, nil
	}
	lower := strings.ToLower(s)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.ToLower(wd.String()) == lower {
			return Weekday{wd}, nil
		}
	}
	return Weekday{}, fmt.Errorf("invalid weekday: %q", s)
}

func (w Weekday) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(w.Weekday.String()))
}

func (w *Weekday) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// TimeOfDay is a zone-naive wall-clock time marshaled as "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

// NoonTimeOfDay is the default occurrence time for schedules that do
// not specify one.
var NoonTimeOfDay = TimeOfDay{Hour: 12}

// ParseTimeOfDay parses a "HH:MM" wall-clock string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Schedule is a registered monthly recurrence rule: the Nth weekday of
// each month at a wall-clock time. Schedules live in memory only and
// are not persisted.
type Schedule struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Ordinal   int            `json:"ordinal"`
	Weekday   Weekday        `json:"weekday"`
	TimeOfDay TimeOfDay      `json:"time_of_day"`
	Tags      []string       `json:"tags"`
	Status    ScheduleStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

// PickerAt builds the recurrence picker for this schedule with the
// given reference date.
func (s *Schedule) PickerAt(reference time.Time) (*recurrence.Picker, error) {
	at := recurrence.TimeOfDay{Hour: s.TimeOfDay.Hour, Minute: s.TimeOfDay.Minute}
	return recurrence.NewPickerAt(s.Ordinal, s.Weekday.Weekday, at, reference)
}

type CreateScheduleRequest struct {
	Name      string     `json:"name"`
	Ordinal   int        `json:"ordinal"`
	Weekday   *Weekday   `json:"weekday"`
	TimeOfDay *TimeOfDay `json:"time_of_day,omitempty"`
	Tags      []string   `json:"tags"`
}

type UpdateScheduleRequest struct {
	Name      *string    `json:"name,omitempty"`
	Ordinal   *int       `json:"ordinal,omitempty"`
	Weekday   *Weekday   `json:"weekday,omitempty"`
	TimeOfDay *TimeOfDay `json:"time_of_day,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

type ScheduleFilter struct {
	Tags  []string
	Page  int
	Limit int
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	} `json:"pagination"`
}

// Occurrence is a computed occurrence of a schedule: the calendar
// date, the zone-naive local date-time, and (when the caller supplied
// a timezone) the same instant with the zone attached.
type Occurrence struct {
	Date      string  `json:"date"`
	LocalTime string  `json:"local_time"`
	Zoned     *string `json:"zoned,omitempty"`
}

// PreviewRequest computes occurrences for an ad-hoc rule without
// registering a schedule.
type PreviewRequest struct {
	Ordinal   int        `json:"ordinal"`
	Weekday   *Weekday   `json:"weekday"`
	TimeOfDay *TimeOfDay `json:"time_of_day,omitempty"`
	From      *string    `json:"from,omitempty"` // reference date, YYYY-MM-DD; defaults to today
	Count     int        `json:"count"`
	Timezone  string     `json:"timezone,omitempty"`
}
