package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const CalendarDateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid calendar date")

// CalendarDate is a day on the proleptic Gregorian calendar with no time-of-day
// and no zone. All arithmetic runs on UTC midnights so it never drifts across DST.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	date := CalendarDate{Year: year, Month: month, Day: day}
	if !date.Valid() {
		return CalendarDate{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return date, nil
}

func ParseCalendarDate(raw string) (CalendarDate, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return CalendarDate{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	parsed, err := time.Parse(CalendarDateLayout, value)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	date := DateOf(parsed)
	if !date.Valid() {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return date, nil
}

func MustParseCalendarDate(raw string) CalendarDate {
	date, err := ParseCalendarDate(raw)
	if err != nil {
		panic(err)
	}
	return date
}

// DateOf keeps the wall-clock date of value in its own location.
func DateOf(value time.Time) CalendarDate {
	year, month, day := value.Date()
	return CalendarDate{Year: year, Month: month, Day: day}
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (date CalendarDate) Valid() bool {
	if date.Year < 1 || date.Year > 9999 {
		return false
	}
	if date.Month < time.January || date.Month > time.December {
		return false
	}
	return date.Day >= 1 && date.Day <= DaysInMonth(date.Year, date.Month)
}

func (date CalendarDate) IsZero() bool {
	return date == CalendarDate{}
}

// MonthIndex is the zero-based month used by the calendar view (January = 0).
func (date CalendarDate) MonthIndex() int {
	return int(date.Month) - 1
}

func (date CalendarDate) Time() time.Time {
	return time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, time.UTC)
}

func (date CalendarDate) AddDays(days int) CalendarDate {
	return DateOf(date.Time().AddDate(0, 0, days))
}

func (date CalendarDate) DaysUntil(other CalendarDate) int {
	return int(other.Time().Sub(date.Time()).Hours() / 24)
}

func (date CalendarDate) Compare(other CalendarDate) int {
	switch {
	case date.Year != other.Year:
		return compareInts(date.Year, other.Year)
	case date.Month != other.Month:
		return compareInts(int(date.Month), int(other.Month))
	default:
		return compareInts(date.Day, other.Day)
	}
}

func (date CalendarDate) Before(other CalendarDate) bool {
	return date.Compare(other) < 0
}

func (date CalendarDate) After(other CalendarDate) bool {
	return date.Compare(other) > 0
}

func (date CalendarDate) Equal(other CalendarDate) bool {
	return date == other
}

func (date CalendarDate) String() string {
	if date.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", date.Year, int(date.Month), date.Day)
}

func (date CalendarDate) MarshalJSON() ([]byte, error) {
	if date.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(date.String())
}

func (date *CalendarDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*date = CalendarDate{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if strings.TrimSpace(raw) == "" {
		*date = CalendarDate{}
		return nil
	}
	parsed, err := ParseCalendarDate(raw)
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}

func compareInts(a int, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func containsDate(days []CalendarDate, needle CalendarDate) bool {
	for _, day := range days {
		if day == needle {
			return true
		}
	}
	return false
}
