package model

import (
	"errors"
	"fmt"
	"time"
)

// Period is the part of the day a show runs in. Only two periods exist:
// matinee shows start at 14:00 and night shows at 20:00.
type Period string

const (
	PeriodMatinee Period = "m" // 14:00
	PeriodNight   Period = "n" // 20:00
)

// DateLayout is the layout of the date component of a show key (YYYYMMDD).
const DateLayout = "20060102"

var (
	// ErrMalformedDate is returned when a date is not a valid YYYYMMDD string.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMalformedPeriod is returned when a period is neither "m" nor "n".
	ErrMalformedPeriod = errors.New("malformed period")
	// ErrMalformedAuditorium is returned when an auditorium is not a single
	// character.  Serials reserve exactly one character for it.
	ErrMalformedAuditorium = errors.New("malformed auditorium")
)

// ParsePeriod validates a raw period argument.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodMatinee, PeriodNight:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q (want m or n)", ErrMalformedPeriod, s)
}

// StartHour returns the hour of the day a show in this period begins.
func (p Period) StartHour() int {
	if p == PeriodMatinee {
		return 14
	}
	return 20
}

// Label is the human readable name of the period.
func (p Period) Label() string {
	if p == PeriodMatinee {
		return "Matinee"
	}
	return "Night"
}

// ShowKey identifies one scheduled screening.  Two keys are equal when all
// three components are equal; the key is used as a map key by the
// inventory.
//
// Fields:
//
//	Date       – calendar day of the show, YYYYMMDD.
//	Period     – matinee or night.
//	Auditorium – single character identifier of the auditorium, normally "1".."5".
type ShowKey struct {
	Date       string // YYYYMMDD
	Period     Period // m | n
	Auditorium string // one character
}

// NewShowKey builds a key from raw shell arguments and validates the date,
// the period and the length of the auditorium.
func NewShowKey(date, period, auditorium string) (ShowKey, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return ShowKey{}, err
	}
	if len(auditorium) != 1 {
		return ShowKey{}, fmt.Errorf("%w: %q (want a single character)", ErrMalformedAuditorium, auditorium)
	}
	if _, err := parseDate(date, time.UTC); err != nil {
		return ShowKey{}, err
	}
	return ShowKey{Date: date, Period: p, Auditorium: auditorium}, nil
}

// Showtime returns the instant the show starts in the given location.
func (k ShowKey) Showtime(loc *time.Location) (time.Time, error) {
	if _, err := ParsePeriod(string(k.Period)); err != nil {
		return time.Time{}, err
	}
	day, err := parseDate(k.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), k.Period.StartHour(), 0, 0, 0, loc), nil
}

// Serial builds the ticket serial for the given seat code.
func (k ShowKey) Serial(seatCode string) string {
	return k.Date + string(k.Period) + k.Auditorium + seatCode
}

func (k ShowKey) String() string {
	return fmt.Sprintf("%s %s auditorium %s", k.Date, k.Period.Label(), k.Auditorium)
}

func parseDate(date string, loc *time.Location) (time.Time, error) {
	if len(date) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYYMMDD)", ErrMalformedDate, date)
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYYMMDD)", ErrMalformedDate, date)
	}
	return t, nil
}
