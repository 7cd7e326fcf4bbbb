package model

import (
	"errors"
	"fmt"
)

// SeatsPerShow is the size of the seat-code pool of every event.
const SeatsPerShow = 200

// serialLength is date (8) + period (1) + auditorium (1) + seat code (3).
const serialLength = 13

// ErrMalformedSerial is returned by ParseSerial for serials that cannot be
// split back into a show key and a seat code.
var ErrMalformedSerial = errors.New("malformed serial")

// SeatCodes returns the full, ordered pool of seat codes "000".."199".
func SeatCodes() []string {
	codes := make([]string, SeatsPerShow)
	for i := range codes {
		codes[i] = fmt.Sprintf("%03d", i)
	}
	return codes
}

// ParseSerial splits a ticket serial into its show key and seat code.  The
// layout is fixed: eight characters of date, one of period, one of
// auditorium and a three digit seat code.
func ParseSerial(serial string) (ShowKey, string, error) {
	if len(serial) != serialLength {
		return ShowKey{}, "", fmt.Errorf("%w: %q has %d characters, want %d",
			ErrMalformedSerial, serial, len(serial), serialLength)
	}

	key, err := NewShowKey(serial[0:8], serial[8:9], serial[9:10])
	if err != nil {
		return ShowKey{}, "", fmt.Errorf("%w: %w", ErrMalformedSerial, err)
	}

	code := serial[10:]
	for _, r := range code {
		if r < '0' || r > '9' {
			return ShowKey{}, "", fmt.Errorf("%w: seat code %q is not numeric", ErrMalformedSerial, code)
		}
	}
	return key, code, nil
}

// Ticket is the result of a successful sale.
type Ticket struct {
	Serial string `json:"serial"`
	Tier   Tier   `json:"tier"`
}
