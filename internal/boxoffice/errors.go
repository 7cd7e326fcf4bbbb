package boxoffice

import (
	"errors"

	"github.com/iliyamo/box-office/internal/model"
)

// Business-rule rejections.  The operation did not happen and no state
// changed.
var (
	ErrOutsideWindow  = errors.New("showtime is outside the sales window")
	ErrSoldOut        = errors.New("event is sold out")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrExpired        = errors.New("showtime has passed")
	ErrEventNotFound  = errors.New("event not found")
	ErrNoData         = errors.New("no data")
)

// IsInputError reports whether err comes from malformed input (date,
// period, auditorium or serial) rather than from a business rule.
func IsInputError(err error) bool {
	return errors.Is(err, model.ErrMalformedDate) ||
		errors.Is(err, model.ErrMalformedPeriod) ||
		errors.Is(err, model.ErrMalformedAuditorium) ||
		errors.Is(err, model.ErrMalformedSerial)
}
