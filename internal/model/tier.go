package model

import "time"

// Tier is the price category of a show.  The tier of an event is decided
// once, when its first ticket is sold, and never changes afterwards.
type Tier string

const (
	Tier1 Tier = "tier1" // Monday to Thursday, matinee
	Tier2 Tier = "tier2" // Monday to Thursday, night
	Tier3 Tier = "tier3" // Friday to Sunday, matinee
	Tier4 Tier = "tier4" // Friday to Sunday, night
)

// TierFor returns the price tier of a show starting at showtime in the
// given period.
func TierFor(showtime time.Time, p Period) Tier {
	weekend := false
	switch showtime.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		weekend = true
	}

	switch {
	case !weekend && p == PeriodMatinee:
		return Tier1
	case !weekend:
		return Tier2
	case p == PeriodMatinee:
		return Tier3
	default:
		return Tier4
	}
}
