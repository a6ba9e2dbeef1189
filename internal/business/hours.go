package business

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const (
	openHour  = 8
	closeHour = 17

	nextOpenMonday   = "Monday 8:00 AM HST"
	nextOpenToday    = "Today 8:00 AM HST"
	nextOpenTomorrow = "Tomorrow 8:00 AM HST"
)

// LoadLocation resolves the business timezone, defaulting to Pacific/Honolulu.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = "Pacific/Honolulu"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// OpenStatus reports whether the office is open at now (Mon-Fri 08:00-17:00
// local) and, when closed, a label for the next opening.
func OpenStatus(now time.Time, loc *time.Location) (bool, string) {
	local := now.In(loc)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false, nextOpenMonday
	}
	if local.Hour() < openHour {
		return false, nextOpenToday
	}
	if local.Hour() >= closeHour {
		if local.Weekday() == time.Friday {
			return false, nextOpenMonday
		}
		return false, nextOpenTomorrow
	}
	return true, ""
}
