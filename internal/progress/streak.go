package progress

import "time"

// NextStreak returns the streak value after a completion event on today,
// given the streak and last activity date as they stood before the event.
//
// A completion on the calendar day after the last activity extends the
// streak; a second completion on the same day leaves it alone; anything
// else (first ever activity, a gap of more than one day, or a last
// activity recorded in the future) resets it to 1.
func NextStreak(current int, lastActivity *time.Time, today time.Time) int {
	if lastActivity == nil {
		return 1
	}

	switch daysBetween(*lastActivity, today) {
	case 0:
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

// daysBetween returns the whole calendar days from one date to another,
// ignoring time of day. Negative if "to" is before "from". Each time's
// calendar date is taken in its own location and both are anchored to UTC
// before subtracting, so a stored date read back at UTC midnight compares
// correctly against a clock in any server zone.
func daysBetween(from, to time.Time) int {
	return int(startOfDay(to).Sub(startOfDay(from)) / (24 * time.Hour))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
