package blogservice

import (
	"errors"
	"time"
)

var ErrInvalidArchiveDate = errors.New("invalid archive date")

// ArchiveRange translates a year/month/day archive path into a half-open
// [from, to) bound on entry creation time. Month and day are optional; zero
// widens the range to the whole year or month.
func ArchiveRange(year, month, day int) (from, to time.Time, err error) {
	if year < 1 || month < 0 || month > 12 || day < 0 || day > 31 {
		return time.Time{}, time.Time{}, ErrInvalidArchiveDate
	}
	if day != 0 && month == 0 {
		return time.Time{}, time.Time{}, ErrInvalidArchiveDate
	}

	switch {
	case day != 0:
		from = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if from.Day() != day {
			// time.Date normalized an out-of-range day, e.g. Feb 30
			return time.Time{}, time.Time{}, ErrInvalidArchiveDate
		}
		to = from.AddDate(0, 0, 1)
	case month != 0:
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 1, 0)
	default:
		from = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		to = from.AddDate(1, 0, 0)
	}

	return from, to, nil
}
