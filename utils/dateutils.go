package utils

import (
	"math"
	"time"

	"github.com/jinzhu/now"
)

// DaysUntil returns the whole calendar days from today until target. Both
// sides are normalized to local midnight first, so the result is 0 when
// target falls on today and negative when it is already past. Ceiling keeps
// the day boundary consistent across DST transitions.
func DaysUntil(target, today time.Time) int {
	t := now.New(target).BeginningOfDay()
	d := now.New(today).BeginningOfDay()
	return int(math.Ceil(t.Sub(d).Hours() / 24))
}

// IsPast reports whether date falls on a calendar day strictly before today.
// Today itself is not past.
func IsPast(date, today time.Time) bool {
	return now.New(date).BeginningOfDay().Before(now.New(today).BeginningOfDay())
}
