// Package countdown derives the day/hour/minute/second fields shown on the
// board from a target instant and a sampled instant.
package countdown

import (
	"time"

	"github.com/tinytelemetry/flapboard/internal/model"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Compute returns the time remaining from now until target.
// Once target <= now every field is zero and Expired is set.
func Compute(target, now time.Time) model.Fields {
	diff := target.UnixMilli() - now.UnixMilli()
	if diff <= 0 {
		return model.Fields{Expired: true}
	}

	days := diff / msPerDay
	return model.Fields{
		Days:    int(days),
		Hours:   int((diff % msPerDay) / msPerHour),
		Minutes: int((diff % msPerHour) / msPerMinute),
		Seconds: int((diff % msPerMinute) / msPerSecond),
		Capped:  days > model.MaxDisplayDays,
	}
}

// Digits concatenates the fields into the 8-digit board sequence.
// Days past MaxDisplayDays show as 99.
func Digits(f model.Fields) model.DigitSequence {
	days := min(f.Days, model.MaxDisplayDays)
	return model.DigitSequence{
		uint8(days / 10), uint8(days % 10),
		uint8(f.Hours / 10), uint8(f.Hours % 10),
		uint8(f.Minutes / 10), uint8(f.Minutes % 10),
		uint8(f.Seconds / 10), uint8(f.Seconds % 10),
	}
}
