package filter

import (
	"strconv"
	"strings"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
)

// timeOfDayScriptID is the stored script the datastore resolves a
// time_of_day filter against; it computes wall-clock time in a target
// timezone from nanosecond-of-day parameters, accounting for DST.
const timeOfDayScriptID = "filter/by_time_of_day"

const nanosPerSecond = 1_000_000_000
const nanosPerMinute = 60 * nanosPerSecond
const nanosPerHour = 60 * nanosPerMinute

// parseNanoOfDay parses a "HH:MM:SS" (or "HH:MM:SS.nnnnnnnnn") wall-clock
// string into nanoseconds since midnight.
func parseNanoOfDay(s string) (int64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, errors.New("invalid time_of_day value %q: expected HH:MM:SS", s, errors.WithErrorCode(errors.EInvalid))
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrap(err, "invalid time_of_day hour in %q", s, errors.WithErrorCode(errors.EInvalid))
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Wrap(err, "invalid time_of_day minute in %q", s, errors.WithErrorCode(errors.EInvalid))
	}

	secParts := strings.SplitN(parts[2], ".", 2)
	second, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0, errors.Wrap(err, "invalid time_of_day second in %q", s, errors.WithErrorCode(errors.EInvalid))
	}

	var nanos int64
	if len(secParts) == 2 {
		frac := secParts[1]
		for len(frac) < 9 {
			frac += "0"
		}
		frac = frac[:9]
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "invalid time_of_day fractional seconds in %q", s, errors.WithErrorCode(errors.EInvalid))
		}
		nanos = n
	}

	return int64(hour)*nanosPerHour + int64(minute)*nanosPerMinute + int64(second)*nanosPerSecond + nanos, nil
}
