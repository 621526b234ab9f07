package normalize

import (
	"time"

	"github.com/resticmon/resticmon/pkg/errors"
)

// timestampStrategy is one way to parse a restic snapshot timestamp.
// Strategies are tried in order; the first success wins.
type timestampStrategy struct {
	name   string
	layout string
	// loc is the location assumed for timestamps without an explicit
	// offset; nil means the layout carries its own offset.
	loc *time.Location
}

// Restic's timestamp format changed across releases:
// restic >= 0.14 emits '2023-01-12T06:59:33.1576588+01:00',
// restic 0.12 emits '2023-02-01T14:14:19.30760523Z'. Offsetless values
// are interpreted in the host's local zone.
var timestampStrategies = []timestampStrategy{
	{name: "rfc3339nano", layout: time.RFC3339Nano},
	{name: "rfc3339", layout: time.RFC3339},
	{name: "local-fractional", layout: "2006-01-02T15:04:05.999999999", loc: time.Local},
	{name: "local", layout: "2006-01-02T15:04:05", loc: time.Local},
}

// ParseTimestamp parses an ISO8601 snapshot timestamp using the ordered
// strategy list. If every strategy fails, the last failure is surfaced in
// a TimestampParseError.
func ParseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, s := range timestampStrategies {
		var ts time.Time
		var err error
		if s.loc != nil {
			ts, err = time.ParseInLocation(s.layout, value, s.loc)
		} else {
			ts, err = time.Parse(s.layout, value)
		}
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, errors.NewTimestampParseError(value, lastErr)
}
