package store

import "time"

// Now returns the current UTC time truncated to the microsecond precision of
// a PostgreSQL timestamptz, so both storage drivers hand out equal values.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
