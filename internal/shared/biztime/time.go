// Package biztime keeps storage in UTC and uses the business timezone only
// for display: draw dates in emails, due dates sent to providers, scheduling.
package biztime

import (
	"sync/atomic"
	"time"
	_ "time/tzdata" // minimal containers ship without zoneinfo
)

const DefaultTimezone = "America/Sao_Paulo"

var location atomic.Pointer[time.Location]

// Init sets the business timezone. An empty name selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return err
	}
	location.Store(loc)
	return nil
}

// Location returns the business timezone, loading DefaultTimezone when Init was never called.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		return time.UTC
	}
	return location.Load()
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatInBizTimezone renders t in the business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
