package timezone

import (
	"log"
	"strings"
	"time"
)

// Load returns the named IANA location, falling back to UTC.
func Load(name string) *time.Location {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "UTC", "GMT", "Z":
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Unknown timezone %q, using UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
