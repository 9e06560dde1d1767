package event

import (
	"fmt"
	"strings"
	"time"
)

// Timezone is the wall-clock timezone of all meetings on the portal.
const Timezone = "Europe/Berlin"

var berlin *time.Location

func init() {
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		// tzdata missing on the host; CET without DST is the closest we
		// can get and keeps the pipeline running.
		loc = time.FixedZone("CET", 1*60*60)
	}
	berlin = loc
}

// Location returns the Europe/Berlin location used for all start times.
func Location() *time.Location {
	return berlin
}

// ParseStart combines the date and time cell texts of a calendar row into a
// local start timestamp. The date cell carries a weekday prefix
// ("Mo, 01.01.2030") and the time cell a unit suffix ("14:00 Uhr"); both are
// tolerated but not required.
func ParseStart(dateText, timeText string) (time.Time, error) {
	date := strings.TrimSpace(dateText)
	if i := strings.Index(date, ", "); i >= 0 {
		date = date[i+2:]
	}

	clock := strings.TrimSpace(timeText)
	if len(clock) > 5 {
		clock = clock[:5]
	}

	t, err := time.ParseInLocation("02.01.2006 15:04", date+" "+clock, berlin)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q %q: %w", dateText, timeText, err)
	}
	return t, nil
}

// TooOld reports whether a start time lies further in the past than the
// grace window, measured against the crawl time. Meetings that have already
// happened are not calendared.
func TooOld(start, now time.Time, grace time.Duration) bool {
	return start.Before(now.Add(-grace))
}
