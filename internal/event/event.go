package event

import (
	"fmt"
	"time"
)

// Event is a single committee meeting extracted from a calendar page.
type Event struct {
	Start       time.Time // local wall-clock time in Europe/Berlin
	Generated   time.Time // UTC crawl timestamp, fixed once per run
	Summary     string
	Description string
	URL         string // detail page, optional
	Location    string // optional, filled from the detail page
	Duration    string // RFC5545 duration, empty means the PT2H default
}

// Calendar groups the meetings of one committee together with the metadata
// needed to serialize and store it.
type Calendar struct {
	UID       string // borough slug + zero-padded committee number
	Borough   string
	Committee string
	URL       string // canonical committee calendar URL
	Events    []Event
}

// NewCalendar wraps an extracted event sequence with committee-level
// metadata. It is the single seam between extraction and serialization.
func NewCalendar(boroughName, boroughSlug string, committeeID int, committeeName, url string, events []Event) *Calendar {
	return &Calendar{
		UID:       CalendarUID(boroughSlug, committeeID),
		Borough:   boroughName,
		Committee: committeeName,
		URL:       url,
		Events:    events,
	}
}

// CalendarUID derives the stable calendar identifier, also used as the
// output filename key.
func CalendarUID(boroughSlug string, committeeID int) string {
	return fmt.Sprintf("%s-%03d", boroughSlug, committeeID)
}

// UID derives the stable event identifier from the start time and the
// committee identity. Repeated runs seeing the same meeting produce the same
// UID, so importing calendar clients overwrite instead of duplicating.
func (e Event) UID(boroughSlug string, committeeID int) string {
	return fmt.Sprintf("%s@%03d.%s.berlin.de", e.Start.Format("20060102T150405"), committeeID, boroughSlug)
}
