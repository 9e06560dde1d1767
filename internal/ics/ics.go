// Package ics renders committee calendars as RFC 5545 iCalendar text.
package ics

import (
	"fmt"
	"strings"

	"github.com/elchenberg/gremienkalender/internal/event"
)

const (
	// ProdID identifies the generator in the VCALENDAR envelope.
	ProdID = "-//gremienkalender//committee-calendars//DE"

	defaultDuration = "PT2H"
)

// timezone is the static VTIMEZONE block for Europe/Berlin. The EU
// daylight-saving transitions are encoded as recurrence rules, so the block
// is identical in every output file.
var timezone = []string{
	"BEGIN:VTIMEZONE",
	"TZID:Europe/Berlin",
	"BEGIN:DAYLIGHT",
	"TZOFFSETFROM:+0100",
	"TZOFFSETTO:+0200",
	"TZNAME:CEST",
	"DTSTART:19700329T020000",
	"RRULE:FREQ=YEARLY;INTERVAL=1;BYDAY=-1SU;BYMONTH=3",
	"END:DAYLIGHT",
	"BEGIN:STANDARD",
	"TZOFFSETFROM:+0200",
	"TZOFFSETTO:+0100",
	"TZNAME:CET",
	"DTSTART:19701025T030000",
	"RRULE:FREQ=YEARLY;INTERVAL=1;BYDAY=-1SU;BYMONTH=10",
	"END:STANDARD",
	"END:VTIMEZONE",
}

// Serialize renders a calendar as folded iCalendar text with CRLF line
// endings. It returns the empty string for a calendar without events; the
// caller must not create a file in that case.
func Serialize(cal *event.Calendar, boroughSlug string, committeeID int) string {
	if cal == nil || len(cal.Events) == 0 {
		return ""
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ProdID,
		"X-WR-CALNAME:" + Escape(fmt.Sprintf("BVV %s: %s", cal.Borough, cal.Committee)),
	}
	lines = append(lines, timezone...)

	for _, evt := range cal.Events {
		lines = append(lines, eventLines(evt, boroughSlug, committeeID)...)
	}
	lines = append(lines, "END:VCALENDAR")

	var out strings.Builder
	for _, line := range lines {
		for _, physical := range Fold(line) {
			out.WriteString(physical)
			out.WriteString("\r\n")
		}
	}
	return out.String()
}

func eventLines(evt event.Event, boroughSlug string, committeeID int) []string {
	duration := evt.Duration
	if duration == "" {
		duration = defaultDuration
	}

	description := evt.Description
	if evt.URL != "" {
		description += "\n" + evt.URL
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + evt.UID(boroughSlug, committeeID),
		"DTSTAMP:" + evt.Generated.UTC().Format("20060102T150405Z"),
		"DTSTART;TZID=" + event.Timezone + ":" + evt.Start.Format("20060102T150405"),
		"DURATION:" + duration,
		"SUMMARY:" + Escape(evt.Summary),
		"DESCRIPTION:" + Escape(description),
	}
	if evt.URL != "" {
		lines = append(lines, "URL:"+evt.URL)
	}
	if evt.Location != "" {
		lines = append(lines, "LOCATION:"+Escape(evt.Location))
	}
	lines = append(lines, "END:VEVENT")
	return lines
}

// Escape escapes the characters RFC 5545 reserves in text values.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
