// Package event defines the data model of the crawl: committee meetings and
// per-committee calendars, the deterministic UID scheme that keeps repeated
// runs idempotent, and the date/time parsing shared by extractor and tests.
package event
