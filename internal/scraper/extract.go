package scraper

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/elchenberg/gremienkalender/internal/borough"
	"github.com/elchenberg/gremienkalender/internal/event"
	"github.com/elchenberg/gremienkalender/internal/logger"
)

// ErrNoCommitteeHeader is returned when a calendar page lacks the header
// cell carrying the committee name. The affected committee is skipped; the
// run continues.
var ErrNoCommitteeHeader = errors.New("committee header not found")

const (
	namePrefix = "Sitzungen des Gremiums "
	nameSuffix = " im Zeitraum"

	// DefaultGrace is how far in the past a meeting may start and still be
	// emitted. Listings on the portal can lag by a day; anything older has
	// certainly happened.
	DefaultGrace = 24 * time.Hour
)

// Fetcher is the slice of the fetch layer the extractor needs for detail
// pages.
type Fetcher interface {
	Fetch(url string) (*goquery.Document, error)
}

// Options tunes the extractor.
type Options struct {
	Now          time.Time     // crawl timestamp, fixed once per run
	Grace        time.Duration // past-event exclusion window, 0 means DefaultGrace
	FetchDetails bool          // dereference per-event detail pages
}

// Extractor parses committee calendar pages into event records.
type Extractor struct {
	fetch Fetcher
	opts  Options
}

// NewExtractor creates an extractor. fetch may be nil, in which case detail
// pages are never dereferenced.
func NewExtractor(fetch Fetcher, opts Options) *Extractor {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if opts.Grace == 0 {
		opts.Grace = DefaultGrace
	}
	return &Extractor{fetch: fetch, opts: opts}
}

// ExtractCalendar parses one committee's calendar page. It returns nil when
// no qualifying rows remain after filtering; callers must not write an
// empty calendar. A missing committee header is a hard failure for this
// calendar only.
func (x *Extractor) ExtractCalendar(doc *goquery.Document, b borough.Borough, ref CommitteeRef) (*event.Calendar, error) {
	rows := doc.Find("tr.zl11, tr.zl12")
	if rows.Length() == 0 {
		return nil, nil
	}

	name, err := committeeName(doc)
	if err != nil {
		return nil, err
	}

	var events []event.Event
	rows.Each(func(_ int, row *goquery.Selection) {
		evt, ok := x.extractRow(row, b, name, ref)
		if ok {
			events = append(events, evt)
		}
	})
	if len(events) == 0 {
		return nil, nil
	}

	return event.NewCalendar(b.Name, b.Slug, ref.ID, name, ref.URL, events), nil
}

// committeeName pulls the committee display name out of the calendar page
// header and trims the surrounding phrase fragments.
func committeeName(doc *goquery.Document) (string, error) {
	header := doc.Find(".tl1").First()
	if header.Length() == 0 {
		return "", ErrNoCommitteeHeader
	}
	name := strings.TrimSpace(header.Children().First().Text())
	if name == "" {
		name = strings.TrimSpace(header.Text())
	}
	if i := strings.Index(name, namePrefix); i >= 0 {
		name = name[i+len(namePrefix):]
	}
	if i := strings.Index(name, nameSuffix); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", ErrNoCommitteeHeader
	}
	return name, nil
}

// extractRow parses a single calendar row. Rows missing their date or time
// cell are header or spacer rows, not events, and are silently skipped.
func (x *Extractor) extractRow(row *goquery.Selection, b borough.Borough, committee string, ref CommitteeRef) (event.Event, bool) {
	cells := row.Find("td")
	dateText := strings.TrimSpace(cells.Eq(0).Text())
	timeText := strings.TrimSpace(cells.Eq(1).Text())
	if dateText == "" || timeText == "" {
		return event.Event{}, false
	}

	start, err := event.ParseStart(dateText, timeText)
	if err != nil {
		logger.Debug("skipping malformed row", logger.Fields{
			"committee": ref.URL,
			"date":      dateText,
			"time":      timeText,
		})
		return event.Event{}, false
	}
	if event.TooOld(start, x.opts.Now, x.opts.Grace) {
		return event.Event{}, false
	}

	evt := event.Event{
		Start:     start,
		Generated: x.opts.Now,
		Summary:   b.Name + ": " + committee,
	}

	descCell := cells.Eq(3)
	evt.Description = strings.TrimSpace(descCell.Text())
	if href, ok := descCell.Find("a").First().Attr("href"); ok {
		evt.URL = resolveRef(ref.URL, href)
	}

	if x.opts.FetchDetails && evt.URL != "" && x.fetch != nil {
		x.enrichFromDetail(&evt)
	}
	return evt, true
}

// enrichFromDetail dereferences the event's detail page and merges the
// supplementary fields into the event. Fetch or parse failures degrade
// gracefully: the event keeps its primary-page description.
func (x *Extractor) enrichFromDetail(evt *event.Event) {
	doc, err := x.fetch.Fetch(evt.URL)
	if err != nil {
		logger.Warn("detail page unavailable", logger.Fields{"url": evt.URL, "error": err.Error()})
		return
	}

	detail := parseDetail(doc, evt.URL)

	var parts []string
	if evt.Description != "" {
		parts = append(parts, evt.Description)
	}
	if s := detail.session(); s != "" {
		parts = append(parts, s)
	}
	if len(detail.Agenda) > 0 {
		parts = append(parts, "Tagesordnung:")
		parts = append(parts, detail.Agenda...)
	}
	evt.Description = strings.Join(parts, "\n")

	switch {
	case detail.Room != "" && detail.Location != "":
		evt.Location = detail.Room + ", " + detail.Location
	case detail.Room != "":
		evt.Location = detail.Room
	case detail.Location != "":
		evt.Location = detail.Location
	}
}

// resolveRef resolves a possibly relative href against a base URL. On any
// parse error the href is returned as-is.
func resolveRef(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	refURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(refURL).String()
}
