package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/elchenberg/gremienkalender/internal/borough"
	"github.com/elchenberg/gremienkalender/internal/event"
	"github.com/elchenberg/gremienkalender/internal/fetcher"
	"github.com/elchenberg/gremienkalender/internal/ics"
	"github.com/elchenberg/gremienkalender/internal/logger"
	"github.com/elchenberg/gremienkalender/internal/scraper"
	"github.com/elchenberg/gremienkalender/internal/storage"
)

// runCrawl executes one full pipeline run. The failure unit is a single
// URL or page: no error in one borough or committee aborts the others.
func runCrawl(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	urls, err := readInput(cfg.InputFile, cfg.URLPrefix)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no borough URLs in %s", cfg.InputFile)
	}

	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return err
	}

	session := fetcher.New(fetcher.Options{
		Delay:     cfg.Delay.Std(),
		Timeout:   cfg.Timeout.Std(),
		UserAgent: cfg.UserAgent,
		From:      cfg.From,
	})

	now := time.Now()
	extractor := scraper.NewExtractor(session, scraper.Options{
		Now:          now.UTC(),
		Grace:        cfg.Grace.Std(),
		FetchDetails: cfg.FetchDetails,
	})
	dateQuery := scraper.DateRangeQuery(now.In(event.Location()))

	index := make(map[string][]storage.IndexEntry)
	for _, url := range urls {
		crawlBorough(url, session, extractor, store, dateQuery, index)
	}

	if err := store.WriteIndex(index); err != nil {
		logger.Error("writing index page", nil, err)
	}

	logger.Info("run complete", logger.MetricsSnapshot())
	return nil
}

// crawlBorough processes one borough landing page and all of its committee
// calendars.
func crawlBorough(url string, session *fetcher.Session, extractor *scraper.Extractor, store *storage.Store, dateQuery string, index map[string][]storage.IndexEntry) {
	b, err := borough.FromURL(url)
	if err != nil {
		logger.Warn("skipping unknown borough URL", logger.Fields{"url": url, "error": err.Error()})
		return
	}

	landing, err := fetchTimed(session, url)
	if err != nil {
		logger.Error("borough landing page unavailable", logger.Fields{"borough": b.Slug, "url": url}, err)
		return
	}
	logger.IncrCounter("boroughs")

	refs := scraper.DiscoverCommittees(landing)
	logger.Debug("discovered committees", logger.Fields{"borough": b.Slug, "count": len(refs)})

	for _, ref := range refs {
		crawlCommittee(b, ref, session, extractor, store, dateQuery, index)
	}
}

// crawlCommittee fetches, extracts, serializes and writes one committee
// calendar. Committees without forthcoming meetings produce no file.
func crawlCommittee(b borough.Borough, ref scraper.CommitteeRef, session *fetcher.Session, extractor *scraper.Extractor, store *storage.Store, dateQuery string, index map[string][]storage.IndexEntry) {
	logger.IncrCounter("committees")

	doc, err := fetchTimed(session, ref.URL+"&"+dateQuery)
	if err != nil {
		logger.Error("committee calendar page unavailable", logger.Fields{"borough": b.Slug, "committee": ref.ID}, err)
		return
	}

	cal, err := extractor.ExtractCalendar(doc, b, ref)
	if err != nil {
		logger.Warn("skipping committee", logger.Fields{"borough": b.Slug, "committee": ref.ID, "error": err.Error()})
		return
	}
	if cal == nil {
		return
	}
	logger.IncrCounter("calendars")
	for range cal.Events {
		logger.IncrCounter("events")
	}

	text := ics.Serialize(cal, b.Slug, ref.ID)
	if text == "" {
		return
	}
	filename, err := store.WriteCalendar(cal.UID, text)
	if err != nil {
		logger.Error("writing calendar file", logger.Fields{"calendar": cal.UID}, err)
		return
	}
	index[b.Name] = append(index[b.Name], storage.IndexEntry{Filename: filename, Committee: cal.Committee})
}

// fetchTimed wraps a session fetch with a timing metric.
func fetchTimed(session *fetcher.Session, url string) (doc *goquery.Document, err error) {
	start := time.Now()
	defer logger.RecordTiming("fetch", time.Since(start))
	return session.Fetch(url)
}

// readInput reads the borough URL list: one absolute URL per line, blank
// lines and lines without the expected prefix ignored.
func readInput(path, prefix string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading input list: %w", err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || !strings.HasPrefix(line, prefix) {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input list: %w", err)
	}
	return urls, nil
}
