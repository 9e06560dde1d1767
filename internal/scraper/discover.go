package scraper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// CommitteeRef points at one committee's calendar query URL.
type CommitteeRef struct {
	ID  int
	URL string
}

// DiscoverCommittees enumerates the active committees offered by a borough
// landing page. Options are listed in the portal's committee selector; an
// option is inactive when its visible text carries the "inaktiv" marker or
// when it is one of the calWeek placeholder entries. The portal uses the
// two signals inconsistently, so both are checked.
//
// An empty result is a valid terminal state: some boroughs have no active
// bodies.
func DiscoverCommittees(doc *goquery.Document) []CommitteeRef {
	base := ""
	if doc.Url != nil {
		base = doc.Url.String()
	}

	ids := make(map[int]struct{})
	doc.Find("#GRA option").Each(func(_ int, opt *goquery.Selection) {
		if strings.Contains(opt.Text(), "inaktiv") {
			return
		}
		if class, _ := opt.Attr("class"); class == "calWeek" {
			return
		}
		value, ok := opt.Attr("value")
		if !ok {
			return
		}
		id, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return
		}
		ids[id] = struct{}{}
	})

	sorted := make([]int, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	// ascending order keeps the output reviewable and deterministic
	sort.Ints(sorted)

	refs := make([]CommitteeRef, 0, len(sorted))
	for _, id := range sorted {
		refs = append(refs, CommitteeRef{
			ID:  id,
			URL: fmt.Sprintf("%s?GRA=%d", base, id),
		})
	}
	return refs
}

// DateRangeQuery builds the portal's calendar range parameters covering the
// current and the following month.
func DateRangeQuery(now time.Time) string {
	year, month := now.Year(), int(now.Month())
	nextYear, nextMonth := year, month+1
	if month == 12 {
		nextYear, nextMonth = year+1, 1
	}
	return fmt.Sprintf("YYV=%d&MMV=%d&YYB=%d&MMB=%d", year, month, nextYear, nextMonth)
}
