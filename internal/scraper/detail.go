package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// detailInfo holds the supplementary fields of an event detail page.
type detailInfo struct {
	Room     string
	Location string
	Kind     string // session type ("Anlass")
	Status   string
	Agenda   []string
}

// session joins the session type and status fields. When both are present
// they are joined rather than one taking precedence; the portal fills them
// inconsistently and either may carry the useful value.
func (d detailInfo) session() string {
	switch {
	case d.Kind != "" && d.Status != "":
		return d.Kind + ", " + d.Status
	case d.Kind != "":
		return d.Kind
	default:
		return d.Status
	}
}

// detail-page field labels as they appear in the portal's markup
var detailLabels = []string{"Raum", "Ort", "Anlass", "Status"}

// parseDetail extracts meeting room, location, session type/status and the
// agenda from an event detail page. Every field is optional; the page
// layouts differ between boroughs, so fields are located by their label
// cell rather than by position.
func parseDetail(doc *goquery.Document, baseURL string) detailInfo {
	var info detailInfo

	fields := make(map[string]string, len(detailLabels))
	doc.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		label := strings.TrimSuffix(strings.TrimSpace(cell.Text()), ":")
		for _, want := range detailLabels {
			if label != want {
				continue
			}
			if _, seen := fields[want]; seen {
				return
			}
			if value := strings.TrimSpace(cell.Next().Text()); value != "" {
				fields[want] = value
			}
			return
		}
	})
	info.Room = fields["Raum"]
	info.Location = fields["Ort"]
	info.Kind = fields["Anlass"]
	info.Status = fields["Status"]

	info.Agenda = parseAgenda(doc, baseURL)
	return info
}

// parseAgenda builds the itemized agenda from the detail page's table rows:
// an item number, a subject, and optionally a linked document per row.
func parseAgenda(doc *goquery.Document, baseURL string) []string {
	var items []string
	doc.Find("tr.zl11, tr.zl12").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		number := strings.TrimSpace(cells.Eq(0).Text())
		if number == "" {
			return
		}

		// the subject is the meatiest of the remaining cells; column
		// layouts vary between boroughs
		subject := ""
		cells.Slice(1, cells.Length()).Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if len(text) > len(subject) {
				subject = text
			}
		})
		if subject == "" {
			return
		}

		item := fmt.Sprintf("TOP %s: %s", number, subject)
		if href, ok := row.Find("a").First().Attr("href"); ok {
			item += fmt.Sprintf(" (%s)", resolveRef(baseURL, href))
		}
		items = append(items, item)
	})
	return items
}
