// Package borough holds the static reference data for the twelve Berlin
// boroughs and resolves borough identity from landing-page URLs.
package borough

import (
	"fmt"
	"strconv"
	"strings"
)

// Borough identifies one of the twelve Berlin districts. The data is fixed
// reference data and immutable for the duration of a run.
type Borough struct {
	ID   int
	Name string
	Slug string
	URL  string
}

// names in official order, IDs 1 through 12.
var names = []string{
	"Mitte",
	"Friedrichshain-Kreuzberg",
	"Pankow",
	"Charlottenburg-Wilmersdorf",
	"Spandau",
	"Steglitz-Zehlendorf",
	"Tempelhof-Schöneberg",
	"Neukölln",
	"Treptow-Köpenick",
	"Marzahn-Hellersdorf",
	"Lichtenberg",
	"Reinickendorf",
}

// Slug returns the URL slug for a borough name: lowercase with the umlaut
// transliteration used throughout the committee portal.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "ö", "oe")
}

// All returns the full borough table in ID order.
func All() []Borough {
	boroughs := make([]Borough, len(names))
	for i, name := range names {
		boroughs[i] = Borough{
			ID:   i + 1,
			Name: name,
			Slug: Slug(name),
		}
	}
	return boroughs
}

// Resolve determines the borough referenced by s, which may be a numeric ID
// ("1" through "12"), an exact slug, or any string containing a slug, such
// as a committee portal landing URL.
func Resolve(s string) (Borough, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && id >= 1 && id <= 12 {
		b := All()[id-1]
		return b, nil
	}

	normalized := Slug(s)
	var match Borough
	found := false
	for _, b := range All() {
		if normalized == b.Slug {
			return b, nil
		}
		if !found && strings.Contains(normalized, b.Slug) {
			match = b
			found = true
		}
	}
	if found {
		return match, nil
	}
	return Borough{}, fmt.Errorf("no known borough in %q", s)
}

// FromURL resolves a borough from its landing-page URL and records the URL
// on the returned value.
func FromURL(url string) (Borough, error) {
	b, err := Resolve(url)
	if err != nil {
		return Borough{}, err
	}
	b.URL = url
	return b, nil
}
