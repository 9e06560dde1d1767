package storage

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
)

// IndexEntry is one calendar link on the overview page.
type IndexEntry struct {
	Filename  string
	Committee string
}

type indexSection struct {
	Borough string
	Entries []IndexEntry
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Gremienkalender der Berliner Bezirksverordnetenversammlungen</title>
</head>
<body>
<header>
<h1>Gremienkalender der Berliner Bezirksverordnetenversammlungen</h1>
<p>Sitzungskalender der Gremien der Berliner Bezirksverordnetenversammlungen als iCalendar-Dateien (.ics) zum Abspeichern oder Abonnieren.</p>
</header>
<main>
{{- range . }}
<section>
<h2>{{ .Borough }}</h2>
<ul>
{{- range .Entries }}
<li><a href="{{ .Filename }}">{{ .Committee }}</a></li>
{{- end }}
</ul>
</section>
{{- end }}
</main>
</body>
</html>
`))

// WriteIndex renders the overview page listing every written calendar,
// grouped by borough in alphabetical order.
func (s *Store) WriteIndex(byBorough map[string][]IndexEntry) error {
	boroughs := make([]string, 0, len(byBorough))
	for name := range byBorough {
		boroughs = append(boroughs, name)
	}
	sort.Strings(boroughs)

	sections := make([]indexSection, 0, len(boroughs))
	for _, name := range boroughs {
		sections = append(sections, indexSection{Borough: name, Entries: byBorough[name]})
	}

	f, err := os.Create(filepath.Join(s.dir, "index.html"))
	if err != nil {
		return fmt.Errorf("creating index.html: %w", err)
	}
	defer f.Close()

	if err := indexTemplate.Execute(f, sections); err != nil {
		return fmt.Errorf("rendering index.html: %w", err)
	}
	return nil
}
