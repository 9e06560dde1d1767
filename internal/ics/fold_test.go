package ics

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFoldShortLinePassesThrough(t *testing.T) {
	tests := []string{
		"",
		"BEGIN:VCALENDAR",
		strings.Repeat("a", 75),
	}
	for _, line := range tests {
		got := Fold(line)
		if len(got) != 1 || got[0] != line {
			t.Errorf("Fold(%q) = %v, want the line unchanged", line, got)
		}
	}
}

func TestFoldLongLine(t *testing.T) {
	line := "DESCRIPTION:" + strings.Repeat("abcdef", 30)
	physical := Fold(line)

	if len(physical) < 2 {
		t.Fatalf("expected folding, got %d lines", len(physical))
	}
	for i, p := range physical {
		if len(p) > MaxLineOctets {
			t.Errorf("physical line %d has %d octets", i, len(p))
		}
		if i > 0 && !strings.HasPrefix(p, " ") {
			t.Errorf("continuation line %d lacks the leading space", i)
		}
	}

	// unfolding restores the original content line
	unfolded := physical[0]
	for _, p := range physical[1:] {
		unfolded += p[1:]
	}
	if unfolded != line {
		t.Errorf("unfolding does not restore the input:\n%q\n%q", line, unfolded)
	}
}

// A multi-byte character sitting on the 75-octet boundary must be moved to
// the next physical line in one piece, never split.
func TestFoldMultiByteBoundary(t *testing.T) {
	for offset := 70; offset <= 76; offset++ {
		line := strings.Repeat("a", offset) + "ä" + strings.Repeat("b", 40)
		for i, p := range Fold(line) {
			if len(p) > MaxLineOctets {
				t.Errorf("offset %d: physical line %d has %d octets", offset, i, len(p))
			}
			if !utf8.ValidString(p) {
				t.Errorf("offset %d: physical line %d splits a multi-byte character: %q", offset, i, p)
			}
		}
	}
}

// Folding already-folded text must change nothing: every physical line of a
// folded stream fits the limit, so a second pass passes them through.
func TestFoldIdempotent(t *testing.T) {
	line := "SUMMARY:" + strings.Repeat("Bezirksverordnetenversammlung ", 10)
	physical := Fold(line)

	for _, p := range physical {
		again := Fold(p)
		if len(again) != 1 || again[0] != p {
			t.Errorf("refolding changed an already-folded line: %q -> %v", p, again)
		}
	}
}
