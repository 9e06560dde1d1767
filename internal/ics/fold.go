package ics

import "unicode/utf8"

// MaxLineOctets is the RFC 5545 limit on the length of a physical content
// line, excluding the CRLF terminator, counted in UTF-8 octets.
const MaxLineOctets = 75

// Fold splits a content line into physical lines of at most MaxLineOctets
// octets. Continuation lines start with a single space that counts toward
// their own limit. The split point is found by shrinking the candidate slice
// to a rune boundary, so multi-byte characters are never cut apart. Lines
// that already fit pass through unchanged, which makes folding idempotent.
func Fold(line string) []string {
	var physical []string
	for len(line) > MaxLineOctets {
		cut := MaxLineOctets
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		physical = append(physical, line[:cut])
		line = " " + line[cut:]
	}
	return append(physical, line)
}
