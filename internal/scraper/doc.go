// Package scraper turns the committee portal's hand-authored HTML into
// structured data.
//
// The portal is operated independently by twelve borough administrations
// and the markup differs in small, inconsistent ways between them: inactive
// committees are detected by two independent signals, rows missing their
// date or time cells are skipped rather than treated as errors, and detail
// pages are strictly optional enrichment.
package scraper
