// Package fetcher provides the rate-limited, session-aware HTTP layer of
// the crawl.
//
// A Session keeps one persistent connection to the committee portal,
// enforces a minimum pause between requests measured from the end of the
// previous response, echoes the portal's session cookies on every request,
// and turns response bytes into parsed goquery documents through a
// decompression and character-decoding fallback chain. The portal's servers
// are unreliable: connections get dropped mid-session, compression framing
// varies, and the declared charset is not always the real one.
package fetcher
