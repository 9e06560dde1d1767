package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/elchenberg/gremienkalender/internal/logger"
)

const (
	// DefaultDelay is the minimum wall-clock pause between two requests,
	// measured from the end of the previous response. The portal is
	// rate-sensitive; bursts get the session throttled server-side.
	DefaultDelay = 3 * time.Second

	// DefaultTimeout bounds a single request including body read.
	DefaultTimeout = 30 * time.Second

	reconnectPause = time.Second
)

// Options configures a Session. Zero values fall back to the defaults.
type Options struct {
	Delay     time.Duration
	Timeout   time.Duration
	UserAgent string
	From      string // contact address sent as the From header
}

// Session issues rate-limited GET requests over a single persistent
// connection and carries the portal's application cookies across requests.
// The portal ties its session to a cookie, not to the TCP connection, so
// the cookie state is what actually keeps the session alive.
type Session struct {
	client   *http.Client
	opts     Options
	cookies  []string // ordered "name=value" pairs
	lastDone time.Time
}

// StatusError reports a non-success HTTP status. The affected URL is
// abandoned; the run continues.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
}

// TransportError reports a connection-level failure that survived the
// single reconnect attempt.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// New creates a session for the run.
func New(opts Options) *Session {
	if opts.Delay == 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Session{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				// Compression is handled by this package so that the
				// Accept-Encoding header and the container sniffing
				// stay under our control.
				DisableCompression:  true,
				MaxConnsPerHost:     1,
				MaxIdleConnsPerHost: 1,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts: opts,
	}
}

// Fetch retrieves a URL and returns the parsed HTML document with its base
// URL set to the request URL, so relative links resolve correctly later.
func (s *Session) Fetch(rawURL string) (*goquery.Document, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", rawURL, err)
	}

	s.waitTurn()

	resp, err := s.do(rawURL)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.lastDone = time.Now()
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}

	s.rememberCookies(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	raw, err := decompress(body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", rawURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(decodeText(raw)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	doc.Url = parsed
	return doc, nil
}

// waitTurn enforces the minimum delay since the end of the previous request.
// Measuring from response end rather than request start keeps slow server
// responses from turning into request bursts.
func (s *Session) waitTurn() {
	if s.lastDone.IsZero() {
		return
	}
	if elapsed := time.Since(s.lastDone); elapsed < s.opts.Delay {
		time.Sleep(s.opts.Delay - elapsed)
	}
}

// do issues the request, reconnecting once when the remote end drops the
// connection mid-session before giving up.
func (s *Session) do(rawURL string) (*http.Response, error) {
	attempt := func() (*http.Response, error) {
		req, err := http.NewRequest(http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept-Encoding", "gzip")
		req.Header.Set("Connection", "keep-alive")
		if s.opts.UserAgent != "" {
			req.Header.Set("User-Agent", s.opts.UserAgent)
		}
		if s.opts.From != "" {
			req.Header.Set("From", s.opts.From)
		}
		if len(s.cookies) > 0 {
			req.Header.Set("Cookie", strings.Join(s.cookies, "; "))
		}

		resp, err := s.client.Do(req)
		if err != nil {
			logger.Warn("connection dropped, reconnecting", logger.Fields{"url": rawURL})
			s.client.CloseIdleConnections()
			return nil, err
		}
		return resp, nil
	}
	return backoff.RetryWithData(attempt,
		backoff.WithMaxRetries(backoff.NewConstantBackOff(reconnectPause), 1))
}

// rememberCookies persists Set-Cookie values into the outgoing header state
// for all later requests of this run. Later cookies with a known name
// replace the stored value.
func (s *Session) rememberCookies(resp *http.Response) {
	for _, c := range resp.Cookies() {
		pair := c.Name + "=" + c.Value
		replaced := false
		for i, existing := range s.cookies {
			if strings.HasPrefix(existing, c.Name+"=") {
				s.cookies[i] = pair
				replaced = true
				break
			}
		}
		if !replaced {
			s.cookies = append(s.cookies, pair)
		}
	}
}
