package fetcher

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testOptions() Options {
	return Options{
		Delay:     time.Millisecond,
		Timeout:   5 * time.Second,
		UserAgent: "gremienkalender-test",
	}
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zlibBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// Latin-1 page with a non-ASCII character (0xF6 = ö), served gzip-wrapped.
func TestFetchGzipLatin1(t *testing.T) {
	page := gzipBytes(t, []byte("<html><body><h1>Gr\xf6mienkalender</h1></body></html>"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Encoding"); got != "gzip" {
			t.Errorf("Accept-Encoding = %q, want gzip", got)
		}
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(page)
	}))
	defer srv.Close()

	s := New(testOptions())
	doc, err := s.Fetch(srv.URL + "/si018.asp")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if got := doc.Find("h1").Text(); got != "Grömienkalender" {
		t.Errorf("decoded heading = %q, want Grömienkalender", got)
	}
	if doc.Url == nil || doc.Url.Path != "/si018.asp" {
		t.Errorf("document base URL not set to the request URL: %v", doc.Url)
	}
}

// The server's compression framing is inconsistent; a zlib-wrapped stream
// must decompress as well.
func TestFetchZlibContainer(t *testing.T) {
	page := zlibBytes(t, []byte("<html><body><p>zlib</p></body></html>"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(page)
	}))
	defer srv.Close()

	s := New(testOptions())
	doc, err := s.Fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := doc.Find("p").Text(); got != "zlib" {
		t.Errorf("body = %q, want zlib", got)
	}
}

func TestFetchUncompressed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>plain</p></body></html>"))
	}))
	defer srv.Close()

	s := New(testOptions())
	doc, err := s.Fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := doc.Find("p").Text(); got != "plain" {
		t.Errorf("body = %q, want plain", got)
	}
}

// Set-Cookie responses must be echoed on all subsequent requests of the
// session; the portal's application session is tied to the cookie.
func TestFetchCookiePersistence(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch requests {
		case 1:
			http.SetCookie(w, &http.Cookie{Name: "ALLRIS_SID", Value: "abc123"})
		default:
			cookie, err := r.Cookie("ALLRIS_SID")
			if err != nil || cookie.Value != "abc123" {
				t.Errorf("request %d missing session cookie: %v", requests, err)
			}
		}
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	s := New(testOptions())
	for i := 0; i < 3; i++ {
		if _, err := s.Fetch(srv.URL); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
	if requests != 3 {
		t.Fatalf("expected 3 requests, got %d", requests)
	}
}

func TestFetchCookieReplacement(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch requests {
		case 1:
			http.SetCookie(w, &http.Cookie{Name: "SID", Value: "first"})
		case 2:
			http.SetCookie(w, &http.Cookie{Name: "SID", Value: "second"})
		default:
			if cookie, err := r.Cookie("SID"); err != nil || cookie.Value != "second" {
				t.Errorf("expected replaced cookie value, got %v", cookie)
			}
		}
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	s := New(testOptions())
	for i := 0; i < 3; i++ {
		if _, err := s.Fetch(srv.URL); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(testOptions())
	_, err := s.Fetch(srv.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("Code = %d, want 404", statusErr.Code)
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	s := New(testOptions())
	_, err := s.Fetch(srv.URL)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}

// The delay gate is measured from the end of the previous response.
func TestFetchRateDelay(t *testing.T) {
	var timestamps []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timestamps = append(timestamps, time.Now())
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	opts := testOptions()
	opts.Delay = 50 * time.Millisecond
	s := New(opts)
	for i := 0; i < 2; i++ {
		if _, err := s.Fetch(srv.URL); err != nil {
			t.Fatalf("Fetch %d: %v", i, err)
		}
	}

	if len(timestamps) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(timestamps))
	}
	if gap := timestamps[1].Sub(timestamps[0]); gap < opts.Delay {
		t.Errorf("requests only %v apart, want at least %v", gap, opts.Delay)
	}
}
