package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testOptions() Options {
	return Options{
		UserAgent:    "telelinker-test/0.1",
		Timeout:      2 * time.Second,
		MaxRetries:   0,
		RetryBackoff: time.Millisecond,
	}
}

func testFetcher() *Fetcher {
	return NewFetcher(testOptions())
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func assertFallback(t *testing.T, rec Record, contentType string) {
	t.Helper()
	if rec.Author != nil || rec.Likes != nil || rec.Comments != nil || rec.Shares != nil ||
		rec.Views != nil || rec.PublishedAt != nil {
		t.Errorf("Expected all data fields to be absent, got %+v", rec)
	}
	if rec.ContentType == nil || *rec.ContentType != contentType {
		t.Errorf("Expected content type %q to be preserved, got %v", contentType, rec.ContentType)
	}
	if rec.Complete() {
		t.Errorf("Expected fallback record to be incomplete")
	}
}

func assertInt(t *testing.T, name string, got *int64, expected int64) {
	t.Helper()
	if got == nil {
		t.Errorf("Expected %s %d, got nil", name, expected)
		return
	}
	if *got != expected {
		t.Errorf("Expected %s %d, got %d", name, expected, *got)
	}
}

func assertString(t *testing.T, name string, got *string, expected string) {
	t.Helper()
	if got == nil {
		t.Errorf("Expected %s %q, got nil", name, expected)
		return
	}
	if *got != expected {
		t.Errorf("Expected %s %q, got %q", name, expected, *got)
	}
}
