package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := New(Config{QueryURL: srv.URL, QueryWait: time.Millisecond})
	page, err := c.Query(context.Background(), QueryRequest{Category: "cs.AI", Start: 0, Max: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if gotQuery != "cat:cs.AI" {
		t.Fatalf("search_query: got %q, want %q", gotQuery, "cat:cs.AI")
	}
	if len(page.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(page.Entries))
	}
}

func TestQuery_DayWindow(t *testing.T) {
	var gotQuery, gotSort, gotOrder string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		gotSort = r.URL.Query().Get("sortBy")
		gotOrder = r.URL.Query().Get("sortOrder")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	day := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
	c := New(Config{QueryURL: srv.URL, QueryWait: time.Millisecond})
	if _, err := c.Query(context.Background(), QueryRequest{Category: "cs.AI", Day: day, Max: 200}); err != nil {
		t.Fatalf("Query: %v", err)
	}

	want := "cat:cs.AI AND submittedDate:[202401220000 TO 202401230000]"
	if gotQuery != want {
		t.Fatalf("search_query:\ngot  %q\nwant %q", gotQuery, want)
	}
	if gotSort != "submittedDate" || gotOrder != "descending" {
		t.Fatalf("sort params: %q %q", gotSort, gotOrder)
	}
}

func TestQuery_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	c := New(Config{QueryURL: srv.URL, QueryWait: time.Millisecond})
	if _, err := c.Query(context.Background(), QueryRequest{Category: "cs.AI", Max: 2}); err != nil {
		t.Fatalf("Query should recover after two failures: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls: got %d, want 3", calls.Load())
	}
}

func TestQuery_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Config{QueryURL: srv.URL, QueryWait: time.Millisecond, QueryRetries: 2})
	_, err := c.Query(context.Background(), QueryRequest{Category: "cs.AI", Max: 1})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Fatalf("error should report attempt count, got: %v", err)
	}
}

func TestDownloadSource(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	c := New(Config{SourceURL: srv.URL, DownloadWait: time.Millisecond})
	data, err := c.DownloadSource(context.Background(), "2401.12345")
	if err != nil {
		t.Fatalf("DownloadSource: %v", err)
	}
	if string(data) != "archive-bytes" {
		t.Fatalf("body: got %q", data)
	}
	if gotPath != "/2401.12345" {
		t.Fatalf("path: got %q", gotPath)
	}
	if gotUA == "" {
		t.Fatal("User-Agent header not set")
	}
}

func TestDownloadSource_Exhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{SourceURL: srv.URL, DownloadWait: time.Millisecond})
	_, err := c.DownloadSource(context.Background(), "2401.12345")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Fatalf("calls: got %d, want 3", calls.Load())
	}
}

func TestDownloadSource_RejectsBadID(t *testing.T) {
	c := New(Config{SourceURL: "http://127.0.0.1:1"})
	if _, err := c.DownloadSource(context.Background(), "../etc/passwd"); err == nil {
		t.Fatal("expected error for invalid id")
	}
}

func TestDownloadSource_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	c := New(Config{SourceURL: srv.URL, MaxArchiveBytes: 10, DownloadWait: time.Millisecond, DownloadRetries: 1})
	if _, err := c.DownloadSource(context.Background(), "2401.12345"); err == nil {
		t.Fatal("expected error for oversized archive")
	}
}

func TestDownloadSource_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Config{SourceURL: srv.URL, DownloadWait: time.Hour})
	if _, err := c.DownloadSource(ctx, "2401.12345"); err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
