package research

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchConvertsToMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Heading</h1><p>Some <strong>bold</strong> text.</p></body></html>`)
	}))
	defer srv.Close()

	fetcher := NewPageFetcher()
	visit, err := fetcher.Fetch(context.Background(), Link{URL: srv.URL, Title: "Test Page"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if visit.PageTitle != "Test Page" {
		t.Errorf("page title = %q", visit.PageTitle)
	}
	if !strings.Contains(visit.Content, "# Heading") {
		t.Errorf("expected markdown heading, got %q", visit.Content)
	}
	if !strings.Contains(visit.Content, "**bold**") {
		t.Errorf("expected bold markdown, got %q", visit.Content)
	}
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	fetcher := NewPageFetcher()
	_, err := fetcher.Fetch(context.Background(), Link{URL: srv.URL})
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestFetchAllSkipsFailures(t *testing.T) {
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<p>fine</p>`)
	}))
	defer okSrv.Close()

	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer badSrv.Close()

	fetcher := NewPageFetcher()
	visits, err := fetcher.FetchAll(context.Background(), []Link{
		{URL: okSrv.URL, Title: "good"},
		{URL: badSrv.URL, Title: "bad"},
	}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visits) != 1 {
		t.Fatalf("expected 1 visit, got %d", len(visits))
	}
	if visits[0].PageTitle != "good" {
		t.Errorf("kept the wrong page: %q", visits[0].PageTitle)
	}
}

func TestFetchAllAllFailed(t *testing.T) {
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer badSrv.Close()

	fetcher := NewPageFetcher()
	_, err := fetcher.FetchAll(context.Background(), []Link{{URL: badSrv.URL}}, 2)
	if err == nil {
		t.Fatal("expected error when every fetch fails")
	}
}

func TestFetchAllEmptyInput(t *testing.T) {
	fetcher := NewPageFetcher()
	visits, err := fetcher.FetchAll(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if visits != nil {
		t.Errorf("expected nil visits, got %v", visits)
	}
}
