package research

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const ddgFixture = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fone">First Result</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/two">Second Result</a>
</div>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fthree">Third Result</a>
</div>
</body></html>`

func newTestSearchClient(srv *httptest.Server) *DuckDuckGoClient {
	return &DuckDuckGoClient{
		Client:  &http.Client{Timeout: 5 * time.Second},
		BaseURL: srv.URL,
	}
}

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "go concurrency" {
			t.Errorf("unexpected query: %q", r.URL.Query().Get("q"))
		}
		io.WriteString(w, ddgFixture)
	}))
	defer srv.Close()

	links, err := newTestSearchClient(srv).Search(context.Background(), "go concurrency", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	if links[0].URL != "https://example.com/one" {
		t.Errorf("redirect not unwrapped: %q", links[0].URL)
	}
	if links[0].Title != "First Result" {
		t.Errorf("title = %q", links[0].Title)
	}
	if links[1].URL != "https://example.com/two" {
		t.Errorf("direct link mangled: %q", links[1].URL)
	}
}

func TestSearchRespectsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, ddgFixture)
	}))
	defer srv.Close()

	links, err := newTestSearchClient(srv).Search(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("expected 2 links, got %d", len(links))
	}
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newTestSearchClient(srv).Search(context.Background(), "anything", 5); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestDedupeLinks(t *testing.T) {
	links := []Link{
		{URL: "https://a.example", Title: "a"},
		{URL: "https://b.example", Title: "b"},
		{URL: "https://a.example", Title: "a again"},
	}

	unique := DedupeLinks(links)
	if len(unique) != 2 {
		t.Fatalf("expected 2 unique links, got %d", len(unique))
	}
	if unique[0].Title != "a" || unique[1].Title != "b" {
		t.Errorf("order not preserved: %v", unique)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading chatter", "Sure! Here you go: {\"a\":1}", `{"a":1}`},
		{"no braces", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
