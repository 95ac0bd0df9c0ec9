package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
)

func rssFixture(t *testing.T, titles ...string) string {
	t.Helper()
	feed := &feeds.Feed{
		Title:   "FCT/UFG",
		Link:    &feeds.Link{Href: "https://fct.ufg.br"},
		Created: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
	}
	for i, title := range titles {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("item-%d", i),
			Title:       title,
			Link:        &feeds.Link{Href: fmt.Sprintf("https://fct.ufg.br/n/%d", i)},
			Description: fmt.Sprintf("<p>Body <b>%d</b></p>", i),
			Created:     time.Date(2024, 5, 10-i, 9, 0, 0, 0, time.UTC),
		})
	}
	rss, err := feed.ToRss()
	if err != nil {
		t.Fatalf("ToRss: %v", err)
	}
	return rss
}

func serve(body string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestFetchParsesEntriesInOrder(t *testing.T) {
	srv := serve(rssFixture(t, "A", "B", "C"), http.StatusOK)
	defer srv.Close()

	entries, meta, err := NewFetcher(srv.URL, 0, 5*time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries; want 3", len(entries))
	}
	for i, want := range []string{"A", "B", "C"} {
		if entries[i].Title != want {
			t.Errorf("entries[%d].Title = %q; want %q", i, entries[i].Title, want)
		}
	}
	if entries[0].Link != "https://fct.ufg.br/n/0" {
		t.Errorf("Link = %q", entries[0].Link)
	}
	if !strings.Contains(entries[1].Description, "<b>1</b>") {
		t.Errorf("Description lost its markup: %q", entries[1].Description)
	}
	if entries[0].PublishedAt == nil {
		t.Error("PublishedAt not parsed")
	}
	if meta.Title != "FCT/UFG" || meta.FeedURL != srv.URL {
		t.Errorf("meta = %+v", meta)
	}
}

func TestFetchCapsEntries(t *testing.T) {
	srv := serve(rssFixture(t, "A", "B", "C", "D"), http.StatusOK)
	defer srv.Close()

	entries, _, err := NewFetcher(srv.URL, 2, 5*time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(entries) != 2 || entries[1].Title != "B" {
		t.Fatalf("entries = %+v; want first two", entries)
	}
}

func TestFetchMediaFields(t *testing.T) {
	const doc = `<?xml version="1.0"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel><title>T</title><link>https://example.com</link>
<item>
  <title>With media</title>
  <link>https://example.com/a</link>
  <description>text</description>
  <enclosure url="https://example.com/a.jpg" type="image/jpeg" length="10"/>
  <media:thumbnail url="https://example.com/thumb.jpg"/>
</item>
</channel></rss>`
	srv := serve(doc, http.StatusOK)
	defer srv.Close()

	entries, _, err := NewFetcher(srv.URL, 0, 5*time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	e := entries[0]
	if len(e.Enclosures) != 1 || e.Enclosures[0].Type != "image/jpeg" {
		t.Errorf("Enclosures = %+v", e.Enclosures)
	}
	if len(e.Thumbnails) != 1 || e.Thumbnails[0] != "https://example.com/thumb.jpg" {
		t.Errorf("Thumbnails = %+v", e.Thumbnails)
	}
}

func TestFetchClassifiesFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := serve("oops", http.StatusInternalServerError)
		defer srv.Close()
		_, _, err := NewFetcher(srv.URL, 0, time.Second).Fetch(context.Background())
		if !stderrors.Is(err, errors.ErrNetwork) {
			t.Fatalf("err = %v; want ErrNetwork", err)
		}
	})

	t.Run("garbage document", func(t *testing.T) {
		srv := serve("this is not a feed", http.StatusOK)
		defer srv.Close()
		_, _, err := NewFetcher(srv.URL, 0, time.Second).Fetch(context.Background())
		if !stderrors.Is(err, errors.ErrParse) {
			t.Fatalf("err = %v; want ErrParse", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		_, _, err := NewFetcher(srv.URL, 0, 50*time.Millisecond).Fetch(context.Background())
		if !stderrors.Is(err, errors.ErrNetwork) {
			t.Fatalf("err = %v; want ErrNetwork", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := serve("", http.StatusOK)
		url := srv.URL
		srv.Close()
		_, _, err := NewFetcher(url, 0, time.Second).Fetch(context.Background())
		if !stderrors.Is(err, errors.ErrNetwork) {
			t.Fatalf("err = %v; want ErrNetwork", err)
		}
	})
}
