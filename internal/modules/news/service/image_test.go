package service

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	feedDomain "github.com/reshetovitsme/news-panel/internal/modules/feed/domain"
	"github.com/reshetovitsme/news-panel/internal/modules/news/domain"
	"github.com/reshetovitsme/news-panel/internal/shared/config"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
)

const placeholder = "/static/placeholder.svg"

func TestFixImageURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		base string
		want string
	}{
		{"absolute", "https://fct.ufg.br/a.jpg", "", "https://fct.ufg.br/a.jpg"},
		{"doubled host", "http://fct.ufg.brhttps://fct.ufg.br/wp/a.jpg", "", "https://fct.ufg.br/wp/a.jpg"},
		{"doubled https host", "https://fct.ufg.brhttps://cdn.ufg.br/a.png", "", "https://cdn.ufg.br/a.png"},
		{"query keeps nested url", "https://img.example.com/r?u=http://other/a.jpg", "", "https://img.example.com/r?u=http://other/a.jpg"},
		{"relative", "/wp/a.jpg", "https://fct.ufg.br/feed", "https://fct.ufg.br/wp/a.jpg"},
		{"relative without base", "/wp/a.jpg", "", ""},
		{"scheme relative", "//cdn.ufg.br/a.jpg", "http://fct.ufg.br", "http://cdn.ufg.br/a.jpg"},
		{"scheme relative without base", "//cdn.ufg.br/a.jpg", "", "https://cdn.ufg.br/a.jpg"},
		{"data uri", "data:image/png;base64,AAAA", "https://fct.ufg.br", ""},
		{"other scheme", "ftp://fct.ufg.br/a.jpg", "", ""},
		{"blank", "  ", "https://fct.ufg.br", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FixImageURL(tt.raw, tt.base); got != tt.want {
				t.Errorf("FixImageURL(%q, %q) = %q; want %q", tt.raw, tt.base, got, tt.want)
			}
		})
	}
}

func TestResolveCandidateOrder(t *testing.T) {
	r := NewImageResolver(placeholder, time.Second, nil)
	ctx := context.Background()
	base := "https://fct.ufg.br/feed"

	tests := []struct {
		name  string
		entry feedDomain.Entry
		want  string
	}{
		{
			name: "feed image first",
			entry: feedDomain.Entry{
				ImageURL:   "https://fct.ufg.br/item.jpg",
				Thumbnails: []string{"https://fct.ufg.br/thumb.jpg"},
			},
			want: "https://fct.ufg.br/item.jpg",
		},
		{
			name: "thumbnail before enclosure",
			entry: feedDomain.Entry{
				Thumbnails: []string{"https://fct.ufg.br/thumb.jpg"},
				Enclosures: []feedDomain.Enclosure{{URL: "https://fct.ufg.br/enc.jpg", Type: "image/jpeg"}},
			},
			want: "https://fct.ufg.br/thumb.jpg",
		},
		{
			name: "non-image enclosure skipped",
			entry: feedDomain.Entry{
				Enclosures:  []feedDomain.Enclosure{{URL: "https://fct.ufg.br/a.mp3", Type: "audio/mpeg"}},
				Description: `<p>x</p><img src="/wp/desc.png">`,
			},
			want: "https://fct.ufg.br/wp/desc.png",
		},
		{
			name: "untyped enclosure with image extension",
			entry: feedDomain.Entry{
				Enclosures: []feedDomain.Enclosure{{URL: "https://fct.ufg.br/enc.PNG"}},
			},
			want: "https://fct.ufg.br/enc.PNG",
		},
		{
			name: "content before description",
			entry: feedDomain.Entry{
				Content:     `<img src="https://fct.ufg.br/content.jpg">`,
				Description: `<img src="https://fct.ufg.br/desc.jpg">`,
			},
			want: "https://fct.ufg.br/content.jpg",
		},
		{
			name: "broken candidate skipped",
			entry: feedDomain.Entry{
				ImageURL:    "mailto:nobody",
				Description: `<img src="http://fct.ufg.brhttps://fct.ufg.br/fixed.jpg">`,
			},
			want: "https://fct.ufg.br/fixed.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(ctx, tt.entry, base)
			if got.Placeholder || got.URL != tt.want {
				t.Errorf("Resolve() = %+v; want %q", got, tt.want)
			}
		})
	}
}

func TestResolveWithoutMediaReturnsPlaceholder(t *testing.T) {
	r := NewImageResolver(placeholder, time.Second, nil)
	got := r.Resolve(context.Background(), feedDomain.Entry{Title: "no media", Description: "<p>text</p>"}, "")
	if !got.Placeholder || got.URL != placeholder {
		t.Fatalf("Resolve() = %+v; want placeholder", got)
	}
}

func TestResolveFallsBackToPageImage(t *testing.T) {
	var asked string
	page := func(_ context.Context, articleURL string) (string, error) {
		asked = articleURL
		return "/lead.jpg", nil
	}
	r := NewImageResolver(placeholder, time.Second, page)

	got := r.Resolve(context.Background(), feedDomain.Entry{Link: "https://fct.ufg.br/n/1"}, "")
	if got.URL != "https://fct.ufg.br/lead.jpg" {
		t.Fatalf("Resolve() = %+v", got)
	}
	if asked != "https://fct.ufg.br/n/1" {
		t.Errorf("page image asked for %q", asked)
	}

	failing := NewImageResolver(placeholder, time.Second, func(context.Context, string) (string, error) {
		return "", stderrors.New("boom")
	})
	if got := failing.Resolve(context.Background(), feedDomain.Entry{Link: "https://fct.ufg.br/n/1"}, ""); !got.Placeholder {
		t.Fatalf("Resolve() with failing extractor = %+v; want placeholder", got)
	}
}

func imageServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		io.WriteString(w, "\x89PNG")
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<html></html>")
	})
	mux.HandleFunc("/nohead.jpg", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDisplayable(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	r := NewImageResolver(placeholder, time.Second, nil)
	ctx := context.Background()

	ok := domain.Image{URL: srv.URL + "/ok.png"}
	if got := r.Displayable(ctx, ok); got != ok {
		t.Errorf("Displayable(ok) = %+v", got)
	}
	if got := r.Displayable(ctx, ok); got != ok {
		t.Errorf("second Displayable(ok) = %+v", got)
	}
	if hits.Load() != 1 {
		t.Errorf("image requested %d times; want 1 (memoized)", hits.Load())
	}

	if got := r.Displayable(ctx, domain.Image{URL: srv.URL + "/page.html"}); !got.Placeholder {
		t.Errorf("non-image response = %+v; want placeholder", got)
	}
	if got := r.Displayable(ctx, domain.Image{URL: srv.URL + "/missing.jpg"}); !got.Placeholder {
		t.Errorf("404 = %+v; want placeholder", got)
	}
	if got := r.Displayable(ctx, domain.Image{URL: srv.URL + "/nohead.jpg"}); got.Placeholder {
		t.Errorf("HEAD-less server = %+v; want image", got)
	}

	before := hits.Load()
	r.ForgetProbes()
	r.Displayable(ctx, ok)
	if hits.Load() != before+1 {
		t.Error("ForgetProbes did not clear the memo")
	}
}

func TestOpen(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	r := NewImageResolver(placeholder, time.Second, nil)

	body, contentType, err := r.Open(context.Background(), srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer body.Close()
	if contentType != "image/png" {
		t.Errorf("content type = %q", contentType)
	}

	if _, _, err := r.Open(context.Background(), srv.URL+"/page.html"); !stderrors.Is(err, errors.ErrImageLoad) {
		t.Errorf("Open(html) err = %v; want ErrImageLoad", err)
	}
	if _, _, err := r.Open(context.Background(), "http://127.0.0.1:1/x.png"); !stderrors.Is(err, errors.ErrImageLoad) {
		t.Errorf("Open(unreachable) err = %v; want ErrImageLoad", err)
	}
}

func TestImageRequestsSendUserAgent(t *testing.T) {
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
	}))
	t.Cleanup(srv.Close)

	r := NewImageResolver(placeholder, time.Second, nil)
	r.Displayable(context.Background(), domain.Image{URL: srv.URL + "/a.png"})
	body, _, err := r.Open(context.Background(), srv.URL+"/b.png")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	body.Close()

	if len(agents) != 2 {
		t.Fatalf("server saw %d requests; want 2", len(agents))
	}
	for i, agent := range agents {
		if agent != config.UserAgent {
			t.Errorf("request %d User-Agent = %q; want %q", i, agent, config.UserAgent)
		}
	}
}
