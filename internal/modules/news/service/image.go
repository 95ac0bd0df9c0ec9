package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	feedDomain "github.com/reshetovitsme/news-panel/internal/modules/feed/domain"
	"github.com/reshetovitsme/news-panel/internal/modules/news/domain"
	"github.com/reshetovitsme/news-panel/internal/shared/config"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// PageImageFunc returns the lead image of an article page.
type PageImageFunc func(ctx context.Context, articleURL string) (string, error)

// ImageResolver picks a displayable image for each entry, falling back to
// the placeholder reference
type ImageResolver struct {
	placeholder string
	client      *http.Client
	pageImage   PageImageFunc

	mu     sync.Mutex
	probes map[string]bool
}

// NewImageResolver creates a resolver. pageImage may be nil to skip article
// page extraction.
func NewImageResolver(placeholder string, probeTimeout time.Duration, pageImage PageImageFunc) *ImageResolver {
	return &ImageResolver{
		placeholder: placeholder,
		client:      &http.Client{Timeout: probeTimeout},
		pageImage:   pageImage,
		probes:      make(map[string]bool),
	}
}

// ReadabilityPageImage extracts the lead image with go-readability.
func ReadabilityPageImage(timeout time.Duration) PageImageFunc {
	return func(ctx context.Context, articleURL string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		article, err := readability.FromURL(articleURL, timeout)
		if err != nil {
			return "", fmt.Errorf("readability extraction failed: %w", err)
		}
		return article.Image, nil
	}
}

// Placeholder returns the placeholder reference.
func (r *ImageResolver) Placeholder() domain.Image {
	return domain.Image{URL: r.placeholder, Placeholder: true}
}

// Resolve returns the first usable image candidate of entry, relative URLs
// being resolved against base. It never fails.
func (r *ImageResolver) Resolve(ctx context.Context, entry feedDomain.Entry, base string) domain.Image {
	candidates := []string{entry.ImageURL}
	candidates = append(candidates, entry.Thumbnails...)
	candidates = append(candidates, lo.FilterMap(entry.Enclosures, func(enc feedDomain.Enclosure, _ int) (string, bool) {
		return enc.URL, isImageEnclosure(enc)
	})...)
	candidates = append(candidates, FirstImageSrc(entry.Content), FirstImageSrc(entry.Description))

	for _, c := range candidates {
		if u := FixImageURL(c, base); u != "" {
			return domain.Image{URL: u}
		}
	}

	if r.pageImage != nil && entry.Link != "" {
		src, err := r.pageImage(ctx, entry.Link)
		if err != nil {
			slog.Debug("Page image extraction failed", "url", entry.Link, "error", err)
		} else if u := FixImageURL(src, entry.Link); u != "" {
			return domain.Image{URL: u}
		}
	}

	return r.Placeholder()
}

// Displayable probes img and returns it when it answers with an image,
// otherwise the placeholder. Results are remembered until ForgetProbes.
func (r *ImageResolver) Displayable(ctx context.Context, img domain.Image) domain.Image {
	if img.Placeholder || img.URL == "" {
		return r.Placeholder()
	}

	r.mu.Lock()
	ok, seen := r.probes[img.URL]
	r.mu.Unlock()

	if !seen {
		err := r.probe(ctx, img.URL)
		if err != nil {
			slog.Warn("Image not displayable", "url", img.URL, "error", err)
		}
		ok = err == nil

		// A cancelled probe says nothing about the image.
		if ctx.Err() == nil {
			r.mu.Lock()
			r.probes[img.URL] = ok
			r.mu.Unlock()
		}
	}

	if !ok {
		return r.Placeholder()
	}
	return img
}

// ForgetProbes drops memoized probe results; called when a new snapshot
// replaces the one they belonged to.
func (r *ImageResolver) ForgetProbes() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes = make(map[string]bool)
}

// Open streams an image. The body is only returned for image responses; any
// other outcome is ErrImageLoad.
func (r *ImageResolver) Open(ctx context.Context, imageURL string) (io.ReadCloser, string, error) {
	errb := oops.In("image").With("url", imageURL)

	resp, err := r.get(ctx, http.MethodGet, imageURL)
	if err != nil {
		return nil, "", errb.Wrap(fmt.Errorf("%w: %w", errors.ErrImageLoad, err))
	}
	contentType := resp.Header.Get("Content-Type")
	if err := checkImageResponse(resp); err != nil {
		resp.Body.Close()
		return nil, "", errb.With("status", resp.StatusCode).Wrap(err)
	}
	return resp.Body, contentType, nil
}

func (r *ImageResolver) probe(ctx context.Context, imageURL string) error {
	resp, err := r.get(ctx, http.MethodHead, imageURL)
	if err == nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		resp.Body.Close()
		resp, err = r.get(ctx, http.MethodGet, imageURL)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrImageLoad, err)
	}
	defer resp.Body.Close()
	return checkImageResponse(resp)
}

func (r *ImageResolver) get(ctx context.Context, method, imageURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, imageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.UserAgent)
	req.Header.Set("Accept", "image/*")
	return r.client.Do(req)
}

func checkImageResponse(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %s", errors.ErrImageLoad, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(strings.ToLower(ct), "image/") {
		return fmt.Errorf("%w: content type %q is not an image", errors.ErrImageLoad, ct)
	}
	return nil
}

func isImageEnclosure(enc feedDomain.Enclosure) bool {
	if enc.Type != "" {
		return strings.HasPrefix(strings.ToLower(enc.Type), "image/")
	}
	lower := strings.ToLower(enc.URL)
	return lo.SomeBy([]string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

// FirstImageSrc returns the src of the first <img> in an HTML fragment.
func FirstImageSrc(fragment string) string {
	if !strings.Contains(fragment, "<img") && !strings.Contains(fragment, "<IMG") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

// FixImageURL repairs and absolutizes an image reference. A reference glued
// onto a bare origin ("http://host.brhttps://host.br/a.jpg") keeps only the
// inner URL. The result is empty unless it is an absolute http(s) URL.
func FixImageURL(raw, base string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return ""
	}

	lower := strings.ToLower(raw)
	for _, scheme := range []string{"https://", "http://"} {
		i := strings.LastIndex(lower, scheme)
		if i <= 0 {
			continue
		}
		if prefix, err := url.Parse(raw[:i]); err == nil && prefix.Host != "" && prefix.Path == "" && prefix.RawQuery == "" {
			raw = raw[i:]
			lower = lower[i:]
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		b, err := url.Parse(base)
		if err != nil || b.Host == "" {
			if !strings.HasPrefix(raw, "//") {
				return ""
			}
			b = &url.URL{Scheme: "https"}
		}
		u = b.ResolveReference(u)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
