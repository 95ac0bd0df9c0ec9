package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/reshetovitsme/news-panel/internal/modules/feed/domain"
	"github.com/reshetovitsme/news-panel/internal/shared/config"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Fetcher retrieves and parses the configured RSS/Atom feed
type Fetcher struct {
	feedURL  string
	maxItems int
	client   *http.Client
	parser   *gofeed.Parser
}

// NewFetcher creates a fetcher for feedURL. maxItems <= 0 keeps every entry.
func NewFetcher(feedURL string, maxItems int, timeout time.Duration) *Fetcher {
	return &Fetcher{
		feedURL:  feedURL,
		maxItems: maxItems,
		client:   &http.Client{Timeout: timeout},
		parser:   gofeed.NewParser(),
	}
}

// Fetch downloads the feed once. Transport failures, timeouts and non-2xx
// responses are ErrNetwork; an unreadable document is ErrParse.
func (f *Fetcher) Fetch(ctx context.Context) ([]domain.Entry, domain.Meta, error) {
	errb := oops.In("feed").With("feed_url", f.feedURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, domain.Meta{}, errb.Wrap(fmt.Errorf("%w: %w", errors.ErrNetwork, err))
	}
	req.Header.Set("User-Agent", config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domain.Meta{}, errb.Wrap(fmt.Errorf("%w: %w", errors.ErrNetwork, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.Meta{}, errb.With("status", resp.StatusCode).
			Wrap(fmt.Errorf("%w: unexpected status %s", errors.ErrNetwork, resp.Status))
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		// A connection dropped mid-body surfaces here too.
		if ctx.Err() != nil {
			return nil, domain.Meta{}, errb.Wrap(fmt.Errorf("%w: %w", errors.ErrNetwork, ctx.Err()))
		}
		return nil, domain.Meta{}, errb.Wrap(fmt.Errorf("%w: %w", errors.ErrParse, err))
	}

	meta := domain.Meta{
		Title:     feed.Title,
		Link:      feed.Link,
		FeedURL:   f.feedURL,
		FetchedAt: time.Now(),
	}

	items := feed.Items
	if f.maxItems > 0 && len(items) > f.maxItems {
		items = items[:f.maxItems]
	}

	entries := lo.Map(items, func(item *gofeed.Item, _ int) domain.Entry {
		return toEntry(item)
	})

	slog.Debug("Feed fetched", "feed_url", f.feedURL, "entries", len(entries), "feed_type", feed.FeedType)
	return entries, meta, nil
}

func toEntry(item *gofeed.Item) domain.Entry {
	entry := domain.Entry{
		GUID:        item.GUID,
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Content,
		Link:        item.Link,
	}

	if item.PublishedParsed != nil {
		entry.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		entry.PublishedAt = item.UpdatedParsed
	}

	if item.Image != nil {
		entry.ImageURL = item.Image.URL
	}

	entry.Enclosures = lo.FilterMap(item.Enclosures, func(enc *gofeed.Enclosure, _ int) (domain.Enclosure, bool) {
		if enc == nil || enc.URL == "" {
			return domain.Enclosure{}, false
		}
		return domain.Enclosure{URL: enc.URL, Type: enc.Type}, true
	})

	if media, ok := item.Extensions["media"]; ok {
		for _, thumb := range media["thumbnail"] {
			if u := thumb.Attrs["url"]; u != "" {
				entry.Thumbnails = append(entry.Thumbnails, u)
			}
		}
		for _, group := range media["group"] {
			for _, thumb := range group.Children["thumbnail"] {
				if u := thumb.Attrs["url"]; u != "" {
					entry.Thumbnails = append(entry.Thumbnails, u)
				}
			}
		}
	}

	return entry
}
