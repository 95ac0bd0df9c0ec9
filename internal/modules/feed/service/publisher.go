package service

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/gorilla/feeds"
	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
	"github.com/samber/oops"
)

// Publisher republishes the current, cleaned snapshot as a feed
type Publisher struct {
	panelTitle string
}

// NewPublisher creates a new feed publisher
func NewPublisher(panelTitle string) *Publisher {
	return &Publisher{panelTitle: panelTitle}
}

// Build generates a feed for a snapshot. baseURL is where the panel is served.
func (p *Publisher) Build(snapshot *newsDomain.Snapshot, baseURL string) (*feeds.Feed, error) {
	if snapshot == nil {
		return nil, oops.In("publisher").Errorf("no snapshot loaded yet")
	}

	title := p.panelTitle
	if snapshot.FeedTitle != "" {
		title = fmt.Sprintf("%s - %s", p.panelTitle, snapshot.FeedTitle)
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: baseURL + "/"},
		Description: fmt.Sprintf("Cleaned news items currently shown on %s", p.panelTitle),
		Created:     snapshot.FetchedAt,
		Updated:     snapshot.FetchedAt,
	}
	if snapshot.FeedLink != "" {
		feed.Link = &feeds.Link{Href: snapshot.FeedLink}
	}

	items := make([]*feeds.Item, 0, snapshot.Len())
	for i, item := range snapshot.Items {
		items = append(items, p.itemToFeedItem(i, item, baseURL))
	}
	feed.Items = items

	slog.Debug("Feed republished", "items", len(items))
	return feed, nil
}

func (p *Publisher) itemToFeedItem(index int, item *newsDomain.Item, baseURL string) *feeds.Item {
	content := fmt.Sprintf("<p>%s</p>", html.EscapeString(item.Description))
	if item.HasQR() {
		content += fmt.Sprintf(`<p><a href="%s"><img src="%s/qr/%d" alt="QR"/></a></p>`,
			html.EscapeString(item.ArticleURL), baseURL, index)
	}

	feedItem := &feeds.Item{
		Id:          item.ID,
		Title:       item.Title,
		Link:        &feeds.Link{Href: item.ArticleURL},
		Description: item.Description,
		Content:     content,
	}
	if item.PublishedAt != nil {
		feedItem.Created = *item.PublishedAt
	}
	if !item.Image.Placeholder && strings.HasPrefix(item.Image.URL, "http") {
		feedItem.Enclosure = &feeds.Enclosure{Url: item.Image.URL, Type: imageType(item.Image.URL), Length: "0"}
	}

	return feedItem
}

func imageType(u string) string {
	lower := strings.ToLower(u)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".svg"):
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}
