package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	feedDomain "github.com/reshetovitsme/news-panel/internal/modules/feed/domain"
	"github.com/reshetovitsme/news-panel/internal/modules/news/domain"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
)

// Builder turns raw feed entries into an immutable snapshot of news items
type Builder struct {
	sanitizer  *Sanitizer
	images     *ImageResolver
	qr         *QRGenerator
	dateFormat string
}

// NewBuilder creates a new snapshot builder
func NewBuilder(sanitizer *Sanitizer, images *ImageResolver, qr *QRGenerator, dateFormat string) *Builder {
	return &Builder{
		sanitizer:  sanitizer,
		images:     images,
		qr:         qr,
		dateFormat: dateFormat,
	}
}

// Build creates the snapshot for one refresh cycle. A failing image or QR code
// only degrades its own item.
func (b *Builder) Build(ctx context.Context, entries []feedDomain.Entry, meta feedDomain.Meta) *domain.Snapshot {
	b.images.ForgetProbes()

	base := meta.Link
	if base == "" {
		base = meta.FeedURL
	}

	items := make([]*domain.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, b.buildItem(ctx, entry, base))
	}

	return &domain.Snapshot{
		FeedTitle: CleanText(meta.Title),
		FeedLink:  meta.Link,
		FetchedAt: meta.FetchedAt,
		Items:     items,
	}
}

func (b *Builder) buildItem(ctx context.Context, entry feedDomain.Entry, base string) *domain.Item {
	item := &domain.Item{
		ID:          GenerateID(firstNonEmpty(entry.Link, entry.GUID, entry.Title)),
		Title:       b.sanitizer.Title(entry.Title),
		Description: b.sanitizer.Description(entry.Description),
		Image:       b.images.Resolve(ctx, entry, base),
		ArticleURL:  entry.Link,
		PublishedAt: entry.PublishedAt,
	}

	if item.Description == "" && entry.Content != "" {
		item.Description = b.sanitizer.Description(entry.Content)
	}

	if entry.PublishedAt != nil {
		item.Published = entry.PublishedAt.Format(b.dateFormat)
	}

	qr, err := b.qr.Generate(entry.Link)
	if err != nil {
		slog.Warn("QR code not generated", "item", item.ID, "kind", errors.Kind(err), "error", err)
	} else {
		item.QR = qr
	}

	return item
}

// GenerateID creates a short, stable ID by hashing the provided string input
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
