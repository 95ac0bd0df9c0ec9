package domain

import "time"

// Item is one cleaned news item shown by the carousel. Items are never
// mutated after the builder returns them.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       Image      `json:"image"`
	ArticleURL  string     `json:"article_url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Published   string     `json:"published,omitempty"`
	QR          *QRCode    `json:"-"`
}

// HasQR reports whether a QR code could be generated for the item.
func (i *Item) HasQR() bool {
	return i != nil && i.QR != nil
}

// Image is either a resolved remote image or the placeholder reference.
type Image struct {
	URL         string `json:"url"`
	Placeholder bool   `json:"placeholder"`
}

// QRCode is the encoded article link in the forms the shells draw.
type QRCode struct {
	Content  string `json:"content"`
	PNG      []byte `json:"-"`
	Terminal string `json:"-"`
}

// Snapshot is the complete result of one refresh cycle. It replaces the
// previous snapshot wholesale.
type Snapshot struct {
	FeedTitle string    `json:"feed_title"`
	FeedLink  string    `json:"feed_link"`
	FetchedAt time.Time `json:"fetched_at"`
	Items     []*Item   `json:"items"`
}

// Len is nil-safe.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// At returns the item at index, or nil when out of range.
func (s *Snapshot) At(index int) *Item {
	if index < 0 || index >= s.Len() {
		return nil
	}
	return s.Items[index]
}
