package domain

import "time"

// Entry is one raw item of the fetched feed, before any cleanup.
type Entry struct {
	GUID        string      `json:"guid"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	Link        string      `json:"link"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	Thumbnails  []string    `json:"thumbnails,omitempty"`
	Enclosures  []Enclosure `json:"enclosures,omitempty"`
}

// Enclosure is an attached media object of an entry.
type Enclosure struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Meta describes the fetched feed document itself.
type Meta struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	FeedURL   string    `json:"feed_url"`
	FetchedAt time.Time `json:"fetched_at"`
}
