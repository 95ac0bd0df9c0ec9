package domain

import (
	"fmt"
	"time"

	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
)

// View is what a shell renders at one instant. It is a copy; shells never
// hold a reference into the controller.
type View struct {
	State     State            `json:"state"`
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	Item      *newsDomain.Item `json:"item,omitempty"`
	Loading   bool             `json:"loading"`
	LastError string           `json:"last_error,omitempty"`
	ErrorKind string           `json:"error_kind,omitempty"`
	FetchedAt time.Time        `json:"fetched_at"`
	FeedTitle string           `json:"feed_title,omitempty"`
	NextIn    time.Duration    `json:"-"`
}

// Position formats the 1-based position, e.g. "2/5".
func (v View) Position() string {
	if v.State != StateShowing {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", v.Index+1, v.Total)
}
