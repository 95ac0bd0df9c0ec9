package tui

import (
	"time"

	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
)

// TickMsg is sent every second to drive the clock and auto-advance
type TickMsg struct {
	Time time.Time
}

// OpenedMsg is sent after trying to open an article in the browser
type OpenedMsg struct {
	URL string
	Err error
}

// ImageCheckedMsg carries the outcome of a render-time image probe for the
// snapshot it was started under
type ImageCheckedMsg struct {
	URL      string
	Image    newsDomain.Image
	Snapshot *newsDomain.Snapshot
}
