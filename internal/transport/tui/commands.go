package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
)

// tickCmd ticks once per second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// openArticle opens url with the system handler
func openArticle(open Opener, url string) tea.Cmd {
	return func() tea.Msg {
		return OpenedMsg{URL: url, Err: open(url)}
	}
}

// checkImage probes an image off the update loop
func checkImage(images ImageChecker, img newsDomain.Image, snapshot *newsDomain.Snapshot, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ImageCheckedMsg{URL: img.URL, Image: images.Displayable(ctx, img), Snapshot: snapshot}
	}
}
