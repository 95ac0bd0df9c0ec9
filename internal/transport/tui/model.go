package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
	carouselService "github.com/reshetovitsme/news-panel/internal/modules/carousel/service"
	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
)

// Refresher accepts out-of-band refresh requests
type Refresher interface {
	Trigger()
}

// ImageChecker decides whether an image can be shown
type ImageChecker interface {
	Displayable(ctx context.Context, img newsDomain.Image) newsDomain.Image
}

// Opener opens a URL with the system handler
type Opener func(url string) error

// Options configures the terminal shell
type Options struct {
	PanelTitle   string
	ProbeTimeout time.Duration
	Opener       Opener
	Images       ImageChecker
}

// Model is the terminal shell. It keeps no carousel state of its own and
// renders whatever the controller shows on every update.
type Model struct {
	carousel  *carouselService.Controller
	refresher Refresher
	opts      Options

	width  int
	height int
	now    time.Time

	// images holds probe results by URL for snapshot; checking marks probes
	// in flight
	snapshot *newsDomain.Snapshot
	images   map[string]newsDomain.Image
	checking map[string]bool

	status string
}

// NewModel creates a new terminal shell model
func NewModel(carousel *carouselService.Controller, refresher Refresher, opts Options) Model {
	if opts.Opener == nil {
		opts.Opener = browser.OpenURL
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 5 * time.Second
	}
	return Model{
		carousel:  carousel,
		refresher: refresher,
		opts:      opts,
		now:       time.Now(),
		images:    make(map[string]newsDomain.Image),
		checking:  make(map[string]bool),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Run starts the program on the terminal and blocks until the user quits or
// ctx is done.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// displayImage returns the probed image for an item, or the item's own image
// while the probe is pending.
func (m Model) displayImage(item *newsDomain.Item) newsDomain.Image {
	if m.snapshot != m.carousel.Snapshot() {
		return item.Image
	}
	if img, ok := m.images[item.Image.URL]; ok {
		return img
	}
	return item.Image
}

// syncSnapshot drops probe results once the carousel holds a new snapshot
func (m *Model) syncSnapshot() {
	if s := m.carousel.Snapshot(); s != m.snapshot {
		m.snapshot = s
		m.images = make(map[string]newsDomain.Image)
		m.checking = make(map[string]bool)
	}
}

// probeCurrent starts a probe for the current item's image when needed
func (m Model) probeCurrent() tea.Cmd {
	if m.opts.Images == nil {
		return nil
	}
	item, _, ok := m.carousel.Current()
	if !ok || item.Image.Placeholder || item.Image.URL == "" || m.snapshot != m.carousel.Snapshot() {
		return nil
	}
	if _, done := m.images[item.Image.URL]; done || m.checking[item.Image.URL] {
		return nil
	}
	m.checking[item.Image.URL] = true
	return checkImage(m.opts.Images, item.Image, m.snapshot, m.opts.ProbeTimeout)
}
