package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	carouselDomain "github.com/reshetovitsme/news-panel/internal/modules/carousel/domain"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case TickMsg:
		return m.handleTick(msg)
	case OpenedMsg:
		return m.handleOpened(msg)
	case ImageCheckedMsg:
		if msg.Snapshot != m.snapshot {
			return m, nil
		}
		delete(m.checking, msg.URL)
		m.images[msg.URL] = msg.Image
		return m, nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "right", "l", " ", "space":
		return m.swipe(carouselDomain.DirectionNext)
	case "left", "h":
		return m.swipe(carouselDomain.DirectionPrevious)
	case "r":
		m.refresher.Trigger()
		m.status = TextRefreshAsked
		return m, nil
	case "p":
		if m.carousel.AutoAdvancePaused() {
			m.carousel.ResumeAutoAdvance()
			m.status = ""
		} else {
			m.carousel.PauseAutoAdvance()
			m.status = TextPaused
		}
		return m, nil
	case "o", "enter":
		item, _, ok := m.carousel.Current()
		if !ok || item.ArticleURL == "" {
			return m, nil
		}
		return m, openArticle(m.opts.Opener, item.ArticleURL)
	}
	return m, nil
}

func (m Model) swipe(direction carouselDomain.Direction) (tea.Model, tea.Cmd) {
	if _, err := m.carousel.Swipe(direction); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.syncSnapshot()
	return m, m.probeCurrent()
}

// handleTick advances the clock and lets the carousel auto-advance
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	m.now = msg.Time
	m.carousel.Tick()
	m.syncSnapshot()
	if m.status == TextRefreshAsked && !m.carousel.View().Loading {
		m.status = ""
	}
	return m, tea.Batch(tickCmd(), m.probeCurrent())
}

// handleOpened reports the outcome of opening an article
func (m Model) handleOpened(msg OpenedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status = fmt.Sprintf("Não foi possível abrir %s: %v", msg.URL, msg.Err)
		return m, nil
	}
	m.status = fmt.Sprintf("Aberto: %s", msg.URL)
	return m, nil
}
