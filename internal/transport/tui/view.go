package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	carouselDomain "github.com/reshetovitsme/news-panel/internal/modules/carousel/domain"
	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
)

const defaultWidth = 100

// View implements tea.Model interface
func (m Model) View() string {
	view := m.carousel.View()
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var b strings.Builder

	b.WriteString(m.header(width))
	b.WriteString("\n\n")

	if view.State == carouselDomain.StateEmpty {
		text := TextLoading
		if !view.Loading && view.LastError != "" {
			text = TextEmpty
		}
		b.WriteString(BoxStyle.Width(width - 4).Render(TitleStyle.Render(text)))
		b.WriteString("\n")
	} else {
		b.WriteString(m.item(view, width))
		b.WriteString("\n")
	}

	if view.Loading {
		b.WriteString(LoadingStyle.Render(TextRefreshing))
		b.WriteString("\n")
	}
	if view.LastError != "" {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%s (%s): %s", TextRefreshError, view.ErrorKind, view.LastError)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(InfoStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render(m.footer(view)))
	return b.String()
}

func (m Model) header(width int) string {
	clock := ClockStyle.Render(m.now.Format("15:04:05"))
	title := HeaderStyle.Width(max(width-lipgloss.Width(clock), 0)).Render(m.opts.PanelTitle)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, clock)
}

func (m Model) item(view carouselDomain.View, width int) string {
	item := view.Item

	qr := TextNoQR
	if item.HasQR() {
		qr = item.QR.Terminal
	}
	qrWidth := lipgloss.Width(qr)

	textWidth := width - qrWidth - 8
	stacked := textWidth < 30
	if stacked {
		textWidth = width - 4
	}

	var text strings.Builder
	text.WriteString(TitleStyle.Render(item.Title))
	text.WriteString("\n")
	if item.Published != "" {
		text.WriteString(DateStyle.Render(item.Published))
		text.WriteString("\n\n")
	}
	text.WriteString(item.Description)
	text.WriteString("\n\n")
	text.WriteString(InfoStyle.Render(imageLine(m.displayImage(item))))
	if item.ArticleURL != "" {
		text.WriteString("\n")
		text.WriteString(InfoStyle.Render(item.ArticleURL))
	}

	body := lipgloss.NewStyle().Width(textWidth).Render(text.String())
	if stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, body, qr)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", qr)
	}
	return BoxStyle.Render(body)
}

func imageLine(img newsDomain.Image) string {
	if img.Placeholder {
		return "Imagem: " + TextNoImage
	}
	return "Imagem: " + img.URL
}

func (m Model) footer(view carouselDomain.View) string {
	parts := []string{view.Position()}
	if !view.FetchedAt.IsZero() {
		parts = append(parts, "atualizado "+view.FetchedAt.Format("15:04"))
	}
	if m.carousel.AutoAdvancePaused() {
		parts = append(parts, TextPaused)
	} else if view.State == carouselDomain.StateShowing {
		parts = append(parts, fmt.Sprintf("próxima em %ds", int(view.NextIn.Seconds()+0.5)))
	}
	parts = append(parts, TextFooter)
	return strings.Join(parts, " | ")
}
