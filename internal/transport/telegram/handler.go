package telegram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	carouselDomain "github.com/reshetovitsme/news-panel/internal/modules/carousel/domain"
	carouselService "github.com/reshetovitsme/news-panel/internal/modules/carousel/service"
	refreshService "github.com/reshetovitsme/news-panel/internal/modules/refresh/service"
	"github.com/reshetovitsme/news-panel/internal/shared/config"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
	"github.com/samber/lo"
)

// Refresher is the part of the refresh service the bot drives
type Refresher interface {
	Trigger()
	Status() refreshService.Status
}

// Reply is the answer to one command
type Reply struct {
	Text  string
	Photo []byte
}

// Handler handles Telegram bot interactions
type Handler struct {
	cfg       *config.Config
	carousel  *carouselService.Controller
	refresher Refresher
}

// New creates a new Telegram handler
func New(cfg *config.Config, carousel *carouselService.Controller, refresher Refresher) *Handler {
	return &Handler{
		cfg:       cfg,
		carousel:  carousel,
		refresher: refresher,
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	for _, command := range []string{"/start", "/help", "/status", "/current", "/next", "/prev", "/refresh"} {
		b.RegisterHandler(bot.HandlerTypeMessageText, command, bot.MatchTypePrefix, h.handleCommand)
	}
}

// HandleUpdate processes updates no command matched
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, Reply{Text: "Unknown command. Use /help to see what I can do."})
}

func (h *Handler) handleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	reply := h.Execute(update.Message.From.ID, update.Message.Text)
	h.send(ctx, b, update.Message.Chat.ID, reply)
}

func (h *Handler) send(ctx context.Context, b *bot.Bot, chatID int64, reply Reply) {
	if len(reply.Photo) > 0 {
		_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileUpload{Filename: "qr.png", Data: bytes.NewReader(reply.Photo)},
			Caption: reply.Text,
		})
		if err == nil {
			return
		}
		slog.Error("Failed to send QR photo", "chat_id", chatID, "error", err)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   reply.Text,
	}); err != nil {
		slog.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) checkAuthorization(userID int64) bool {
	return len(h.cfg.AllowedUsers) == 0 || lo.Contains(h.cfg.AllowedUsers, userID)
}

// Execute runs one command for userID and returns the answer
func (h *Handler) Execute(userID int64, text string) Reply {
	if !h.checkAuthorization(userID) {
		slog.Warn("Unauthorized bot command", "user_id", userID, "error", errors.ErrUnauthorized)
		return Reply{Text: "❌ You are not authorized to control this panel."}
	}

	command := commandName(text)
	switch command {
	case "/start", "/help":
		return Reply{Text: h.helpText()}
	case "/status":
		return Reply{Text: h.statusText()}
	case "/current":
		return h.currentReply()
	case "/next":
		return h.swipe(carouselDomain.DirectionNext)
	case "/prev":
		return h.swipe(carouselDomain.DirectionPrevious)
	case "/refresh":
		h.refresher.Trigger()
		slog.Info("Refresh requested from Telegram", "user_id", userID)
		return Reply{Text: "🔄 Refresh requested."}
	default:
		return Reply{Text: "Unknown command. Use /help to see what I can do."}
	}
}

// commandName strips arguments and a @botname suffix
func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}

func (h *Handler) helpText() string {
	return fmt.Sprintf(`👋 %s remote control

Available commands:
/help - Show this help message
/status - Show panel status
/current - Show the news item on screen with its QR code
/next - Show the next item
/prev - Show the previous item
/refresh - Fetch the feed now`, h.cfg.PanelTitle)
}

func (h *Handler) statusText() string {
	view := h.carousel.View()
	st := h.refresher.Status()

	var b strings.Builder
	b.WriteString("📊 Panel Status\n\n")
	fmt.Fprintf(&b, "Feed: %s\n", h.cfg.FeedURL)
	fmt.Fprintf(&b, "State: %s (%s)\n", view.State, view.Position())
	if st.Refreshing {
		b.WriteString("Refreshing: yes\n")
	}
	if !st.LastSuccess.IsZero() {
		fmt.Fprintf(&b, "Last update: %s\n", st.LastSuccess.Format(time.DateTime))
	}
	if st.LastError != nil {
		fmt.Fprintf(&b, "Last error: %s (%v)\n", errors.Kind(st.LastError), st.LastError)
	}
	if st.NextIn > 0 {
		fmt.Fprintf(&b, "Next refresh in: %s\n", st.NextIn.Round(time.Second))
	}
	if h.carousel.AutoAdvancePaused() {
		b.WriteString("Auto-advance: paused\n")
	}
	return b.String()
}

func (h *Handler) swipe(direction carouselDomain.Direction) Reply {
	if _, err := h.carousel.Swipe(direction); err != nil {
		return Reply{Text: fmt.Sprintf("❌ %v", err)}
	}
	return h.currentReply()
}

func (h *Handler) currentReply() Reply {
	item, index, ok := h.carousel.Current()
	if !ok {
		return Reply{Text: "📭 No news loaded yet."}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📰 %d/%d %s\n", index+1, h.carousel.Snapshot().Len(), item.Title)
	if item.Published != "" {
		fmt.Fprintf(&b, "%s\n", item.Published)
	}
	if item.ArticleURL != "" {
		fmt.Fprintf(&b, "\n%s", item.ArticleURL)
	}

	reply := Reply{Text: b.String()}
	if item.HasQR() {
		reply.Photo = item.QR.PNG
	}
	return reply
}
