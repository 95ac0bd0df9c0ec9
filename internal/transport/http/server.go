package http

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	carouselDomain "github.com/reshetovitsme/news-panel/internal/modules/carousel/domain"
	carouselService "github.com/reshetovitsme/news-panel/internal/modules/carousel/service"
	feedService "github.com/reshetovitsme/news-panel/internal/modules/feed/service"
	newsService "github.com/reshetovitsme/news-panel/internal/modules/news/service"
	refreshService "github.com/reshetovitsme/news-panel/internal/modules/refresh/service"
	"github.com/reshetovitsme/news-panel/internal/shared/config"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
	sloghttp "github.com/samber/slog-http"
)

//go:embed assets
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/index.html.tmpl"))

// Server is the kiosk web shell
type Server struct {
	cfg        *config.Config
	carousel   *carouselService.Controller
	refresher  *refreshService.Service
	publisher  *feedService.Publisher
	images     *newsService.ImageResolver
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, carousel *carouselService.Controller, refresher *refreshService.Service, publisher *feedService.Publisher, images *newsService.ImageResolver) *Server {
	s := &Server{
		cfg:       cfg,
		carousel:  carousel,
		refresher: refresher,
		publisher: publisher,
		images:    images,
		logger:    slog.Default(),
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// SetLogger sets the logger. Call it before Start.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
	s.httpServer.Handler = s.Handler()
}

// Handler builds the routed handler with logging and recovery middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/current", s.handleCurrent)
	mux.HandleFunc("POST /api/next", s.handleSwipe(carouselDomain.DirectionNext))
	mux.HandleFunc("POST /api/prev", s.handleSwipe(carouselDomain.DirectionPrevious))
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /qr/{index}", s.handleQR)
	mux.HandleFunc("GET /image/{index}", s.handleImage)
	mux.HandleFunc("GET /static/placeholder.svg", s.handlePlaceholder)
	mux.HandleFunc("GET /feed.xml", s.handleFeed("rss"))
	mux.HandleFunc("GET /feed.atom", s.handleFeed("atom"))
	mux.HandleFunc("GET /feed.json", s.handleFeed("json"))
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Kiosk server starting", "addr", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for active ones. A server shut
// down before Start never listens.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type pageData struct {
	PanelTitle     string
	Clock          string
	Updated        string
	RefreshSeconds int
	Signature      string
	View           carouselDomain.View
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view := s.carousel.View()
	data := pageData{
		PanelTitle:     s.cfg.PanelTitle,
		Clock:          time.Now().Format("15:04:05"),
		Updated:        view.FetchedAt.Format(s.cfg.DateFormat + " 15:04"),
		RefreshSeconds: s.cfg.SlideInterval,
		Signature:      signature(view),
		View:           view,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("Error rendering page", "error", err)
	}
}

func signature(v carouselDomain.View) string {
	id := ""
	if v.Item != nil {
		id = v.Item.ID
	}
	return fmt.Sprintf("%s:%d:%t:%s", v.State, v.Index, v.Loading, id)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.carousel.View())
}

func (s *Server) handleSwipe(direction carouselDomain.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.carousel.Swipe(direction); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, s.carousel.View())
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refresher.Trigger()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh requested"})
}

func (s *Server) itemAt(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		http.Error(w, "Invalid item index", http.StatusBadRequest)
		return 0, false
	}
	return index, true
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	index, ok := s.itemAt(w, r)
	if !ok {
		return
	}

	item, found := s.carousel.Item(index)
	if !found || !item.HasQR() {
		http.Error(w, "No QR code for this item", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(item.QR.PNG)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	index, ok := s.itemAt(w, r)
	if !ok {
		return
	}

	item, found := s.carousel.Item(index)
	if !found || item.Image.Placeholder {
		s.redirectPlaceholder(w, r)
		return
	}

	body, contentType, err := s.images.Open(r.Context(), item.Image.URL)
	if err != nil {
		s.logger.Warn("Image proxy failed", "url", item.Image.URL, "kind", errors.Kind(err), "error", err)
		s.redirectPlaceholder(w, r)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Debug("Image copy interrupted", "url", item.Image.URL, "error", err)
	}
}

func (s *Server) redirectPlaceholder(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.cfg.PlaceholderImage, http.StatusFound)
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	svg, err := assets.ReadFile("assets/placeholder.svg")
	if err != nil {
		http.Error(w, "Placeholder missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

func (s *Server) handleFeed(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		baseURL := s.cfg.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("%s://%s", getScheme(r), r.Host)
		}

		feed, err := s.publisher.Build(s.carousel.Snapshot(), baseURL)
		if err != nil {
			http.Error(w, "No news loaded yet", http.StatusServiceUnavailable)
			return
		}

		var (
			body        string
			contentType string
		)
		switch format {
		case "atom":
			body, err = feed.ToAtom()
			contentType = "application/atom+xml; charset=utf-8"
		case "json":
			body, err = feed.ToJSON()
			contentType = "application/feed+json; charset=utf-8"
		default:
			body, err = feed.ToRss()
			contentType = "application/rss+xml; charset=utf-8"
		}
		if err != nil {
			s.logger.Error("Error encoding feed", "format", format, "error", err)
			http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	State       string `json:"state"`
	Items       int    `json:"items"`
	Refreshing  bool   `json:"refreshing"`
	LastSuccess string `json:"last_success,omitempty"`
	LastError   string `json:"last_error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.refresher.Status()
	resp := healthResponse{
		Status:     "ok",
		State:      s.carousel.State().String(),
		Items:      s.carousel.Snapshot().Len(),
		Refreshing: st.Refreshing,
	}
	if !st.LastSuccess.IsZero() {
		resp.LastSuccess = st.LastSuccess.Format(time.RFC3339)
	}
	if st.LastError != nil {
		resp.LastError = errors.Kind(st.LastError)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding JSON response", "error", err)
	}
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
