package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// UserAgent identifies the panel on every outgoing request.
const UserAgent = "news-panel/1.0 (+https://github.com/reshetovitsme/news-panel)"

// MinTextLimit is the smallest title or description limit that still leaves
// room for one rune before the "..." truncation marker.
const MinTextLimit = 4

type Config struct {
	FeedURL           string   `koanf:"feed_url"`
	BaseURL           string   `koanf:"base_url"`
	PanelTitle        string   `koanf:"panel_title"`
	TitleLimit        int      `koanf:"title_limit"`
	DescLimit         int      `koanf:"desc_limit"`
	UpdateInterval    int      `koanf:"update_interval"`
	SlideInterval     int      `koanf:"slide_interval"`
	MaxItems          int      `koanf:"max_items"`
	FetchTimeout      int      `koanf:"fetch_timeout"`
	ImageProbeTimeout int      `koanf:"image_probe_timeout"`
	ExtractPageImages bool     `koanf:"extract_page_images"`
	PlaceholderImage  string   `koanf:"placeholder_image"`
	QRSize            int      `koanf:"qr_size"`
	DateFormat        string   `koanf:"date_format"`
	CreditMarkers     []string `koanf:"-"`
	UI                UIMode   `koanf:"-"`
	HTTPPort          string   `koanf:"http_port"`
	TelegramBotToken  string   `koanf:"telegram_bot_token"`
	AllowedUsers      []int64  `koanf:"-"`
	LogFile           string   `koanf:"log_file"`
	LogLevel          string   `koanf:"log_level"`
	AppEnv            AppEnv   `koanf:"-"`
}

// UpdateEvery is the refresh period.
func (c *Config) UpdateEvery() time.Duration {
	return time.Duration(c.UpdateInterval) * time.Second
}

// SlideEvery is the auto-advance period of the carousel.
func (c *Config) SlideEvery() time.Duration {
	return time.Duration(c.SlideInterval) * time.Second
}

func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *Config) ImageProbeTimeoutDuration() time.Duration {
	return time.Duration(c.ImageProbeTimeout) * time.Second
}

// RunsTUI reports whether the terminal shell owns stdout.
func (c *Config) RunsTUI() bool {
	return c.UI == UIModeTui || c.UI == UIModeBoth
}

func (c *Config) RunsHTTP() bool {
	return c.UI == UIModeHttp || c.UI == UIModeBoth
}

func Load() (*Config, error) {
	// .env is optional; real environment variables still win.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Load environment variables (they override config file values)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	setDefaults(k)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	cfg.AllowedUsers = ParseAllowedUsers(listValue(k.Get("allowed_users")))
	cfg.CreditMarkers = ParseList(listValue(k.Get("credit_markers")))

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	ui, err := ParseUIMode(k.String("ui"))
	if err != nil {
		return nil, oops.With("ui", k.String("ui")).Wrap(err)
	}
	cfg.UI = ui

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(k *koanf.Koanf) {
	defaults := map[string]any{
		"feed_url":            "https://fct.ufg.br/feed",
		"panel_title":         "Notícias FCT/UFG",
		"title_limit":         80,
		"desc_limit":          600,
		"update_interval":     3600,
		"slide_interval":      10,
		"max_items":           0,
		"fetch_timeout":       30,
		"image_probe_timeout": 5,
		"extract_page_images": false,
		"placeholder_image":   "/static/placeholder.svg",
		"qr_size":             256,
		"date_format":         "02/01/2006",
		"credit_markers":      "texto:,foto:",
		"ui":                  string(UIModeBoth),
		"http_port":           "8080",
		"log_file":            "panel.log",
		"log_level":           defaultLogLevel(k.String("app_env")),
		"app_env":             string(AppEnvProduction),
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}
}

// defaultLogLevel turns on debug logs for local and development runs.
func defaultLogLevel(appEnv string) string {
	env, err := ParseAppEnv(appEnv)
	if err == nil && (env == AppEnvLocal || env == AppEnvDevelopment) {
		return "debug"
	}
	return "info"
}

// Validate rejects configurations the panel cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.FeedURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return oops.With("feed_url", c.FeedURL).Wrap(errors.ErrMissingFeedURL)
	}
	if c.TitleLimit < MinTextLimit || c.DescLimit < MinTextLimit {
		return oops.With("title_limit", c.TitleLimit, "desc_limit", c.DescLimit).Wrap(errors.ErrInvalidLimit)
	}
	if c.UpdateInterval <= 0 || c.SlideInterval <= 0 {
		return oops.With("update_interval", c.UpdateInterval, "slide_interval", c.SlideInterval).Wrap(errors.ErrInvalidInterval)
	}
	if !c.UI.IsValid() {
		return oops.With("ui", c.UI).Wrap(ErrInvalidUIMode)
	}
	return nil
}

// listValue flattens a koanf value that may be a comma-separated string
// (environment) or a list (config file) into a comma-separated string.
func listValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		return strings.Join(lo.Map(val, func(item any, _ int) string {
			return fmt.Sprint(item)
		}), ",")
	default:
		return fmt.Sprint(val)
	}
}

// ParseList splits a comma-separated string, dropping blanks.
func ParseList(s string) []string {
	return lo.FilterMap(strings.Split(s, ","), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}

// ParseAllowedUsers parses comma-separated user IDs string into []int64
func ParseAllowedUsers(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (int64, bool) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, false
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			return id, true
		}
		return 0, false
	})
}
