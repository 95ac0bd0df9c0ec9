package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/reshetovitsme/news-panel/internal/shared/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.FeedURL != "https://fct.ufg.br/feed" {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
	if cfg.TitleLimit != 80 || cfg.DescLimit != 600 {
		t.Errorf("limits = %d/%d; want 80/600", cfg.TitleLimit, cfg.DescLimit)
	}
	if cfg.UpdateEvery() != time.Hour {
		t.Errorf("UpdateEvery() = %v; want 1h", cfg.UpdateEvery())
	}
	if cfg.SlideEvery() != 10*time.Second {
		t.Errorf("SlideEvery() = %v; want 10s", cfg.SlideEvery())
	}
	if cfg.UI != UIModeBoth || !cfg.RunsTUI() || !cfg.RunsHTTP() {
		t.Errorf("UI = %q; want both", cfg.UI)
	}
	if !reflect.DeepEqual(cfg.CreditMarkers, []string{"texto:", "foto:"}) {
		t.Errorf("CreditMarkers = %v", cfg.CreditMarkers)
	}
	if cfg.AppEnv != AppEnvProduction {
		t.Errorf("AppEnv = %q", cfg.AppEnv)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q; want info", cfg.LogLevel)
	}
}

func TestAppEnvSetsDefaultLogLevel(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"development", map[string]string{"APP_ENV": "development"}, "debug"},
		{"local", map[string]string{"APP_ENV": "LOCAL"}, "debug"},
		{"testing", map[string]string{"APP_ENV": "testing"}, "info"},
		{"explicit level wins", map[string]string{"APP_ENV": "development", "LOG_LEVEL": "warn"}, "warn"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.LogLevel != c.want {
				t.Errorf("LogLevel = %q; want %q", cfg.LogLevel, c.want)
			}
		})
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yamlConfig := "feed_url: https://example.com/rss\ntitle_limit: 40\nui: http\nallowed_users: [1, 2]\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TITLE_LIMIT", "50")
	t.Setenv("UPDATE_INTERVAL", "120")
	t.Setenv("CREDIT_MARKERS", "credit:, photo: ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.FeedURL != "https://example.com/rss" {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
	if cfg.TitleLimit != 50 {
		t.Errorf("TitleLimit = %d; want env override 50", cfg.TitleLimit)
	}
	if cfg.UpdateEvery() != 2*time.Minute {
		t.Errorf("UpdateEvery() = %v", cfg.UpdateEvery())
	}
	if cfg.UI != UIModeHttp || cfg.RunsTUI() {
		t.Errorf("UI = %q; want http", cfg.UI)
	}
	if !reflect.DeepEqual(cfg.AllowedUsers, []int64{1, 2}) {
		t.Errorf("AllowedUsers = %v", cfg.AllowedUsers)
	}
	if !reflect.DeepEqual(cfg.CreditMarkers, []string{"credit:", "photo:"}) {
		t.Errorf("CreditMarkers = %v", cfg.CreditMarkers)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"relative feed url", map[string]string{"FEED_URL": "/feed"}, errors.ErrMissingFeedURL},
		{"ftp feed url", map[string]string{"FEED_URL": "ftp://example.com/feed"}, errors.ErrMissingFeedURL},
		{"zero title limit", map[string]string{"TITLE_LIMIT": "0"}, errors.ErrInvalidLimit},
		{"title limit no longer than the marker", map[string]string{"TITLE_LIMIT": "3"}, errors.ErrInvalidLimit},
		{"description limit of one", map[string]string{"DESC_LIMIT": "1"}, errors.ErrInvalidLimit},
		{"negative interval", map[string]string{"UPDATE_INTERVAL": "-1"}, errors.ErrInvalidInterval},
		{"unknown ui", map[string]string{"UI": "kivy"}, ErrInvalidUIMode},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if !stderrors.Is(err, c.want) {
				t.Fatalf("Load() error = %v; want %v", err, c.want)
			}
		})
	}
}

func TestParseAllowedUsers(t *testing.T) {
	got := ParseAllowedUsers(" 10, abc, ,20")
	if !reflect.DeepEqual(got, []int64{10, 20}) {
		t.Fatalf("ParseAllowedUsers() = %v", got)
	}
	if got := ParseAllowedUsers(""); len(got) != 0 {
		t.Fatalf("ParseAllowedUsers(\"\") = %v", got)
	}
}
