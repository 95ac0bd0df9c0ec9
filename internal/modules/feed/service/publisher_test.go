package service

import (
	"strings"
	"testing"
	"time"

	newsDomain "github.com/reshetovitsme/news-panel/internal/modules/news/domain"
)

func TestPublisherBuild(t *testing.T) {
	published := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	snapshot := &newsDomain.Snapshot{
		FeedTitle: "FCT/UFG",
		FeedLink:  "https://fct.ufg.br",
		FetchedAt: published,
		Items: []*newsDomain.Item{
			{
				ID:          "a",
				Title:       "Aula inaugural",
				Description: "Tom & Jerry",
				Image:       newsDomain.Image{URL: "https://fct.ufg.br/a.png"},
				ArticleURL:  "https://fct.ufg.br/n/a",
				PublishedAt: &published,
				QR:          &newsDomain.QRCode{Content: "https://fct.ufg.br/n/a"},
			},
			{
				ID:         "b",
				Title:      "Sem imagem",
				Image:      newsDomain.Image{URL: "/static/placeholder.svg", Placeholder: true},
				ArticleURL: "https://fct.ufg.br/n/b",
			},
		},
	}

	feed, err := NewPublisher("Painel").Build(snapshot, "http://panel.local")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if feed.Title != "Painel - FCT/UFG" {
		t.Errorf("Title = %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("got %d items; want 2", len(feed.Items))
	}

	first := feed.Items[0]
	if first.Enclosure == nil || first.Enclosure.Type != "image/png" {
		t.Errorf("Enclosure = %+v; want image/png", first.Enclosure)
	}
	if !strings.Contains(first.Content, "Tom &amp; Jerry") {
		t.Errorf("Content not escaped: %q", first.Content)
	}
	if !strings.Contains(first.Content, "http://panel.local/qr/0") {
		t.Errorf("Content missing QR link: %q", first.Content)
	}
	if !first.Created.Equal(published) {
		t.Errorf("Created = %v", first.Created)
	}

	second := feed.Items[1]
	if second.Enclosure != nil {
		t.Errorf("placeholder image published as enclosure: %+v", second.Enclosure)
	}
	if strings.Contains(second.Content, "/qr/") {
		t.Errorf("item without QR links one: %q", second.Content)
	}

	if _, err := feed.ToRss(); err != nil {
		t.Errorf("ToRss() error: %v", err)
	}
}

func TestPublisherBuildWithoutSnapshot(t *testing.T) {
	if _, err := NewPublisher("Painel").Build(nil, ""); err == nil {
		t.Fatal("Build(nil) returned no error")
	}
}
