package service

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/reshetovitsme/news-panel/internal/shared/errors"
)

func TestQRGeneratorDeterministic(t *testing.T) {
	g := NewQRGenerator(128)

	a, err := g.Generate("https://fct.ufg.br/n/1")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	b, err := g.Generate("https://fct.ufg.br/n/1")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if !bytes.Equal(a.PNG, b.PNG) {
		t.Error("same link produced different PNGs")
	}
	if !bytes.HasPrefix(a.PNG, []byte("\x89PNG")) {
		t.Error("PNG output has no PNG signature")
	}
	if a.Terminal == "" || a.Terminal != b.Terminal {
		t.Error("terminal rendering empty or unstable")
	}
	if a.Content != "https://fct.ufg.br/n/1" {
		t.Errorf("Content = %q", a.Content)
	}

	c, err := g.Generate("https://fct.ufg.br/n/2")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if bytes.Equal(a.PNG, c.PNG) {
		t.Error("different links produced the same PNG")
	}
}

func TestQRGeneratorRejectsBadLinks(t *testing.T) {
	g := NewQRGenerator(0)
	for _, link := range []string{"", "not a url", "mailto:a@b.c", "ftp://host/file", "https://" + strings.Repeat("x", 8000)} {
		if _, err := g.Generate(link); !stderrors.Is(err, errors.ErrQREncode) {
			t.Errorf("Generate(%.20q) err = %v; want ErrQREncode", link, err)
		}
	}
}
