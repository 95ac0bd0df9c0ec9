package service

import (
	"fmt"
	"net/url"

	"github.com/reshetovitsme/news-panel/internal/modules/news/domain"
	"github.com/reshetovitsme/news-panel/internal/shared/errors"
	"github.com/samber/oops"
	"github.com/skip2/go-qrcode"
)

// QRGenerator encodes article links as QR codes
type QRGenerator struct {
	size int
}

// NewQRGenerator creates a generator producing size x size PNGs
func NewQRGenerator(size int) *QRGenerator {
	if size <= 0 {
		size = 256
	}
	return &QRGenerator{size: size}
}

// Generate encodes link. The same link always yields the same artifact.
func (g *QRGenerator) Generate(link string) (*domain.QRCode, error) {
	errb := oops.In("qr").With("url", link)

	u, err := url.Parse(link)
	if link == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errb.Wrap(fmt.Errorf("%w: not an http(s) link", errors.ErrQREncode))
	}

	code, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, errb.Wrap(fmt.Errorf("%w: %w", errors.ErrQREncode, err))
	}

	png, err := code.PNG(g.size)
	if err != nil {
		return nil, errb.Wrap(fmt.Errorf("%w: %w", errors.ErrQREncode, err))
	}

	return &domain.QRCode{
		Content:  link,
		PNG:      png,
		Terminal: code.ToSmallString(false),
	}, nil
}
