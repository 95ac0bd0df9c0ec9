package service

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TruncationMarker is appended to text cut by Truncate.
const TruncationMarker = "..."

// Sanitizer turns feed HTML into bounded plain text
type Sanitizer struct {
	titleLimit    int
	descLimit     int
	creditMarkers []string
}

// NewSanitizer creates a sanitizer. Paragraphs of a description containing
// any of creditMarkers (case-insensitive) are dropped.
func NewSanitizer(titleLimit, descLimit int, creditMarkers []string) *Sanitizer {
	markers := make([]string, 0, len(creditMarkers))
	for _, m := range creditMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			markers = append(markers, m)
		}
	}
	return &Sanitizer{
		titleLimit:    titleLimit,
		descLimit:     descLimit,
		creditMarkers: markers,
	}
}

// Title cleans and truncates a raw entry title.
func (s *Sanitizer) Title(raw string) string {
	return Truncate(CleanText(raw), s.titleLimit)
}

// Description cleans and truncates a raw entry description, dropping credit
// paragraphs first.
func (s *Sanitizer) Description(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return Truncate(collapse(raw), s.descLimit)
	}

	if len(s.creditMarkers) > 0 {
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			text := strings.ToLower(p.Text())
			for _, m := range s.creditMarkers {
				if strings.Contains(text, m) {
					p.Remove()
					return
				}
			}
		})
	}

	return Truncate(documentText(doc), s.descLimit)
}

// CleanText strips markup from raw HTML: script, style and noscript subtrees
// are dropped, text nodes are joined with a space and whitespace runs are
// collapsed.
func CleanText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapse(raw)
	}
	return documentText(doc)
}

// Truncate bounds text to limit runes. Longer text is cut at the last word
// boundary that leaves room for the marker, so the result never exceeds limit.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}

	markerLen := len([]rune(TruncationMarker))
	if limit <= markerLen {
		return string(runes[:limit])
	}

	cut := runes[:limit-markerLen]
	if runes[len(cut)] != ' ' {
		if idx := lastSpace(cut); idx > 0 {
			cut = cut[:idx]
		}
	}
	return strings.TrimRight(string(cut), " ") + TruncationMarker
}

func documentText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var parts []string
	for _, n := range doc.Selection.Nodes {
		collectText(n, &parts)
	}
	return collapse(strings.Join(parts, " "))
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}
