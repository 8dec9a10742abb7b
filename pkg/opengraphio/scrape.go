package opengraphio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoScrapeText is returned by the HTML helpers when the scrape carried no text.
var ErrNoScrapeText = errors.New("scrape result has no text")

// Document parses the scraped text as HTML.
func (s *ScrapeInfo) Document() (*goquery.Document, error) {
	if s == nil || s.Text == nil {
		return nil, ErrNoScrapeText
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(*s.Text))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// PlainText returns the visible body text of the scraped page with runs of
// whitespace collapsed to single spaces.
func (s *ScrapeInfo) PlainText() (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}

// Select returns the trimmed text of every element matching the CSS selector.
func (s *ScrapeInfo) Select(selector string) ([]string, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out, nil
}
