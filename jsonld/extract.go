package jsonld

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const scriptMediaType = "application/ld+json"

// ExtractScripts returns the trimmed text of every JSON-LD script block in an HTML page, in document
// order. Blocks are returned unparsed so malformed payloads still reach validation.
func ExtractScripts(r io.Reader) ([][]byte, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks [][]byte
	doc.Find("script[type]").Each(func(_ int, s *goquery.Selection) {
		mediaType, _ := s.Attr("type")
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(mediaType)), scriptMediaType) {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		blocks = append(blocks, []byte(text))
	})

	return blocks, nil
}
