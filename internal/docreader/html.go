package docreader

import (
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// extractHTML strips script and style subtrees and returns the body text.
func extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open html file: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Find("body").Text(), nil
}
