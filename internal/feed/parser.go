package feed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText flattens an HTML fragment to text, one block per line.
// Input without block elements comes back as its text content.
func PlainText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	var content []string
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			content = append(content, t)
		}
	})
	if len(content) == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}

	return strings.Join(content, "\n"), nil
}
