package content

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"ong-client/pkg/utils"
)

// ToText converts an HTML fragment from the API (news content, slide and
// member descriptions) into trimmed markdown text
func ToText(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("%w: HTML fragment: %v", utils.ErrParsing, err)
	}
	cleanup(doc.Selection)

	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("%w: HTML fragment: %v", utils.ErrParsing, err)
	}

	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrMarkdownConversion, err)
	}
	return strings.TrimSpace(text), nil
}

// Summary returns the first line of ToText, cut to max runes
func Summary(html string, max int) string {
	text, err := ToText(html)
	if err != nil || text == "" {
		return ""
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if max > 0 {
		if r := []rune(text); len(r) > max {
			return string(r[:max]) + "..."
		}
	}
	return text
}

// FirstImage returns the src of the first <img> in the fragment, or ""
func FirstImage(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

// cleanup drops markup that has no text value: scripts, styles and empty anchors
func cleanup(sel *goquery.Selection) {
	sel.Find("script, style, noscript").Remove()
	sel.Find("a").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.TrimSpace(s.Text()) == "" && s.Find("img").Length() == 0 && (href == "" || strings.HasPrefix(href, "#")) {
			s.Remove()
		}
	})
}
