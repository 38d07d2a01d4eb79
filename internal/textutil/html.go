// Package textutil turns backend-authored HTML into safe markup or plain text.
package textutil

import (
	"html/template"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var ugc = bluemonday.UGCPolicy()

// Sanitize strips scripts, handlers and unsafe URLs from rich text and
// returns markup safe to embed in a template.
func Sanitize(raw string) template.HTML {
	return template.HTML(ugc.Sanitize(raw))
}

// StripTags returns the text content of an HTML fragment with runs of
// whitespace collapsed to single spaces.
func StripTags(raw string) string {
	if raw == "" {
		return ""
	}
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return collapseSpace(raw)
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if isBlock(n.Data) {
				b.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.Data) {
			b.WriteByte(' ')
		}
	}
	walk(root)
	return collapseSpace(b.String())
}

// Excerpt strips tags and truncates to at most limit runes, appending "...".
func Excerpt(raw string, limit int) string {
	text := StripTags(raw)
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace) + "..."
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "td", "th", "blockquote", "pre", "section", "article":
		return true
	}
	return false
}
