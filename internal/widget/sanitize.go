package widget

import (
	"strings"

	"golang.org/x/net/html"
)

const Ellipsis = "…"

// Sanitize reduces an untrusted HTML fragment to plain text and truncates it
// to budget runes. Truncated text keeps budget-3 runes followed by an
// ellipsis. The result is text, not markup: escape it when embedding.
func Sanitize(fragment string, budget int) string {
	text := PlainText(fragment)
	if budget <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	keep := budget - 3
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + Ellipsis
}

var angleBrackets = strings.NewReplacer("<", "‹", ">", "›")

// PlainText returns the visible text of fragment with whitespace runs
// collapsed. Script, style and similar non-text elements are dropped. The
// result never contains '<' or '>'.
func PlainText(fragment string) string {
	text := visibleText(fragment)
	// decoded entities can spell out markup of their own
	if strings.ContainsAny(text, "<>") {
		text = visibleText(text)
	}
	return angleBrackets.Replace(text)
}

func visibleText(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	extractText(doc, &sb, 0)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func extractText(n *html.Node, sb *strings.Builder, depth int) {
	if depth > 64 {
		return
	}

	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "template", "head":
			return
		case "br", "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			sb.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb, depth+1)
	}
}
