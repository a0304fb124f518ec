// Package htmltext turns filing HTML into plain text. EDGAR documents
// vary wildly in markup style, so extraction runs a chain of
// strategies from most to least structured and takes the first one
// that yields text.
package htmltext

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Tags whose newlines are layout noise rather than structure.
var inlineTags = map[string]bool{
	"font": true, "span": true, "a": true, "b": true, "i": true,
	"u": true, "strong": true, "em": true, "small": true,
}

var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var skipTags = map[string]bool{"script": true, "style": true, "head": true}

// ExtractText converts a filing document to plain text. Paragraph tags
// are preferred, then leaf divs, then the body's top-level children,
// and finally the raw text of the whole tree. The result is not yet
// normalized.
func ExtractText(raw string) string {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	for _, strategy := range []func(*html.Node) string{paragraphText, leafDivText, topLevelText} {
		if text := strategy(root); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return renderNode(root)
}

// VisibleText renders the tree minus tables and chrome elements. The
// whole-document fallback uses it so page furniture does not swamp the
// section text.
func VisibleText(raw string) string {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head", "table", "footer", "header", "nav":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteString("\n")
		}
	}
	walk(root)
	return b.String()
}

func paragraphText(root *html.Node) string {
	var parts []string
	forEachElement(root, "p", func(p *html.Node) {
		if text := strings.TrimSpace(renderNode(p)); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

// leafDivText renders divs that contain no further divs. Filings built
// entirely from positioned divs have their prose at exactly that level.
func leafDivText(root *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && !containsElement(n, "div") {
			if text := strings.TrimSpace(renderNode(n)); text != "" {
				parts = append(parts, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, "\n\n")
}

func topLevelText(root *html.Node) string {
	body := findElement(root, "body")
	if body == nil {
		return ""
	}
	var parts []string
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if text := strings.TrimSpace(renderNode(c)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// renderNode flattens a subtree to text. Tables become one
// "TABLE: c1 | c2" line per row, <br> becomes a newline, and newlines
// inside inline tags collapse to spaces.
func renderNode(n *html.Node) string {
	var b strings.Builder
	renderInto(n, &b)
	return b.String()
}

func renderInto(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch {
		case skipTags[n.Data]:
			return
		case n.Data == "br":
			b.WriteString("\n")
			return
		case n.Data == "table":
			b.WriteString(renderTable(n))
			return
		case inlineTags[n.Data]:
			var inner strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				renderInto(c, &inner)
			}
			b.WriteString(strings.ReplaceAll(inner.String(), "\n", " "))
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderInto(c, b)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		b.WriteString("\n")
	}
}

func renderTable(table *html.Node) string {
	var rows []string
	forEachElement(table, "tr", func(tr *html.Node) {
		var cells []string
		var visit func(*html.Node)
		visit = func(n *html.Node) {
			if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
				cell := strings.TrimSpace(strings.ReplaceAll(renderNode(n), "\n", " "))
				cells = append(cells, cell)
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				visit(c)
			}
		}
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if len(cells) > 0 {
			rows = append(rows, "TABLE: "+strings.Join(cells, " | "))
		}
	})
	if len(rows) == 0 {
		return ""
	}
	return strings.Join(rows, "\n") + "\n"
}

func forEachElement(root *html.Node, tag string, fn func(*html.Node)) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			fn(n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

func findElement(root *html.Node, tag string) *html.Node {
	if root.Type == html.ElementNode && root.Data == tag {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func containsElement(n *html.Node, tag string) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return true
		}
		if containsElement(c, tag) {
			return true
		}
	}
	return false
}

var (
	newlineWhitespaceRe = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankRunRe          = regexp.MustCompile(`\n{3,}`)
	spaceRunRe          = regexp.MustCompile(`[ \t]{2,}`)
)

// Normalize canonicalizes extracted text: compatibility decomposition,
// non-breaking and control characters to plain spaces, runs of blank
// lines collapsed to one, and optionally lone newlines folded into
// spaces so wrapped prose reads as one line.
func Normalize(text string, newlinesToSpaces bool) string {
	text = norm.NFKD.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune('\n')
		case unicode.IsControl(r), unicode.IsSpace(r), unicode.In(r, unicode.Z):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	out := spaceRunRe.ReplaceAllString(b.String(), " ")
	out = newlineWhitespaceRe.ReplaceAllString(out, "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	if newlinesToSpaces {
		out = loneNewlinesToSpaces(out)
	}
	return strings.TrimSpace(out)
}

func loneNewlinesToSpaces(s string) string {
	b := []byte(s)
	var out strings.Builder
	out.Grow(len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\n' {
			prev := i > 0 && b[i-1] == '\n'
			next := i+1 < len(b) && b[i+1] == '\n'
			if !prev && !next {
				out.WriteByte(' ')
				continue
			}
		}
		out.WriteByte(b[i])
	}
	return out.String()
}
