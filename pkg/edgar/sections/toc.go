package sections

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
	"github.com/cchummer/sec-api/pkg/edgar/htmltext"
)

// SectionTypeLinkedTOC and SectionTypeWholeDoc label toc-derived rows by
// how their text was obtained.
const (
	SectionTypeLinkedTOC = "linked_toc_section"
	SectionTypeWholeDoc  = "html_whole_doc"
)

// ExtractTOC walks a document's hyperlinked table of contents for
// sections. When no linked TOC exists, or the one found yields no text,
// the whole document's visible text is recorded as a single section.
// Section names are made unique per document with _2, _3 suffixes.
func ExtractTOC(accessionNumber, htmlContent string) []filing.Section {
	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var crawled []crawledSection
	if toc := findLinkedTOC(root); toc != nil {
		crawled = crawlTOC(root, toc)
	}
	if len(crawled) == 0 {
		return []filing.Section{{
			AccessionNumber: accessionNumber,
			Name:            WholeDocSection,
			Meaning:         SectionTypeWholeDoc,
			Text:            htmltext.Normalize(htmltext.VisibleText(htmlContent), false),
		}}
	}

	seen := make(map[string]bool)
	result := make([]filing.Section, 0, len(crawled))
	for _, section := range crawled {
		name := section.name
		for i := 2; seen[name]; i++ {
			name = section.name + "_" + strconv.Itoa(i)
		}
		seen[name] = true
		result = append(result, filing.Section{
			AccessionNumber: accessionNumber,
			Name:            name,
			Meaning:         SectionTypeLinkedTOC,
			Text:            section.text,
		})
	}
	return result
}

type crawledSection struct {
	name string
	text string
}

// findLinkedTOC returns the first <table> containing an <a href>.
func findLinkedTOC(root *html.Node) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "table" && containsLink(n) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func containsLink(n *html.Node) bool {
	if n.Type == html.ElementNode && n.Data == "a" && attr(n, "href") != "" {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if containsLink(c) {
			return true
		}
	}
	return false
}

// crawlTOC maps the TOC's link targets to display labels, locates each
// target's destination anchor, and captures the text from each anchor up
// to the next one. Labels that are bare page numbers or roman numerals
// are decorative duplicate links, not section titles, and are skipped.
// When one target carries several labels the last non-decorative one
// wins; first link position decides output order.
func crawlTOC(root, toc *html.Node) []crawledSection {
	labels := make(map[string]string)
	var order []string

	var collectLinks func(*html.Node)
	collectLinks = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); href != "" {
				label := strings.TrimSpace(nodeText(n))
				if !looksLikePageNumber(label) {
					target := strings.TrimPrefix(href, "#")
					if _, ok := labels[target]; !ok {
						order = append(order, target)
					}
					labels[target] = htmltext.Normalize(label, true)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectLinks(c)
		}
	}
	collectLinks(toc)

	// Anchors never linked to are phantoms that would prematurely end a
	// section, so only linked-to destinations count.
	var dests []*html.Node
	var collectDests func(*html.Node)
	collectDests = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "a" || n.Data == "div") {
			if labels[attr(n, "id")] != "" || labels[attr(n, "name")] != "" {
				dests = append(dests, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collectDests(c)
		}
	}
	collectDests(root)

	var sections []crawledSection
	for _, target := range order {
		for i, dest := range dests {
			if attr(dest, "id") != target && attr(dest, "name") != target {
				continue
			}
			var stop *html.Node
			if i+1 < len(dests) {
				stop = dests[i+1]
			}
			text := textBetween(dest, stop)
			if text != "" {
				sections = append(sections, crawledSection{name: labels[target], text: text})
			}
			break
		}
	}
	return sections
}

// textBetween collects text nodes from start (inclusive) to stop
// (exclusive) in a forward in-order walk, or to end of document when
// stop is nil.
func textBetween(start, stop *html.Node) string {
	var parts []string
	for n := start; n != nil && n != stop; n = nextNode(n) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return htmltext.Normalize(strings.Join(parts, " "), false)
}

// nextNode is the in-order successor: first child, else next sibling,
// else the nearest ancestor's next sibling.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

// looksLikePageNumber reports whether a link label is a bare page
// number: all digits, or all roman numeral letters (parentheses
// allowed). Empty labels count as page numbers so they get skipped.
func looksLikePageNumber(label string) bool {
	label = strings.TrimSpace(label)
	isNumeric := label != ""
	for _, r := range label {
		if r < '0' || r > '9' {
			isNumeric = false
			break
		}
	}
	if isNumeric {
		return true
	}
	for _, r := range strings.ToUpper(label) {
		if !strings.ContainsRune("MDCLXVI()", r) {
			return false
		}
	}
	return true
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
