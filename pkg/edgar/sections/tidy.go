package sections

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
	"github.com/cchummer/sec-api/pkg/edgar/htmltext"
	"github.com/cchummer/sec-api/pkg/edgar/internalerr"
)

// Part boundaries are only meaningful for 10-Q, whose item numbers
// repeat across parts.
var partMarkerRe = regexp.MustCompile(`(?:\A|\n\n)(?:PART|Part)\s[IVXLCDM]+`)

type rawSection struct {
	partHeader string
	header     string
	text       string
}

// ExtractTidy pulls known named sections out of a tidy filing's main
// HTML document. Matched headers that do not reduce to a recognized
// canonical key are dropped with a warning; when the same key matches
// more than once (a linked table of contents produces false positives
// early in the document), the last occurrence wins while the key keeps
// its first position in the output.
func ExtractTidy(accessionNumber, htmlContent, formType string) ([]filing.Section, error) {
	g := grammarFor(formType)
	if g == nil {
		return nil, fmt.Errorf("%w: %s", internalerr.ErrUnsupportedCategory, formType)
	}

	text := htmltext.Normalize(htmltext.ExtractText(htmlContent), true)
	if text == "" {
		return nil, fmt.Errorf("no text extracted from %s document", formType)
	}

	var raw []rawSection
	if g.useParts {
		for _, part := range splitParts(text) {
			raw = append(raw, scanItems(g, part.header, part.text)...)
		}
	} else {
		raw = scanItems(g, "", text)
	}

	byKey := make(map[string]filing.Section)
	var order []string
	for _, section := range raw {
		key, ok := canonicalKey(g, section.partHeader, section.header)
		if !ok {
			log.Printf("Warning: could not normalize %s section header: %q", formType, section.header)
			continue
		}
		if !g.known[key] {
			log.Printf("Warning: unexpected section header for %s filing: %s", formType, key)
			continue
		}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = filing.Section{
			AccessionNumber: accessionNumber,
			Name:            key,
			Meaning:         g.meanings[key],
			Text:            section.text,
		}
	}

	result := make([]filing.Section, 0, len(order))
	for _, key := range order {
		result = append(result, byKey[key])
	}
	return result, nil
}

type part struct {
	header string
	text   string
}

// splitParts carves the document at PART <roman> markers. Each part's
// text starts at the first blank line after its marker, so the rest of
// the marker's own heading line is discarded.
func splitParts(text string) []part {
	locs := partMarkerRe.FindAllStringIndex(text, -1)
	parts := make([]part, 0, len(locs))
	for i, loc := range locs {
		header := strings.TrimSpace(text[loc[0]:loc[1]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := text[loc[1]:end]
		bodyStart := strings.Index(segment, "\n\n")
		if bodyStart < 0 {
			continue
		}
		parts = append(parts, part{header: header, text: segment[bodyStart:]})
	}
	return parts
}

// scanItems locates header boundaries and slices the text between
// successive ones. The final item runs to end of text.
func scanItems(g *grammar, partHeader, text string) []rawSection {
	locs := g.boundary.FindAllStringIndex(text, -1)
	items := make([]rawSection, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		items = append(items, rawSection{
			partHeader: partHeader,
			header:     strings.TrimSpace(text[loc[0]:loc[1]]),
			text:       strings.TrimSpace(text[loc[1]:end]),
		})
	}
	return items
}

func canonicalKey(g *grammar, partHeader, header string) (string, bool) {
	combined := strings.TrimSpace(strings.ToLower(partHeader) + " " + strings.ToLower(header))
	if g.canonical == nil {
		return combined, true
	}
	key := g.canonical.FindString(combined)
	if key == "" {
		return "", false
	}
	return key, true
}
