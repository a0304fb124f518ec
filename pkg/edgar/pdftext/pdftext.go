// Package pdftext extracts metadata and section text from PDF documents
// embedded in submissions. Payloads are uuencoded inside <PDF> wrappers;
// after decoding, the document outline drives sectioning when present,
// otherwise each page becomes its own section.
package pdftext

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
)

// PageSection is the section name for per-page rows of outline-less
// PDFs.
const PageSection = "page"

var pdfTagRe = regexp.MustCompile(`(?i)</?pdf>`)

// Extract parses every embedded PDF of a submission. A PDF that cannot
// be decoded or opened is logged and skipped without failing the
// remaining documents.
func Extract(accessionNumber string, docs []filing.EmbeddedDocument) []filing.PdfSection {
	var result []filing.PdfSection
	for _, doc := range docs {
		if !strings.HasSuffix(strings.ToLower(doc.Filename), ".pdf") {
			continue
		}

		payload := pdfTagRe.ReplaceAllString(doc.Text, "")
		data, err := uudecode(payload)
		if err != nil {
			log.Printf("Warning: failed to decode PDF %s of %s: %v", doc.Filename, accessionNumber, err)
			continue
		}

		sections, err := parsePDF(accessionNumber, data)
		if err != nil {
			log.Printf("Warning: failed to parse PDF %s of %s: %v", doc.Filename, accessionNumber, err)
			continue
		}
		result = append(result, sections...)
	}
	return result
}

// parsePDF writes the decoded bytes to a scratch file, repairs it with a
// relaxed-validation optimize pass, and splits its text along the
// document outline.
func parsePDF(accessionNumber string, data []byte) ([]filing.PdfSection, error) {
	dir, err := os.MkdirTemp("", "edgar-pdf-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	raw := filepath.Join(dir, "raw.pdf")
	if err := os.WriteFile(raw, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing scratch pdf: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	path := filepath.Join(dir, "optimized.pdf")
	if err := api.OptimizeFile(raw, path, conf); err != nil {
		log.Printf("Warning: PDF optimize pass failed, using raw bytes: %v", err)
		path = raw
	}

	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	meta := readMetadata(path)
	meta.PageCount = pageCount

	pageText, err := extractPageText(path, pageCount)
	if err != nil {
		return nil, err
	}

	spans := outlineSpans(path, conf, pageCount)
	if len(spans) == 0 {
		sections := make([]filing.PdfSection, 0, pageCount)
		for page := 1; page <= pageCount; page++ {
			sections = append(sections, filing.PdfSection{
				AccessionNumber: accessionNumber,
				Metadata:        meta,
				StartPage:       page,
				EndPage:         page,
				Name:            PageSection,
				Text:            strings.TrimSpace(pageText[page-1]),
			})
		}
		return sections, nil
	}

	sections := make([]filing.PdfSection, 0, len(spans))
	for _, span := range spans {
		var b strings.Builder
		for page := span.from; page <= span.to; page++ {
			b.WriteString(pageText[page-1])
		}
		sections = append(sections, filing.PdfSection{
			AccessionNumber: accessionNumber,
			Metadata:        meta,
			StartPage:       span.from,
			EndPage:         span.to,
			Name:            span.title,
			Text:            strings.TrimSpace(b.String()),
		})
	}
	return sections, nil
}

type pageSpan struct {
	title string
	from  int
	to    int
}

// outlineSpans flattens the PDF outline depth-first into 1-based page
// spans. Each span runs to the page before the next outline entry, the
// last one to the end of the document.
func outlineSpans(path string, conf *model.Configuration, pageCount int) []pageSpan {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	bookmarks, err := api.Bookmarks(f, conf)
	if err != nil || len(bookmarks) == 0 {
		return nil
	}

	var spans []pageSpan
	var flatten func([]pdfcpu.Bookmark)
	flatten = func(bms []pdfcpu.Bookmark) {
		for _, bm := range bms {
			spans = append(spans, pageSpan{title: bm.Title, from: bm.PageFrom})
			flatten(bm.Kids)
		}
	}
	flatten(bookmarks)

	fillSpanEnds(spans, pageCount)
	return spans
}

// fillSpanEnds closes each span at the page before the next entry's
// start; only the final span runs to the end of the document. A parent
// bookmark whose first child starts on the same page gets an empty
// range (to < from), yielding a section with no text of its own.
func fillSpanEnds(spans []pageSpan, pageCount int) {
	for i := range spans {
		if spans[i].from < 1 {
			spans[i].from = 1
		}
		if i+1 < len(spans) {
			spans[i].to = spans[i+1].from - 1
		} else {
			spans[i].to = pageCount
		}
		if spans[i].to > pageCount {
			spans[i].to = pageCount
		}
	}
}

func extractPageText(path string, pageCount int) ([]string, error) {
	f, reader, err := ltpdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf for text extraction: %w", err)
	}
	defer f.Close()

	text := make([]string, pageCount)
	n := reader.NumPage()
	if n > pageCount {
		n = pageCount
	}
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("Warning: failed to extract text from PDF page %d: %v", i, err)
			continue
		}
		text[i-1] = content
	}
	return text, nil
}

func readMetadata(path string) filing.PdfMetadata {
	f, reader, err := ltpdf.Open(path)
	if err != nil {
		return filing.PdfMetadata{}
	}
	defer f.Close()

	info := reader.Trailer().Key("Info")
	if info.Kind() != ltpdf.Dict {
		return filing.PdfMetadata{}
	}
	return filing.PdfMetadata{
		Title:    stringValue(info.Key("Title")),
		Author:   stringValue(info.Key("Author")),
		Creator:  stringValue(info.Key("Creator")),
		Producer: stringValue(info.Key("Producer")),
	}
}

func stringValue(v ltpdf.Value) string {
	if v.Kind() != ltpdf.String {
		return ""
	}
	return strings.TrimSpace(v.RawString())
}
