// Package sections extracts text sections from filing documents. Tidy
// filing categories carry a fixed header vocabulary and get scanned for
// known items; everything else is crawled through its hyperlinked table
// of contents, with the whole document as the last resort.
package sections

import (
	"log"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
)

// MeaningTOCFallback marks sections of a tidy filing that were recovered
// by the TOC crawl because header scanning found nothing.
const MeaningTOCFallback = "toc_fallback"

// ExtractNamed runs the extraction chain for a tidy filing's main
// document: known-header scanning first, then the TOC crawl with every
// resulting row marked as a fallback, then the whole document.
func ExtractNamed(accessionNumber, htmlContent, formType string) []filing.Section {
	named, err := ExtractTidy(accessionNumber, htmlContent, formType)
	if err != nil {
		log.Printf("Warning: named section extraction failed for %s %s: %v", formType, accessionNumber, err)
	}
	if len(named) > 0 {
		return named
	}

	log.Printf("Warning: no known sections found in %s %s, falling back to TOC crawl", formType, accessionNumber)
	fallback := ExtractTOC(accessionNumber, htmlContent)
	for i := range fallback {
		fallback[i].Meaning = MeaningTOCFallback
	}
	return fallback
}
