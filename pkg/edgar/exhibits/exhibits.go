// Package exhibits identifies HTML exhibit documents inside a
// submission and classifies their declared exhibit numbers into
// human-readable meanings per form type.
package exhibits

import (
	"log"
	"regexp"
	"strings"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
	"github.com/cchummer/sec-api/pkg/edgar/htmltext"
)

// MeaningUnknown is the classification fallback.
const MeaningUnknown = "Miscellaneous / Unknown Exhibit"

var exhibitTypeRe = regexp.MustCompile(`^EX-\d{1,3}(?:\.\d{1,3})?[A-Z]?`)

var nonNumericRe = regexp.MustCompile(`[^0-9.]`)

// Exhibit numbers mean different things per form type. Keys are the
// declared type stripped to digits and dots.
var exhibitLookup = map[string]map[string]string{
	"10-K": {
		"10.1": "Material Contract",
		"21.1": "List of Subsidiaries",
		"23.1": "Auditor Consent",
		"31.1": "SOX CEO Certification",
		"31.2": "SOX CFO Certification",
		"32.1": "SOX Section 906 Certification",
		"99.1": "Additional Financial Info / Press Release",
	},
	"10-Q": {
		"10.1": "Material Contract",
		"31.1": "SOX CEO Certification",
		"31.2": "SOX CFO Certification",
		"32.1": "SOX Section 906 Certification",
		"99.1": "Supplemental Financial Data",
	},
	"8-K": {
		"99.1": "Earnings Release / Miscellaneous",
		"99.2": "Presentation Materials",
	},
	"6-K": {
		"99.1": "Earnings Release / Press Release",
		"99.2": "Financial Summary",
	},
	"FORM 4": {
		"99.1": "Power of Attorney / Signature Authorization",
	},
	"DEF 14A": {
		"99.1": "Presentation or Supporting Material",
	},
	"S-1": {
		"1.1":  "Underwriting Agreement",
		"5.1":  "Legal Opinion",
		"10.1": "Material Contract",
		"23.1": "Auditor Consent",
		"99.1": "Investor Presentation / Additional Info",
	},
	"S-3": {
		"1.1":  "Underwriting Agreement",
		"5.1":  "Legal Opinion",
		"10.1": "Material Contract",
		"23.1": "Auditor Consent",
		"99.1": "Supplemental Materials",
	},
	"13F-HR": {
		"INFO TABLE": "Institutional Investment Holdings",
	},
	"SC 13D": {
		"1":    "Agreement / Letter",
		"2":    "Power of Attorney / Exhibit B",
		"99.1": "Agreement / Offer Document",
	},
	"SC 13G": {
		"1":    "Power of Attorney / Agreement",
		"99.1": "Supporting Document",
	},
}

// IsExhibitDocument reports whether a sub-document is an HTML exhibit:
// the filename ends in .htm and the declared type is an EX- number.
func IsExhibitDocument(doc filing.EmbeddedDocument) bool {
	return strings.HasSuffix(strings.ToLower(doc.Filename), ".htm") &&
		exhibitTypeRe.MatchString(strings.ToUpper(doc.Type))
}

// Classify maps a declared exhibit type to its meaning for the given
// form type. The exhibit type is reduced to its numeric designator
// before lookup; anything unmapped classifies as MeaningUnknown.
func Classify(formType, exhibitType string) string {
	designator := nonNumericRe.ReplaceAllString(exhibitType, "")
	formMap, ok := exhibitLookup[strings.ToUpper(formType)]
	if !ok {
		return MeaningUnknown
	}
	if meaning, ok := formMap[designator]; ok {
		return meaning
	}
	return MeaningUnknown
}

// Extract collects and classifies every HTML exhibit of a submission.
func Extract(accessionNumber, formType string, docs []filing.EmbeddedDocument) []filing.Exhibit {
	var result []filing.Exhibit
	for _, doc := range docs {
		if !IsExhibitDocument(doc) {
			continue
		}
		text := htmltext.Normalize(htmltext.ExtractText(doc.Text), false)
		if text == "" {
			log.Printf("Warning: no text extracted from exhibit %s of %s", doc.Filename, accessionNumber)
		}
		result = append(result, filing.Exhibit{
			AccessionNumber: accessionNumber,
			ExhibitType:     doc.Type,
			Meaning:         Classify(formType, doc.Type),
			Text:            text,
		})
	}
	return result
}
