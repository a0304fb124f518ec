package filing

import (
	"log"
	"regexp"
	"strings"
)

var (
	documentRe = regexp.MustCompile(`(?is)<document>(.*?)</document>`)

	docTypeRe     = regexp.MustCompile(`(?is)<type>(.*?)\s*<`)
	docSequenceRe = regexp.MustCompile(`(?is)<sequence>(\d+)\s*<`)
	docFilenameRe = regexp.MustCompile(`(?is)<filename>(.*?)\s*<`)
	docDescRe     = regexp.MustCompile(`(?is)<description>(.*?)\s*<`)
	docTextRe     = regexp.MustCompile(`(?is)<text>(.*?)</text>`)
)

// Split decomposes a submission's full text into its embedded
// sub-documents, in source order. A block missing a required sub-field
// keeps that field empty rather than being dropped.
func Split(raw string) []EmbeddedDocument {
	blocks := documentRe.FindAllStringSubmatch(raw, -1)

	docs := make([]EmbeddedDocument, 0, len(blocks))
	for _, block := range blocks {
		body := block[1]
		doc := EmbeddedDocument{
			Type:     firstGroup(docTypeRe, body),
			Sequence: firstGroup(docSequenceRe, body),
			Filename: firstGroup(docFilenameRe, body),
			Text:     firstGroup(docTextRe, body),
		}
		if m := docDescRe.FindStringSubmatch(body); m != nil {
			doc.Description = strings.TrimSpace(m[1])
		}
		for field, val := range map[string]string{
			"type": doc.Type, "sequence": doc.Sequence, "filename": doc.Filename, "text": doc.Text,
		} {
			if val == "" {
				log.Printf("Warning: embedded document missing <%s>, keeping with empty field", field)
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

// PrimaryDocument locates the submission's main document: declared type
// equal to the filing's form type and a filename with the given
// extension (e.g. ".htm" or ".xml").
func PrimaryDocument(docs []EmbeddedDocument, formType, ext string) (EmbeddedDocument, bool) {
	for _, doc := range docs {
		if strings.HasSuffix(strings.ToLower(doc.Filename), ext) &&
			strings.EqualFold(doc.Type, formType) {
			return doc, true
		}
	}
	return EmbeddedDocument{}, false
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
