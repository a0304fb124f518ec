package sections

import (
	"errors"
	"testing"

	"github.com/cchummer/sec-api/pkg/edgar/internalerr"
)

// The opening banner paragraph matters: header boundaries only match
// between paragraphs, the way real filings lead with cover-page text.
const sample8K = `<html><body>
<p>UNITED STATES SECURITIES AND EXCHANGE COMMISSION</p>
<p>Item 5.02 Departure of Directors</p>
<p>TOC page 3</p>
<p>Item 9.01 Financial Statements and Exhibits</p>
<p>TOC page 4</p>
<p>Item 5.02 Departure of Directors</p>
<p>Real body text.</p>
<p>Item 9.01 Financial Statements and Exhibits</p>
<p>Exhibit list.</p>
<p>Item 77.99 Bogus</p>
<p>Nothing here.</p>
</body></html>`

func TestExtractTidy_8K(t *testing.T) {
	sections, err := ExtractTidy("0001-24-000001", sample8K, "8-K")
	if err != nil {
		t.Fatalf("ExtractTidy failed: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2: %+v", len(sections), sections)
	}

	// TOC duplicates resolve to the later, real occurrence while the
	// key keeps its first position.
	if sections[0].Name != "item 5.02" || sections[0].Text != "Real body text." {
		t.Errorf("first section = %+v", sections[0])
	}
	if sections[1].Name != "item 9.01" || sections[1].Text != "Exhibit list." {
		t.Errorf("second section = %+v", sections[1])
	}
	if sections[1].Meaning != "Financial Statements and Exhibits" {
		t.Errorf("item 9.01 meaning = %q", sections[1].Meaning)
	}
	if sections[0].AccessionNumber != "0001-24-000001" {
		t.Errorf("accession number = %q", sections[0].AccessionNumber)
	}
}

func TestExtractTidy_10QParts(t *testing.T) {
	raw := `<html><body>
<p>QUARTERLY REPORT</p>
<p>PART I</p>
<p>Item 1. Financial Statements</p>
<p>Balance sheet text.</p>
<p>PART II</p>
<p>Item 1. Legal Proceedings</p>
<p>None to report.</p>
</body></html>`

	sections, err := ExtractTidy("0001-24-000002", raw, "10-Q")
	if err != nil {
		t.Fatalf("ExtractTidy failed: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2: %+v", len(sections), sections)
	}

	if sections[0].Name != "part i item 1" || sections[0].Text != "Balance sheet text." {
		t.Errorf("part I section = %+v", sections[0])
	}
	if sections[0].Meaning != "Financial Statements" {
		t.Errorf("part I meaning = %q", sections[0].Meaning)
	}
	if sections[1].Name != "part ii item 1" || sections[1].Text != "None to report." {
		t.Errorf("part II section = %+v", sections[1])
	}
	if sections[1].Meaning != "Legal Proceedings" {
		t.Errorf("part II meaning = %q", sections[1].Meaning)
	}
}

func TestExtractTidy_S1Outline(t *testing.T) {
	raw := `<html><body>
<p>REGISTRATION STATEMENT</p>
<p>PROSPECTUS SUMMARY</p>
<p>We are a widget company.</p>
<p>RISK FACTORS</p>
<p>Widgets are risky.</p>
</body></html>`

	sections, err := ExtractTidy("0001-24-000003", raw, "S-1")
	if err != nil {
		t.Fatalf("ExtractTidy failed: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2: %+v", len(sections), sections)
	}
	if sections[0].Name != "prospectus summary" || sections[0].Text != "We are a widget company." {
		t.Errorf("first section = %+v", sections[0])
	}
	if sections[1].Name != "risk factors" || sections[1].Text != "Widgets are risky." {
		t.Errorf("second section = %+v", sections[1])
	}
}

func TestExtractTidy_UnsupportedType(t *testing.T) {
	_, err := ExtractTidy("0001-24-000004", "<html></html>", "DEF 14A")
	if !errors.Is(err, internalerr.ErrUnsupportedCategory) {
		t.Fatalf("error = %v, want ErrUnsupportedCategory", err)
	}
}

func TestExtractNamed_TOCFallback(t *testing.T) {
	// No recognizable item headers, so extraction falls through to the
	// whole-document path with the fallback meaning.
	raw := `<html><body><p>Cover page only, no items.</p></body></html>`

	sections := ExtractNamed("0001-24-000005", raw, "8-K")
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if sections[0].Name != WholeDocSection {
		t.Errorf("section name = %q, want %q", sections[0].Name, WholeDocSection)
	}
	if sections[0].Meaning != MeaningTOCFallback {
		t.Errorf("section meaning = %q, want %q", sections[0].Meaning, MeaningTOCFallback)
	}
	if sections[0].Text != "Cover page only, no items." {
		t.Errorf("section text = %q", sections[0].Text)
	}
}
