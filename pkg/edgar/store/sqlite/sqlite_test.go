package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
	"github.com/cchummer/sec-api/pkg/edgar/manifest"
	"github.com/cchummer/sec-api/pkg/edgar/store"
)

func openTestSink(t *testing.T) store.Sink {
	t.Helper()
	sink, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { sink.Close() })
	return sink
}

func sampleBatch() store.Batch {
	return store.Batch{
		Infos: []filing.Info{{
			AccessionNumber: "0001-24-000001",
			FormType:        "8-k",
			FiledDate:       "20240115",
			CIK:             "0000000123",
			CompanyName:     "ACME WIDGETS INC",
			SIC:             filing.ZeroSIC(),
			NameChanges:     []filing.NameChange{{FormerName: "ACME HOLDINGS", DateOfChange: "20190301"}},
		}},
		NamedSections: []filing.Section{
			{AccessionNumber: "0001-24-000001", Name: "item 5.02", Meaning: "Departure of Directors", Text: "Body."},
			{AccessionNumber: "0001-24-000001", Name: "item 9.01", Meaning: "Financial Statements and Exhibits", Text: ""},
		},
		Exhibits: []filing.Exhibit{
			{AccessionNumber: "0001-24-000001", ExhibitType: "EX-99.1", Meaning: "Earnings Release / Miscellaneous", Text: "Press release."},
		},
		PdfSections: []filing.PdfSection{
			{AccessionNumber: "0001-24-000001", Metadata: filing.PdfMetadata{Title: "Deck", PageCount: 2}, StartPage: 1, EndPage: 2, Name: "page", Text: "Slide text."},
		},
		Managers: []filing.HoldingsManager{
			{AccessionNumber: "0001-24-000001", MgrSeq: 0, FilingMgrName: "Acme Capital"},
		},
		Holdings: []filing.Holding{
			{AccessionNumber: "0001-24-000001", EntrySeq: 1, Issuer: "WIDGET CORP", CUSIP: "123456789"},
		},
	}
}

func TestInsertBatch_Idempotent(t *testing.T) {
	ctx := context.Background()
	sink := openTestSink(t)

	batch := sampleBatch()
	for i := 0; i < 2; i++ {
		if err := sink.InsertBatch(ctx, batch); err != nil {
			t.Fatalf("InsertBatch round %d failed: %v", i+1, err)
		}
	}

	rows, err := sink.UnembeddedTextRows(ctx, -1)
	if err != nil {
		t.Fatalf("UnembeddedTextRows failed: %v", err)
	}
	// Re-inserting must not duplicate rows: one named section with text,
	// one exhibit, one pdf section. The empty-text section is excluded.
	if len(rows) != 3 {
		t.Fatalf("got %d unembedded rows, want 3: %+v", len(rows), rows)
	}
}

func TestInsertManifest_Idempotent(t *testing.T) {
	ctx := context.Background()
	sink := openTestSink(t)

	entries := []manifest.Entry{{
		CIK:             "0000000123",
		CompanyName:     "ACME WIDGETS INC",
		FormType:        "8-k",
		FiledDate:       "20240115",
		AccessionNumber: "0001-24-000001",
		FullTextURL:     "https://www.sec.gov/Archives/edgar/data/123/0001-24-000001.txt",
	}}
	for i := 0; i < 2; i++ {
		if err := sink.InsertManifest(ctx, "2024-01-15", entries); err != nil {
			t.Fatalf("InsertManifest round %d failed: %v", i+1, err)
		}
	}
}

func TestUnembeddedTextRows_LimitAndMark(t *testing.T) {
	ctx := context.Background()
	sink := openTestSink(t)

	if err := sink.InsertBatch(ctx, sampleBatch()); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	limited, err := sink.UnembeddedTextRows(ctx, 1)
	if err != nil {
		t.Fatalf("UnembeddedTextRows failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("got %d rows with limit 1, want 1", len(limited))
	}

	all, err := sink.UnembeddedTextRows(ctx, -1)
	if err != nil {
		t.Fatalf("UnembeddedTextRows failed: %v", err)
	}
	byTable := make(map[string][]int64)
	for _, row := range all {
		if row.AccessionNumber != "0001-24-000001" {
			t.Errorf("row accession = %q", row.AccessionNumber)
		}
		byTable[row.Table] = append(byTable[row.Table], row.ID)
	}
	for _, table := range []string{store.TableNamedSections, store.TableExhibits, store.TablePdfSections} {
		if len(byTable[table]) != 1 {
			t.Errorf("table %s has %d unembedded rows, want 1", table, len(byTable[table]))
		}
	}

	if err := sink.MarkEmbedded(ctx, store.TableExhibits, byTable[store.TableExhibits]); err != nil {
		t.Fatalf("MarkEmbedded failed: %v", err)
	}
	remaining, err := sink.UnembeddedTextRows(ctx, -1)
	if err != nil {
		t.Fatalf("UnembeddedTextRows failed: %v", err)
	}
	if len(remaining) != len(all)-1 {
		t.Fatalf("got %d rows after marking, want %d", len(remaining), len(all)-1)
	}
	for _, row := range remaining {
		if row.Table == store.TableExhibits {
			t.Errorf("exhibit row %d still reported unembedded", row.ID)
		}
	}
}

func TestMarkEmbedded_RejectsUnknownTable(t *testing.T) {
	sink := openTestSink(t)
	if err := sink.MarkEmbedded(context.Background(), "filing_info", []int64{1}); err == nil {
		t.Fatal("expected an error for a non-text table")
	}
}
