package store

import (
	"context"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
	"github.com/cchummer/sec-api/pkg/edgar/manifest"
)

// Sink is the main interface for persisting parsed filing data
type Sink interface {
	Close() error

	// Manifest audit trail
	InsertManifest(ctx context.Context, day string, entries []manifest.Entry) error

	// Parsed records, one batch per filing or aggregated per type.
	// Re-inserting rows that already exist is a no-op.
	InsertBatch(ctx context.Context, b Batch) error

	// Downstream-ingestion support
	UnembeddedTextRows(ctx context.Context, limit int) ([]TextRow, error)
	MarkEmbedded(ctx context.Context, table string, ids []int64) error
}

// Batch carries every record type produced from parsing. Which slices
// are populated depends on the filing category.
type Batch struct {
	Infos         []filing.Info
	NamedSections []filing.Section
	TOCSections   []filing.Section
	SubjectCos    []filing.SubjectCompany
	Exhibits      []filing.Exhibit
	PdfSections   []filing.PdfSection
	Managers      []filing.HoldingsManager
	Holdings      []filing.Holding
}

// Append merges another batch into this one
func (b *Batch) Append(other Batch) {
	b.Infos = append(b.Infos, other.Infos...)
	b.NamedSections = append(b.NamedSections, other.NamedSections...)
	b.TOCSections = append(b.TOCSections, other.TOCSections...)
	b.SubjectCos = append(b.SubjectCos, other.SubjectCos...)
	b.Exhibits = append(b.Exhibits, other.Exhibits...)
	b.PdfSections = append(b.PdfSections, other.PdfSections...)
	b.Managers = append(b.Managers, other.Managers...)
	b.Holdings = append(b.Holdings, other.Holdings...)
}

// Empty reports whether the batch holds no records at all
func (b *Batch) Empty() bool {
	return len(b.Infos) == 0 && len(b.NamedSections) == 0 && len(b.TOCSections) == 0 &&
		len(b.SubjectCos) == 0 && len(b.Exhibits) == 0 && len(b.PdfSections) == 0 &&
		len(b.Managers) == 0 && len(b.Holdings) == 0
}

// TextRow is one stored text section awaiting downstream embedding,
// identified by its table and row id.
type TextRow struct {
	Table           string
	ID              int64
	AccessionNumber string
	Name            string
	Text            string
}

// Tables holding embeddable text, queried by UnembeddedTextRows
const (
	TableNamedSections = "named_sections"
	TableTOCSections   = "toc_sections"
	TableExhibits      = "exhibits"
	TablePdfSections   = "pdf_sections"
)
