// Package pipeline orchestrates one calendar day of filing processing:
// fetch the daily manifest, fan out over target filing types with a
// bounded worker pool, parse each filing into typed records, and hand
// aggregated per-type batches to the sink. Individual filings fail
// independently; only a missing manifest fails the day.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/cchummer/sec-api/pkg/edgar/exhibits"
	"github.com/cchummer/sec-api/pkg/edgar/fetch"
	"github.com/cchummer/sec-api/pkg/edgar/filing"
	"github.com/cchummer/sec-api/pkg/edgar/holdings"
	"github.com/cchummer/sec-api/pkg/edgar/manifest"
	"github.com/cchummer/sec-api/pkg/edgar/pdftext"
	"github.com/cchummer/sec-api/pkg/edgar/sections"
	"github.com/cchummer/sec-api/pkg/edgar/store"
)

// Options configures a Pipeline instance
type Options struct {
	Fetcher        *fetch.Fetcher
	Sink           store.Sink
	ArchiveBaseURL string
	TargetTypes    []string
	Workers        int
}

// Pipeline processes daily filing batches
type Pipeline struct {
	fetcher     *fetch.Fetcher
	sink        store.Sink
	archiveBase string
	targetTypes []string
	workers     int
}

// New creates a Pipeline with the given dependencies
func New(opts Options) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		fetcher:     opts.Fetcher,
		sink:        opts.Sink,
		archiveBase: opts.ArchiveBaseURL,
		targetTypes: opts.TargetTypes,
		workers:     workers,
	}
}

// Summary reports the outcome of one day's run
type Summary struct {
	RunID   string
	Day     time.Time
	Fetched int
	Parsed  int
	Skipped int
}

// ProcessDay runs the full pipeline for one calendar day. It returns an
// error only when the daily manifest cannot be fetched or parsed, or the
// sink rejects a batch; per-filing failures are logged and counted as
// skipped.
func (p *Pipeline) ProcessDay(ctx context.Context, day time.Time) (Summary, error) {
	summary := Summary{RunID: ulid.Make().String(), Day: day}

	indexURL := manifest.DailyIndexURL(p.archiveBase, day)
	log.Printf("Run %s: fetching daily index %s", summary.RunID, indexURL)

	raw, err := p.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return summary, fmt.Errorf("fetching daily index for %s: %w", day.Format("2006-01-02"), err)
	}

	entries, err := manifest.Parse(raw, p.archiveBase)
	if err != nil {
		return summary, fmt.Errorf("parsing daily index for %s: %w", day.Format("2006-01-02"), err)
	}
	entries = manifest.Dedupe(entries)
	log.Printf("Run %s: %d unique filings in manifest", summary.RunID, len(entries))

	if err := p.sink.InsertManifest(ctx, day.Format("2006-01-02"), entries); err != nil {
		return summary, fmt.Errorf("recording manifest: %w", err)
	}

	for _, formType := range p.targetTypes {
		matched := manifest.FilterByType(entries, formType)
		if len(matched) == 0 {
			continue
		}
		log.Printf("Run %s: processing %d %s filings", summary.RunID, len(matched), formType)

		batch, fetched, skipped := p.processType(ctx, matched, formType)
		summary.Fetched += fetched
		summary.Skipped += skipped
		summary.Parsed += len(batch.Infos)

		if batch.Empty() {
			continue
		}
		if err := p.sink.InsertBatch(ctx, batch); err != nil {
			return summary, fmt.Errorf("handing %s batch to sink: %w", formType, err)
		}
	}

	log.Printf("Run %s: done, fetched=%d parsed=%d skipped=%d",
		summary.RunID, summary.Fetched, summary.Parsed, summary.Skipped)
	return summary, ctx.Err()
}

// processType parses all filings of one form type through a bounded
// worker pool and aggregates their records into a single batch.
func (p *Pipeline) processType(ctx context.Context, matched []manifest.Entry, formType string) (store.Batch, int, int) {
	var (
		mu      sync.Mutex
		agg     store.Batch
		fetched int
		skipped int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, entry := range matched {
		entry := entry
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			batch, didFetch, err := p.processFiling(ctx, entry, formType)

			mu.Lock()
			defer mu.Unlock()
			if didFetch {
				fetched++
			}
			if err != nil {
				log.Printf("Warning: skipping filing %s (%s): %v", entry.AccessionNumber, entry.FullTextURL, err)
				skipped++
				return nil
			}
			agg.Append(batch)
			return nil
		})
	}
	g.Wait()
	return agg, fetched, skipped
}

// processFiling turns one raw submission into a batch of records. The
// record sets produced depend on the filing's category. An extractor
// failure drops only its own record set; fetch or header failures drop
// the whole filing.
func (p *Pipeline) processFiling(ctx context.Context, entry manifest.Entry, formType string) (store.Batch, bool, error) {
	raw, err := p.fetcher.Fetch(ctx, entry.FullTextURL)
	if err != nil {
		return store.Batch{}, false, fmt.Errorf("fetching filing: %w", err)
	}

	info, err := filing.ParseHeader(raw)
	if err != nil {
		return store.Batch{}, true, fmt.Errorf("parsing header: %w", err)
	}
	docs := filing.Split(raw)
	accession := info.AccessionNumber

	batch := store.Batch{Infos: []filing.Info{info}}
	category := filing.Categorize(info.FormType)

	switch category {
	case filing.CategoryTidy:
		p.addNamedSections(&batch, accession, info.FormType, docs)
		batch.Exhibits = exhibits.Extract(accession, info.FormType, docs)
		batch.PdfSections = pdftext.Extract(accession, docs)

	case filing.CategoryBeneficialOwner:
		p.addNamedSections(&batch, accession, info.FormType, docs)
		if subject, err := filing.ParseSubjectCompany(raw, accession); err != nil {
			log.Printf("Warning: no subject company block in %s: %v", accession, err)
		} else {
			batch.SubjectCos = []filing.SubjectCompany{subject}
		}
		batch.Exhibits = exhibits.Extract(accession, info.FormType, docs)

	case filing.CategoryHoldingsReport:
		managers := p.addManagers(&batch, accession, info.FormType, docs)
		if holdingRows, err := holdings.ParseHoldings(accession, docs, managers); err != nil {
			log.Printf("Warning: failed to parse holdings of %s: %v", accession, err)
		} else {
			batch.Holdings = holdingRows
		}
		batch.Exhibits = exhibits.Extract(accession, info.FormType, docs)
		batch.PdfSections = pdftext.Extract(accession, docs)

	case filing.CategoryHoldingsNotice:
		p.addManagers(&batch, accession, info.FormType, docs)
		batch.Exhibits = exhibits.Extract(accession, info.FormType, docs)
		batch.PdfSections = pdftext.Extract(accession, docs)

	case filing.CategoryInsider:
		batch.Exhibits = exhibits.Extract(accession, info.FormType, docs)
		batch.PdfSections = pdftext.Extract(accession, docs)

	default:
		if doc, ok := filing.PrimaryDocument(docs, info.FormType, ".htm"); ok {
			batch.TOCSections = sections.ExtractTOC(accession, doc.Text)
		} else {
			log.Printf("Warning: no main HTML document found in %s filing %s", info.FormType, accession)
		}
		batch.Exhibits = exhibits.Extract(accession, info.FormType, docs)
		batch.PdfSections = pdftext.Extract(accession, docs)
	}

	return batch, true, nil
}

func (p *Pipeline) addNamedSections(batch *store.Batch, accession, formType string, docs []filing.EmbeddedDocument) {
	doc, ok := filing.PrimaryDocument(docs, formType, ".htm")
	if !ok {
		log.Printf("Warning: no main HTML document found in %s filing %s", formType, accession)
		return
	}
	batch.NamedSections = sections.ExtractNamed(accession, doc.Text, formType)
}

func (p *Pipeline) addManagers(batch *store.Batch, accession, formType string, docs []filing.EmbeddedDocument) []filing.HoldingsManager {
	managers, err := holdings.ParseManagers(accession, formType, docs)
	if err != nil {
		log.Printf("Warning: failed to parse managers of %s: %v", accession, err)
		return nil
	}
	batch.Managers = managers
	return managers
}
