package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/cchummer/sec-api/pkg/edgar/manifest"
	"github.com/cchummer/sec-api/pkg/edgar/store"
)

// Sink is an in-memory implementation of store.Sink for tests.
type Sink struct {
	mu       sync.RWMutex
	manifest map[string][]manifest.Entry
	batch    store.Batch
	keys     map[string]bool
	embedded map[string]bool
}

// New creates a new in-memory sink.
func New() *Sink {
	return &Sink{
		manifest: make(map[string][]manifest.Entry),
		keys:     make(map[string]bool),
		embedded: make(map[string]bool),
	}
}

// Close implements store.Sink.
func (s *Sink) Close() error { return nil }

// InsertManifest records manifest entries for a day, skipping
// accession numbers already recorded for it.
func (s *Sink) InsertManifest(ctx context.Context, day string, entries []manifest.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		key := "manifest|" + day + "|" + e.AccessionNumber
		if s.keys[key] {
			continue
		}
		s.keys[key] = true
		s.manifest[day] = append(s.manifest[day], e)
	}
	return nil
}

// InsertBatch appends the batch's records, dropping rows whose natural
// key was inserted before.
func (s *Sink) InsertBatch(ctx context.Context, b store.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, info := range b.Infos {
		if s.insertKey("info|" + info.AccessionNumber) {
			s.batch.Infos = append(s.batch.Infos, info)
		}
	}
	for _, section := range b.NamedSections {
		if s.insertKey("named|" + section.AccessionNumber + "|" + section.Name) {
			s.batch.NamedSections = append(s.batch.NamedSections, section)
		}
	}
	for _, section := range b.TOCSections {
		if s.insertKey("toc|" + section.AccessionNumber + "|" + section.Name) {
			s.batch.TOCSections = append(s.batch.TOCSections, section)
		}
	}
	for _, subject := range b.SubjectCos {
		if s.insertKey("subject|" + subject.AccessionNumber) {
			s.batch.SubjectCos = append(s.batch.SubjectCos, subject)
		}
	}
	for _, exhibit := range b.Exhibits {
		if s.insertKey("exhibit|" + exhibit.AccessionNumber + "|" + exhibit.ExhibitType) {
			s.batch.Exhibits = append(s.batch.Exhibits, exhibit)
		}
	}
	for _, section := range b.PdfSections {
		if s.insertKey(fmt.Sprintf("pdf|%s|%s|%d", section.AccessionNumber, section.Name, section.StartPage)) {
			s.batch.PdfSections = append(s.batch.PdfSections, section)
		}
	}
	for _, mgr := range b.Managers {
		if s.insertKey(fmt.Sprintf("mgr|%s|%d", mgr.AccessionNumber, mgr.MgrSeq)) {
			s.batch.Managers = append(s.batch.Managers, mgr)
		}
	}
	for _, h := range b.Holdings {
		if s.insertKey(fmt.Sprintf("holding|%s|%d", h.AccessionNumber, h.EntrySeq)) {
			s.batch.Holdings = append(s.batch.Holdings, h)
		}
	}
	return nil
}

func (s *Sink) insertKey(key string) bool {
	if s.keys[key] {
		return false
	}
	s.keys[key] = true
	return true
}

// UnembeddedTextRows returns stored text rows not yet marked embedded.
// Row ids are synthetic per-slice indexes.
func (s *Sink) UnembeddedTextRows(ctx context.Context, limit int) ([]store.TextRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []store.TextRow
	add := func(table string, id int64, accession, name, text string) {
		if limit > 0 && len(rows) >= limit {
			return
		}
		if text == "" || s.embedded[fmt.Sprintf("%s|%d", table, id)] {
			return
		}
		rows = append(rows, store.TextRow{Table: table, ID: id, AccessionNumber: accession, Name: name, Text: text})
	}

	for i, section := range s.batch.NamedSections {
		add(store.TableNamedSections, int64(i+1), section.AccessionNumber, section.Name, section.Text)
	}
	for i, section := range s.batch.TOCSections {
		add(store.TableTOCSections, int64(i+1), section.AccessionNumber, section.Name, section.Text)
	}
	for i, exhibit := range s.batch.Exhibits {
		add(store.TableExhibits, int64(i+1), exhibit.AccessionNumber, exhibit.ExhibitType, exhibit.Text)
	}
	for i, section := range s.batch.PdfSections {
		add(store.TablePdfSections, int64(i+1), section.AccessionNumber, section.Name, section.Text)
	}
	return rows, nil
}

// MarkEmbedded flags rows as embedded.
func (s *Sink) MarkEmbedded(ctx context.Context, table string, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		s.embedded[fmt.Sprintf("%s|%d", table, id)] = true
	}
	return nil
}

// Stored returns a copy of everything inserted so far, for assertions.
func (s *Sink) Stored() store.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out store.Batch
	out.Append(s.batch)
	return out
}

// ManifestFor returns the manifest entries recorded for a day.
func (s *Sink) ManifestFor(day string) []manifest.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]manifest.Entry(nil), s.manifest[day]...)
}
