// Package manifest reads the archive's daily index: a banner, a
// separator line of dashes, then one pipe-delimited filing record per
// line.
package manifest

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/cchummer/sec-api/pkg/edgar/internalerr"
)

// Entry is one filing reference from the daily index
type Entry struct {
	CIK             string // zero-padded to 10 digits
	CompanyName     string
	FormType        string
	FiledDate       string // YYYYMMDD
	FullTextURL     string
	AccessionNumber string
}

var accessionRe = regexp.MustCompile(`/(\d{10}-\d{2}-\d{6})\.txt`)

// DailyIndexURL builds the path to the master index for a calendar day:
// .../edgar/daily-index/{year}/QTR{q}/master.YYYYMMDD.idx
func DailyIndexURL(archiveBase string, day time.Time) string {
	quarter := (int(day.Month())-1)/3 + 1
	return fmt.Sprintf("%sedgar/daily-index/%d/QTR%d/master.%04d%02d%02d.idx",
		archiveBase, day.Year(), quarter, day.Year(), int(day.Month()), day.Day())
}

// Parse reads the raw daily index text into entries. Malformed lines are
// logged and skipped; an index yielding zero entries is an error.
func Parse(raw, archiveBase string) ([]Entry, error) {
	body := raw
	if idx := separatorEnd(raw); idx >= 0 {
		body = raw[idx:]
	}

	var entries []Entry
	for i, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// CIK|Company Name|Form Type|Date Filed|Filename
		columns := strings.Split(line, "|")
		if len(columns) != 5 {
			log.Printf("Warning: index line %d does not have 5 columns, skipping: %q", i+1, line)
			continue
		}

		entry := Entry{
			CIK:         zeroPadCIK(strings.TrimSpace(columns[0])),
			CompanyName: strings.TrimSpace(columns[1]),
			FormType:    strings.TrimSpace(columns[2]),
			FiledDate:   strings.TrimSpace(columns[3]),
			FullTextURL: archiveBase + strings.TrimSpace(columns[4]),
		}

		m := accessionRe.FindStringSubmatch(entry.FullTextURL)
		if m == nil {
			log.Printf("Warning: no accession number in index path, skipping: %q", columns[4])
			continue
		}
		entry.AccessionNumber = m[1]
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, internalerr.ErrNoManifest
	}
	return entries, nil
}

// Dedupe removes entries sharing an accession number, keeping the first
// occurrence in index order.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if _, ok := seen[e.AccessionNumber]; ok {
			continue
		}
		seen[e.AccessionNumber] = struct{}{}
		out = append(out, e)
	}
	return out
}

// FilterByType returns entries whose form type matches (case-insensitive)
func FilterByType(entries []Entry, formType string) []Entry {
	var out []Entry
	for _, e := range entries {
		if strings.EqualFold(e.FormType, formType) {
			out = append(out, e)
		}
	}
	return out
}

// separatorEnd locates the end of the dash separator line below the
// banner, or -1 when absent.
func separatorEnd(raw string) int {
	offset := 0
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= 10 && strings.Count(trimmed, "-") == len(trimmed) {
			return offset + len(line) + 1
		}
		offset += len(line) + 1
	}
	return -1
}

func zeroPadCIK(cik string) string {
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}
