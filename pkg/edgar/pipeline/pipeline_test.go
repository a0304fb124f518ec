package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cchummer/sec-api/pkg/edgar/fetch"
	"github.com/cchummer/sec-api/pkg/edgar/store/memstore"
)

const dailyIndex = `Daily Index of EDGAR Filings
CIK|Company Name|Form Type|Date Filed|File Name
--------------------
123|Acme Widgets Inc|8-K|20240115|edgar/data/123/0001234567-24-000001.txt
999|Bad Corp|8-K|20240115|edgar/data/999/0009999999-24-000001.txt
`

const sampleSubmission = `<SEC-DOCUMENT>0001234567-24-000001.txt : 20240115
<SEC-HEADER>0001234567-24-000001.hdr.sgml : 20240115
ACCESSION NUMBER:		0001234567-24-000001
CONFORMED SUBMISSION TYPE:	8-K
FILED AS OF DATE:		20240115

FILER:

	COMPANY DATA:
		COMPANY CONFORMED NAME:			ACME WIDGETS INC
		CENTRAL INDEX KEY:			0000000123

	FILING VALUES:
		FORM TYPE:		8-K
</SEC-HEADER>
<DOCUMENT>
<TYPE>8-K
<SEQUENCE>1
<FILENAME>main.htm
<TEXT>
<html><body>
<p>UNITED STATES SECURITIES AND EXCHANGE COMMISSION</p>
<p>Item 5.02 Departure of Directors</p>
<p>A director resigned.</p>
<p>Item 9.01 Financial Statements and Exhibits</p>
<p>See exhibit 99.1.</p>
</body></html>
</TEXT>
</DOCUMENT>
<DOCUMENT>
<TYPE>EX-99.1
<SEQUENCE>2
<FILENAME>press.htm
<TEXT>
<html><body><p>Press release text.</p></body></html>
</TEXT>
</DOCUMENT>
</SEC-DOCUMENT>
`

func newTestPipeline(t *testing.T) (*Pipeline, *memstore.Sink) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/Archives/edgar/daily-index/2024/QTR1/master.20240115.idx",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(dailyIndex))
		})
	mux.HandleFunc("/Archives/edgar/data/123/0001234567-24-000001.txt",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(sampleSubmission))
		})
	// Everything else, including Bad Corp's filing, 404s.
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	fetcher := fetch.New(fetch.Options{
		Limiter:     fetch.NewRateLimiter(100),
		MaxRetries:  1,
		BackoffBase: time.Millisecond,
	})
	sink := memstore.New()
	p := New(Options{
		Fetcher:        fetcher,
		Sink:           sink,
		ArchiveBaseURL: server.URL + "/Archives/",
		TargetTypes:    []string{"8-K"},
		Workers:        2,
	})
	return p, sink
}

func TestProcessDay(t *testing.T) {
	p, sink := newTestPipeline(t)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	summary, err := p.ProcessDay(context.Background(), day)
	if err != nil {
		t.Fatalf("ProcessDay failed: %v", err)
	}
	if summary.RunID == "" {
		t.Error("summary has no run ID")
	}
	if summary.Fetched != 1 {
		t.Errorf("fetched = %d, want 1", summary.Fetched)
	}
	if summary.Parsed != 1 {
		t.Errorf("parsed = %d, want 1", summary.Parsed)
	}
	if summary.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", summary.Skipped)
	}

	if entries := sink.ManifestFor("2024-01-15"); len(entries) != 2 {
		t.Errorf("manifest has %d entries, want 2", len(entries))
	}

	stored := sink.Stored()
	if len(stored.Infos) != 1 {
		t.Fatalf("stored %d filing records, want 1", len(stored.Infos))
	}
	info := stored.Infos[0]
	if info.AccessionNumber != "0001234567-24-000001" {
		t.Errorf("accession number = %q", info.AccessionNumber)
	}
	if info.FormType != "8-k" {
		t.Errorf("form type = %q", info.FormType)
	}
	if info.FiledDate != "20240115" {
		t.Errorf("filed date = %q", info.FiledDate)
	}
	if info.CompanyName != "ACME WIDGETS INC" {
		t.Errorf("company name = %q", info.CompanyName)
	}

	if len(stored.NamedSections) != 2 {
		t.Fatalf("stored %d named sections, want 2: %+v", len(stored.NamedSections), stored.NamedSections)
	}
	if stored.NamedSections[0].Name != "item 5.02" || stored.NamedSections[0].Text != "A director resigned." {
		t.Errorf("first section = %+v", stored.NamedSections[0])
	}

	if len(stored.Exhibits) != 1 || stored.Exhibits[0].ExhibitType != "EX-99.1" {
		t.Errorf("stored exhibits = %+v", stored.Exhibits)
	}
}

func TestProcessDay_Rerun(t *testing.T) {
	p, sink := newTestPipeline(t)
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if _, err := p.ProcessDay(ctx, day); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	summary, err := p.ProcessDay(ctx, day)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if summary.Parsed != 1 {
		t.Errorf("second run parsed = %d, want 1", summary.Parsed)
	}

	// The sink keys on natural identifiers, so a rerun stores nothing new.
	stored := sink.Stored()
	if len(stored.Infos) != 1 {
		t.Errorf("stored %d filing records after rerun, want 1", len(stored.Infos))
	}
	if len(stored.NamedSections) != 2 {
		t.Errorf("stored %d named sections after rerun, want 2", len(stored.NamedSections))
	}
	if entries := sink.ManifestFor("2024-01-15"); len(entries) != 2 {
		t.Errorf("manifest has %d entries after rerun, want 2", len(entries))
	}
}

func TestProcessDay_MissingIndexFails(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	p := New(Options{
		Fetcher: fetch.New(fetch.Options{
			Limiter:     fetch.NewRateLimiter(100),
			MaxRetries:  1,
			BackoffBase: time.Millisecond,
		}),
		Sink:           memstore.New(),
		ArchiveBaseURL: server.URL + "/Archives/",
		TargetTypes:    []string{"8-K"},
	})

	if _, err := p.ProcessDay(context.Background(), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Fatal("expected an error for a missing daily index")
	}
}
