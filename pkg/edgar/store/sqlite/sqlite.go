package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
	"github.com/cchummer/sec-api/pkg/edgar/manifest"
	"github.com/cchummer/sec-api/pkg/edgar/store"
)

// sqliteSink implements the Sink interface using SQLite
type sqliteSink struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func Open(ctx context.Context, path string) (store.Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteSink{db: db}, nil
}

// Close closes the database connection
func (s *sqliteSink) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS manifest_entries (
	day TEXT NOT NULL,
	cik TEXT,
	company_name TEXT,
	form_type TEXT,
	filed_date TEXT,
	full_text_url TEXT,
	accession_number TEXT NOT NULL,
	UNIQUE(day, accession_number)
);

CREATE TABLE IF NOT EXISTS filing_info (
	accession_number TEXT PRIMARY KEY,
	form_type TEXT,
	filed_date TEXT,
	cik TEXT,
	company_name TEXT,
	report_period TEXT,
	sic_code TEXT,
	sic_desc TEXT,
	sic_division TEXT,
	sic_major_group TEXT,
	sic_industry_group TEXT,
	state_of_incorp TEXT,
	fiscal_yr_end TEXT,
	business_address TEXT,
	business_phone TEXT,
	name_changes TEXT
);

CREATE TABLE IF NOT EXISTS named_sections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	accession_number TEXT NOT NULL,
	section_name TEXT NOT NULL,
	section_meaning TEXT,
	text TEXT,
	embedded INTEGER DEFAULT 0,
	UNIQUE(accession_number, section_name)
);

CREATE TABLE IF NOT EXISTS toc_sections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	accession_number TEXT NOT NULL,
	section_name TEXT NOT NULL,
	section_meaning TEXT,
	text TEXT,
	embedded INTEGER DEFAULT 0,
	UNIQUE(accession_number, section_name)
);

CREATE TABLE IF NOT EXISTS subject_cos (
	accession_number TEXT PRIMARY KEY,
	company_name TEXT,
	cik TEXT,
	sic_code TEXT,
	sic_desc TEXT,
	org_name TEXT,
	sec_file_num TEXT,
	film_num TEXT,
	state_of_incorp TEXT,
	fiscal_yr_end TEXT,
	business_address TEXT,
	business_phone TEXT,
	name_changes TEXT
);

CREATE TABLE IF NOT EXISTS exhibits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	accession_number TEXT NOT NULL,
	exhibit_type TEXT NOT NULL,
	exhibit_meaning TEXT,
	text TEXT,
	embedded INTEGER DEFAULT 0,
	UNIQUE(accession_number, exhibit_type)
);

CREATE TABLE IF NOT EXISTS pdf_sections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	accession_number TEXT NOT NULL,
	section_name TEXT NOT NULL,
	start_page INTEGER,
	end_page INTEGER,
	pdf_title TEXT,
	pdf_author TEXT,
	pdf_creator TEXT,
	pdf_producer TEXT,
	page_count INTEGER,
	text TEXT,
	embedded INTEGER DEFAULT 0,
	UNIQUE(accession_number, section_name, start_page)
);

CREATE TABLE IF NOT EXISTS hr_managers (
	accession_number TEXT NOT NULL,
	mgr_seq INTEGER NOT NULL,
	report_yr_quarter TEXT,
	is_amendment TEXT,
	amendment_no TEXT,
	amendment_type TEXT,
	filing_mgr_name TEXT,
	filing_mgr_addr TEXT,
	report_type TEXT,
	form13f_filenum TEXT,
	sec_filenum TEXT,
	crd_num TEXT,
	info_instruction5 TEXT,
	sig_name TEXT,
	sig_title TEXT,
	sig_phone TEXT,
	sig_state TEXT,
	sig_date TEXT,
	other_mgrs_count TEXT,
	it_entries_count TEXT,
	it_value_total TEXT,
	mgr_cik TEXT,
	mgr_13f_filenum TEXT,
	mgr_sec_filenum TEXT,
	mgr_crd_num TEXT,
	mgr_name TEXT,
	PRIMARY KEY(accession_number, mgr_seq)
);

CREATE TABLE IF NOT EXISTS holdings (
	accession_number TEXT NOT NULL,
	entry_seq INTEGER NOT NULL,
	issuer TEXT,
	holding_class TEXT,
	cusip TEXT,
	value TEXT,
	amount TEXT,
	amt_type TEXT,
	discretion TEXT,
	sole_vote TEXT,
	shared_vote TEXT,
	no_vote TEXT,
	figi TEXT,
	option_type TEXT,
	other_mgr TEXT,
	manager_name TEXT,
	PRIMARY KEY(accession_number, entry_seq)
);

CREATE INDEX IF NOT EXISTS idx_filing_info_form_type ON filing_info(form_type);
CREATE INDEX IF NOT EXISTS idx_holdings_cusip ON holdings(cusip);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// InsertManifest records the day's manifest entries for auditability
func (s *sqliteSink) InsertManifest(ctx context.Context, day string, entries []manifest.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO manifest_entries
			(day, cik, company_name, form_type, filed_date, full_text_url, accession_number)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			day, e.CIK, e.CompanyName, e.FormType, e.FiledDate, e.FullTextURL, e.AccessionNumber)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// InsertBatch writes every record of the batch in one transaction.
// All inserts are INSERT OR IGNORE keyed on natural uniqueness, so
// re-running a day is idempotent.
func (s *sqliteSink) InsertBatch(ctx context.Context, b store.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, info := range b.Infos {
		if err := insertInfo(ctx, tx, info); err != nil {
			return fmt.Errorf("inserting filing info %s: %w", info.AccessionNumber, err)
		}
	}
	for _, section := range b.NamedSections {
		if err := insertSection(ctx, tx, "named_sections", section); err != nil {
			return fmt.Errorf("inserting named section: %w", err)
		}
	}
	for _, section := range b.TOCSections {
		if err := insertSection(ctx, tx, "toc_sections", section); err != nil {
			return fmt.Errorf("inserting toc section: %w", err)
		}
	}
	for _, subject := range b.SubjectCos {
		if err := insertSubject(ctx, tx, subject); err != nil {
			return fmt.Errorf("inserting subject company: %w", err)
		}
	}
	for _, exhibit := range b.Exhibits {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO exhibits
			(accession_number, exhibit_type, exhibit_meaning, text)
			VALUES (?, ?, ?, ?)`,
			exhibit.AccessionNumber, exhibit.ExhibitType, exhibit.Meaning, exhibit.Text)
		if err != nil {
			return fmt.Errorf("inserting exhibit: %w", err)
		}
	}
	for _, section := range b.PdfSections {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO pdf_sections
			(accession_number, section_name, start_page, end_page, pdf_title, pdf_author, pdf_creator, pdf_producer, page_count, text)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			section.AccessionNumber, section.Name, section.StartPage, section.EndPage,
			section.Metadata.Title, section.Metadata.Author, section.Metadata.Creator,
			section.Metadata.Producer, section.Metadata.PageCount, section.Text)
		if err != nil {
			return fmt.Errorf("inserting pdf section: %w", err)
		}
	}
	for _, mgr := range b.Managers {
		if err := insertManager(ctx, tx, mgr); err != nil {
			return fmt.Errorf("inserting holdings manager: %w", err)
		}
	}
	for _, h := range b.Holdings {
		_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO holdings
			(accession_number, entry_seq, issuer, holding_class, cusip, value, amount, amt_type,
			discretion, sole_vote, shared_vote, no_vote, figi, option_type, other_mgr, manager_name)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.AccessionNumber, h.EntrySeq, h.Issuer, h.HoldingClass, h.CUSIP, h.Value,
			h.Amount, h.AmtType, h.Discretion, h.SoleVote, h.SharedVote, h.NoVote,
			h.FIGI, h.OptionType, h.ManagerRef, h.ManagerName)
		if err != nil {
			return fmt.Errorf("inserting holding: %w", err)
		}
	}

	return tx.Commit()
}

func insertInfo(ctx context.Context, tx *sql.Tx, info filing.Info) error {
	changes, err := json.Marshal(info.NameChanges)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO filing_info
		(accession_number, form_type, filed_date, cik, company_name, report_period,
		sic_code, sic_desc, sic_division, sic_major_group, sic_industry_group,
		state_of_incorp, fiscal_yr_end, business_address, business_phone, name_changes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		info.AccessionNumber, info.FormType, info.FiledDate, info.CIK, info.CompanyName,
		info.ReportPeriod, info.SIC.Code, info.SIC.Desc, info.SIC.DivisionCode,
		info.SIC.MajorGroupCode, info.SIC.IndustryGroupCode, info.StateOfIncorp,
		info.FiscalYearEnd, info.BusinessAddress, info.BusinessPhone, string(changes))
	return err
}

func insertSection(ctx context.Context, tx *sql.Tx, table string, section filing.Section) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO `+table+`
		(accession_number, section_name, section_meaning, text)
		VALUES (?, ?, ?, ?)`,
		section.AccessionNumber, section.Name, section.Meaning, section.Text)
	return err
}

func insertSubject(ctx context.Context, tx *sql.Tx, subject filing.SubjectCompany) error {
	changes, err := json.Marshal(subject.NameChanges)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO subject_cos
		(accession_number, company_name, cik, sic_code, sic_desc, org_name, sec_file_num,
		film_num, state_of_incorp, fiscal_yr_end, business_address, business_phone, name_changes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		subject.AccessionNumber, subject.CompanyName, subject.CIK, subject.SIC.Code,
		subject.SIC.Desc, subject.OrgName, subject.SECFileNumber, subject.FilmNumber,
		subject.StateOfIncorp, subject.FiscalYearEnd, subject.BusinessAddress,
		subject.BusinessPhone, string(changes))
	return err
}

func insertManager(ctx context.Context, tx *sql.Tx, mgr filing.HoldingsManager) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO hr_managers
		(accession_number, mgr_seq, report_yr_quarter, is_amendment, amendment_no, amendment_type,
		filing_mgr_name, filing_mgr_addr, report_type, form13f_filenum, sec_filenum, crd_num,
		info_instruction5, sig_name, sig_title, sig_phone, sig_state, sig_date,
		other_mgrs_count, it_entries_count, it_value_total,
		mgr_cik, mgr_13f_filenum, mgr_sec_filenum, mgr_crd_num, mgr_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mgr.AccessionNumber, mgr.MgrSeq, mgr.ReportQuarter, mgr.IsAmendment, mgr.AmendmentNo,
		mgr.AmendmentType, mgr.FilingMgrName, mgr.FilingMgrAddr, mgr.ReportType,
		mgr.Form13FFileNum, mgr.SECFileNum, mgr.CRDNum, mgr.InfoInstruction5,
		mgr.SigName, mgr.SigTitle, mgr.SigPhone, mgr.SigState, mgr.SigDate,
		mgr.OtherMgrsCount, mgr.TableEntryTotal, mgr.TableValueTotal,
		mgr.MgrCIK, mgr.Mgr13FFileNum, mgr.MgrSECFileNum, mgr.MgrCRDNum, mgr.MgrName)
	return err
}

// UnembeddedTextRows returns up to limit text rows not yet marked as
// embedded, across every text-bearing table.
func (s *sqliteSink) UnembeddedTextRows(ctx context.Context, limit int) ([]store.TextRow, error) {
	var rows []store.TextRow
	for _, table := range []string{store.TableNamedSections, store.TableTOCSections, store.TableExhibits, store.TablePdfSections} {
		if limit > 0 && len(rows) >= limit {
			break
		}
		remaining := -1
		if limit > 0 {
			remaining = limit - len(rows)
		}

		nameCol := "section_name"
		if table == store.TableExhibits {
			nameCol = "exhibit_type"
		}
		query := fmt.Sprintf(
			"SELECT id, accession_number, %s, text FROM %s WHERE embedded = 0 AND text != '' LIMIT ?",
			nameCol, table)

		result, err := s.db.QueryContext(ctx, query, remaining)
		if err != nil {
			return nil, err
		}
		for result.Next() {
			row := store.TextRow{Table: table}
			if err := result.Scan(&row.ID, &row.AccessionNumber, &row.Name, &row.Text); err != nil {
				result.Close()
				return nil, err
			}
			rows = append(rows, row)
		}
		if err := result.Err(); err != nil {
			result.Close()
			return nil, err
		}
		result.Close()
	}
	return rows, nil
}

// MarkEmbedded flags rows of one table as embedded
func (s *sqliteSink) MarkEmbedded(ctx context.Context, table string, ids []int64) error {
	switch table {
	case store.TableNamedSections, store.TableTOCSections, store.TableExhibits, store.TablePdfSections:
	default:
		return fmt.Errorf("unknown text table %q", table)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "UPDATE "+table+" SET embedded = 1 WHERE id = ?", id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
