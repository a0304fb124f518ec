package filing

import (
	"errors"
	"testing"

	"github.com/cchummer/sec-api/pkg/edgar/internalerr"
)

const sample10KHeader = `<SEC-HEADER>0001234567-24-000001.hdr.sgml : 20240115
ACCESSION NUMBER:		0001234567-24-000001
CONFORMED SUBMISSION TYPE:	10-K
PUBLIC DOCUMENT COUNT:		12
CONFORMED PERIOD OF REPORT:	20231231
FILED AS OF DATE:		20240115
DATE AS OF CHANGE:		20240115

FILER:

	COMPANY DATA:
		COMPANY CONFORMED NAME:			ACME WIDGETS INC
		CENTRAL INDEX KEY:			0000000123
		STANDARD INDUSTRIAL CLASSIFICATION:	INDUSTRIAL MACHINERY [3550]
		STATE OF INCORPORATION:			DE
		FISCAL YEAR END:			1231

	FILING VALUES:
		FORM TYPE:		10-K
		SEC ACT:		1934 Act

	BUSINESS ADDRESS:
		STREET 1:		1 MAIN ST
		STREET 2:		SUITE 400
		CITY:			SPRINGFIELD
		STATE:			IL
		ZIP:			62701
		BUSINESS PHONE:		555-0100

	MAIL ADDRESS:
		STREET 1:		PO BOX 99
		CITY:			SPRINGFIELD
		STATE:			IL
		ZIP:			62701

	FORMER COMPANY:
		FORMER CONFORMED NAME:	ACME HOLDINGS CORP
		DATE OF NAME CHANGE:	20190301
</SEC-HEADER>
`

const sample13DHeader = `<SEC-HEADER>0009876543-24-000002.hdr.sgml : 20240116
ACCESSION NUMBER:		0009876543-24-000002
CONFORMED SUBMISSION TYPE:	SC 13D
FILED AS OF DATE:		20240116

SUBJECT COMPANY:

	COMPANY DATA:
		COMPANY CONFORMED NAME:			TARGET RETAIL CORP
		CENTRAL INDEX KEY:			0000000456
		STANDARD INDUSTRIAL CLASSIFICATION:	RETAIL STORES [5331]

	FILING VALUES:
		FORM TYPE:		SC 13D
		SEC FILE NUMBER:	005-12345
		FILM NUMBER:		24123456

FILED BY:

	COMPANY DATA:
		COMPANY CONFORMED NAME:			ACTIVIST FUND LP
		CENTRAL INDEX KEY:			0000000789
</SEC-HEADER>
`

func TestParseHeader(t *testing.T) {
	info, err := ParseHeader(sample10KHeader)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}

	if info.AccessionNumber != "0001234567-24-000001" {
		t.Errorf("accession number = %q", info.AccessionNumber)
	}
	if info.FormType != "10-k" {
		t.Errorf("form type = %q, want lower-cased %q", info.FormType, "10-k")
	}
	if info.FiledDate != "20240115" {
		t.Errorf("filed date = %q", info.FiledDate)
	}
	if info.ReportPeriod != "20231231" {
		t.Errorf("report period = %q", info.ReportPeriod)
	}
	if info.CompanyName != "ACME WIDGETS INC" {
		t.Errorf("company name = %q", info.CompanyName)
	}
	if info.CIK != "0000000123" {
		t.Errorf("cik = %q", info.CIK)
	}
	if info.StateOfIncorp != "DE" {
		t.Errorf("state of incorporation = %q", info.StateOfIncorp)
	}
	if info.FiscalYearEnd != "1231" {
		t.Errorf("fiscal year end = %q", info.FiscalYearEnd)
	}
	if info.BusinessPhone != "555-0100" {
		t.Errorf("business phone = %q", info.BusinessPhone)
	}

	wantSIC := SICInfo{
		Code:              "3550",
		Desc:              "INDUSTRIAL MACHINERY",
		DivisionCode:      "3",
		MajorGroupCode:    "35",
		IndustryGroupCode: "355",
	}
	if info.SIC != wantSIC {
		t.Errorf("sic = %+v, want %+v", info.SIC, wantSIC)
	}

	wantAddr := "1 MAIN ST, SUITE 400, SPRINGFIELD, IL, 62701"
	if info.BusinessAddress != wantAddr {
		t.Errorf("business address = %q, want %q", info.BusinessAddress, wantAddr)
	}

	if len(info.NameChanges) != 1 {
		t.Fatalf("name changes = %+v, want one entry", info.NameChanges)
	}
	if info.NameChanges[0].FormerName != "ACME HOLDINGS CORP" || info.NameChanges[0].DateOfChange != "20190301" {
		t.Errorf("name change = %+v", info.NameChanges[0])
	}
}

func TestParseHeader_FilerMarkerScoping(t *testing.T) {
	// Company fields on a 13D must come from the FILED BY block, not
	// the subject company block that precedes it.
	info, err := ParseHeader(sample13DHeader)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if info.CompanyName != "ACTIVIST FUND LP" {
		t.Errorf("company name = %q, want the filed-by company", info.CompanyName)
	}
	if info.CIK != "0000000789" {
		t.Errorf("cik = %q, want the filed-by CIK", info.CIK)
	}
	if info.SIC != ZeroSIC() {
		t.Errorf("sic = %+v, want zero sentinel for a filer block without SIC", info.SIC)
	}
}

func TestParseHeader_MissingRequiredField(t *testing.T) {
	raw := `<SEC-HEADER>
ACCESSION NUMBER:		0001234567-24-000003
CONFORMED SUBMISSION TYPE:	8-K
FORM TYPE:		8-K
</SEC-HEADER>
`
	info, err := ParseHeader(raw)
	if !errors.Is(err, internalerr.ErrMissingField) {
		t.Fatalf("error = %v, want ErrMissingField", err)
	}
	// The partial record is still returned for diagnostics.
	if info.AccessionNumber != "0001234567-24-000003" {
		t.Errorf("partial accession number = %q", info.AccessionNumber)
	}
}

func TestParseHeader_NoHeaderBlock(t *testing.T) {
	_, err := ParseHeader("<html><body>not a submission</body></html>")
	if !errors.Is(err, internalerr.ErrNoHeader) {
		t.Fatalf("error = %v, want ErrNoHeader", err)
	}
}

func TestParseSubjectCompany(t *testing.T) {
	subject, err := ParseSubjectCompany(sample13DHeader, "0009876543-24-000002")
	if err != nil {
		t.Fatalf("ParseSubjectCompany failed: %v", err)
	}
	if subject.AccessionNumber != "0009876543-24-000002" {
		t.Errorf("accession number = %q", subject.AccessionNumber)
	}
	if subject.CompanyName != "TARGET RETAIL CORP" {
		t.Errorf("company name = %q", subject.CompanyName)
	}
	if subject.CIK != "0000000456" {
		t.Errorf("cik = %q", subject.CIK)
	}
	if subject.SECFileNumber != "005-12345" {
		t.Errorf("sec file number = %q", subject.SECFileNumber)
	}
	if subject.FilmNumber != "24123456" {
		t.Errorf("film number = %q", subject.FilmNumber)
	}
	if subject.SIC.Code != "5331" {
		t.Errorf("sic code = %q", subject.SIC.Code)
	}
}

func TestParseSubjectCompany_Missing(t *testing.T) {
	_, err := ParseSubjectCompany(sample10KHeader, "0001234567-24-000001")
	if !errors.Is(err, internalerr.ErrMissingField) {
		t.Fatalf("error = %v, want ErrMissingField", err)
	}
}
