// Package filing holds the record types produced from one submission and
// the parsers for its container format: the <DOCUMENT> splitter and the
// <SEC-HEADER> parser.
package filing

// EmbeddedDocument is one sub-document inside a submission
type EmbeddedDocument struct {
	Type        string
	Sequence    string
	Filename    string
	Description string
	Text        string
}

// NameChange is one former-company-name record from a header block
type NameChange struct {
	FormerName   string
	DateOfChange string // YYYYMMDD
}

// SICInfo is a decomposed Standard Industrial Classification code.
// Sentinel convention: when no SIC can be parsed, the code fields hold
// zero-coded strings ("0000", "0", "00", "000") and Desc stays empty.
type SICInfo struct {
	Code              string // 4-digit
	Desc              string
	DivisionCode      string // first digit
	MajorGroupCode    string // first two digits
	IndustryGroupCode string // first three digits
}

// ZeroSIC returns the sentinel SICInfo used when parsing fails
func ZeroSIC() SICInfo {
	return SICInfo{Code: "0000", DivisionCode: "0", MajorGroupCode: "00", IndustryGroupCode: "000"}
}

// Info is the per-submission header record. AccessionNumber, FormType
// and FiledDate are required; everything else degrades to empty values.
type Info struct {
	AccessionNumber string
	FormType        string // lower-cased
	FiledDate       string // YYYYMMDD
	CIK             string
	SIC             SICInfo
	CompanyName     string
	ReportPeriod    string
	StateOfIncorp   string
	FiscalYearEnd   string
	BusinessAddress string
	BusinessPhone   string
	NameChanges     []NameChange
}

// SubjectCompany is the subject block of a 13D/G header, distinct from
// the filer block.
type SubjectCompany struct {
	AccessionNumber string
	CompanyName     string
	CIK             string
	SIC             SICInfo
	OrgName         string
	SECFileNumber   string
	FilmNumber      string
	StateOfIncorp   string
	FiscalYearEnd   string
	BusinessAddress string
	BusinessPhone   string
	NameChanges     []NameChange
}

// Section is one named, TOC-derived or whole-document text section
type Section struct {
	AccessionNumber string
	Name            string // canonical key, e.g. "item 1a"
	Meaning         string // human label, optional
	Text            string
}

// Exhibit is one classified exhibit document
type Exhibit struct {
	AccessionNumber string
	ExhibitType     string // as declared, e.g. "EX-99.1"
	Meaning         string
	Text            string
}

// PdfMetadata carries document properties of an embedded PDF
type PdfMetadata struct {
	Title     string
	Author    string
	Creator   string
	Producer  string
	PageCount int
}

// PdfSection is one bookmarked span or single page of an embedded PDF.
// Pages are 1-based.
type PdfSection struct {
	AccessionNumber string
	Metadata        PdfMetadata
	StartPage       int
	EndPage         int
	Name            string // bookmark title, or "page"
	Text            string
}

// HoldingsManager is one row per (filing, reporting manager) of a
// holdings report. Filing-level fields repeat across rows. A filing with
// no other managers yields exactly one row with MgrSeq 0.
type HoldingsManager struct {
	AccessionNumber  string
	ReportQuarter    string
	IsAmendment      string
	AmendmentNo      string
	AmendmentType    string
	FilingMgrName    string
	FilingMgrAddr    string
	ReportType       string
	Form13FFileNum   string
	SECFileNum       string
	CRDNum           string
	InfoInstruction5 string
	SigName          string
	SigTitle         string
	SigPhone         string
	SigState         string
	SigDate          string
	OtherMgrsCount   string
	TableEntryTotal  string
	TableValueTotal  string

	MgrSeq        int
	MgrCIK        string
	Mgr13FFileNum string
	MgrSECFileNum string
	MgrCRDNum     string
	MgrName       string
}

// Holding is one issuer position row of a holdings report information
// table. EntrySeq is the position's index within the filing's table.
type Holding struct {
	AccessionNumber string
	EntrySeq        int
	Issuer          string
	HoldingClass    string
	CUSIP           string
	Value           string
	Amount          string
	AmtType         string
	Discretion      string
	SoleVote        string
	SharedVote      string
	NoVote          string
	FIGI            string
	OptionType      string
	ManagerRef      string // raw <otherManager> code
	ManagerName     string // resolved per the manager rows
}
