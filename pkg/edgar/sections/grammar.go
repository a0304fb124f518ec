package sections

import (
	"regexp"
	"strings"
)

// WholeDocSection is the section name used when a document is recorded
// as a single undivided unit.
const WholeDocSection = "html_whole_doc"

// grammar describes how one tidy filing category names its sections: the
// vocabulary of expected headers, the header boundary pattern over
// normalized text, and the pattern that reduces a matched header line to
// its canonical key.
type grammar struct {
	known     map[string]bool
	meanings  map[string]string
	boundary  *regexp.Regexp
	canonical *regexp.Regexp
	useParts  bool
}

var headers10K = []string{
	"Item 1", "Item 1A", "Item 1B", "Item 2", "Item 3", "Item 4",
	"Item 5", "Item 6", "Item 7", "Item 7A", "Item 8", "Item 9",
	"Item 9A", "Item 9B", "Item 10", "Item 11", "Item 12", "Item 13",
	"Item 14", "Item 15", WholeDocSection,
}

var headers10Q = []string{
	"Part I Item 1", "Part I Item 2", "Part I Item 3", "Part I Item 4",
	"Part II Item 1", "Part II Item 1A", "Part II Item 2", "Part II Item 3",
	"Part II Item 4", "Part II Item 5", "Part II Item 6", WholeDocSection,
}

var headers8K = []string{
	"Item 1.01", "Item 1.02", "Item 1.03", "Item 1.04",
	"Item 2.01", "Item 2.02", "Item 2.03", "Item 2.04", "Item 2.05", "Item 2.06",
	"Item 3.01", "Item 3.02", "Item 3.03",
	"Item 4.01", "Item 4.02",
	"Item 5.01", "Item 5.02", "Item 5.03", "Item 5.04", "Item 5.05", "Item 5.06", "Item 5.07", "Item 5.08",
	"Item 6.01", "Item 6.02", "Item 6.03", "Item 6.04", "Item 6.05",
	"Item 7.01",
	"Item 8.01",
	"Item 9.01", WholeDocSection,
}

// The S-1/S-3 outline is a fixed prospectus vocabulary rather than
// numbered items.
var headersS1 = []string{
	"ABOUT THIS PROSPECTUS",
	"PROSPECTUS SUMMARY",
	"THE OFFERING",
	"SUMMARY CONSOLIDATED FINANCIAL DATA",
	"RISK FACTORS",
	"CAUTIONARY NOTE REGARDING FORWARD-LOOKING STATEMENTS",
	"USE OF PROCEEDS",
	"DIVIDEND POLICY",
	"MARKET PRICE INFORMATION",
	"MARKET INFORMATION AND DIVIDEND POLICY",
	"CAPITALIZATION",
	"DILUTION",
	"SELECTED FINANCIAL DATA",
	"MANAGEMENT’S DISCUSSION AND ANALYSIS OF FINANCIAL CONDITION AND RESULTS OF OPERATIONS",
	"BUSINESS",
	"INDUSTRY OVERVIEW",
	"COMPETITIVE STRENGTHS",
	"GROWTH STRATEGY",
	"REGULATION",
	"MANAGEMENT",
	"EXECUTIVE COMPENSATION",
	"CERTAIN RELATIONSHIPS AND RELATED PARTY TRANSACTIONS",
	"PRINCIPAL AND SELLING STOCKHOLDERS",
	"BENEFICIAL OWNERSHIP OF COMMON STOCK",
	"DESCRIPTION OF CAPITAL STOCK",
	"PLAN OF DISTRIBUTION",
	"SHARES ELIGIBLE FOR FUTURE SALE",
	"MATERIAL UNITED STATES FEDERAL INCOME TAX CONSIDERATIONS",
	"LEGAL MATTERS",
	"EXPERTS",
	"INDEMNIFICATION OF DIRECTORS AND OFFICERS",
	"DISCLOSURE OF COMMISSION POSITION ON INDEMNIFICATION FOR SECURITIES ACT LIABILITIES",
	"INCORPORATION OF CERTAIN INFORMATION BY REFERENCE",
	"WHERE YOU CAN FIND MORE INFORMATION",
	"ADDITIONAL INFORMATION",
	"INDEX TO FINANCIAL STATEMENTS",
	"FINANCIAL STATEMENTS",
	WholeDocSection,
}

var headers13D = []string{
	"Item 1", "Item 2", "Item 3", "Item 4",
	"Item 5", "Item 6", "Item 7", WholeDocSection,
}

var headers13G = []string{
	"Item 1", "Item 1(a)", "Item 1(b)",
	"Item 2", "Item 2(a)", "Item 2(b)", "Item 2(c)", "Item 2(d)", "Item 2(e)",
	"Item 3", "Item 4", "Item 5", "Item 6",
	"Item 7", "Item 8", "Item 9", "Item 10", WholeDocSection,
}

var meanings10K = map[string]string{
	"item 1":  "Business",
	"item 1a": "Risk Factors",
	"item 1b": "Unresolved Staff Comments",
	"item 2":  "Properties",
	"item 3":  "Legal Proceedings",
	"item 4":  "Mine Safety Disclosures",
	"item 5":  "Market for Registrant’s Common Equity, Related Stockholder Matters and Issuer Purchases of Equity Securities",
	"item 6":  "Selected Financial Data",
	"item 7":  "Management’s Discussion and Analysis of Financial Condition and Results of Operations",
	"item 7a": "Quantitative and Qualitative Disclosures about Market Risk",
	"item 8":  "Financial Statements and Supplementary Data",
	"item 9":  "Changes in and Disagreements with Accountants on Accounting and Financial Disclosure",
	"item 9a": "Controls and Procedures",
	"item 9b": "Other Information",
	"item 10": "Directors, Executive Officers and Corporate Governance",
	"item 11": "Executive Compensation",
	"item 12": "Security Ownership of Certain Beneficial Owners and Management and Related Stockholder Matters",
	"item 13": "Certain Relationships and Related Transactions, and Director Independence",
	"item 14": "Principal Accountant Fees and Services",
	"item 15": "Exhibits, Financial Statement Schedules",
}

var meanings10Q = map[string]string{
	"part i item 1":   "Financial Statements",
	"part i item 2":   "Management’s Discussion and Analysis of Financial Condition and Results of Operations",
	"part i item 3":   "Quantitative and Qualitative Disclosures About Market Risk",
	"part i item 4":   "Controls and Procedures",
	"part ii item 1":  "Legal Proceedings",
	"part ii item 1a": "Risk Factors",
	"part ii item 2":  "Unregistered Sales of Equity Securities and Use of Proceeds",
	"part ii item 3":  "Defaults Upon Senior Securities",
	"part ii item 4":  "Mine Safety Disclosures",
	"part ii item 5":  "Other Information",
	"part ii item 6":  "Exhibits",
}

var meanings8K = map[string]string{
	"item 1.01": "Entry into a Material Definitive Agreement",
	"item 1.02": "Termination of a Material Definitive Agreement",
	"item 1.03": "Bankruptcy or Receivership",
	"item 1.04": "Mine Safety - Reporting of Shutdowns and Patterns of Violations",
	"item 2.01": "Completion of Acquisition or Disposition of Assets",
	"item 2.02": "Results of Operations and Financial Condition",
	"item 2.03": "Creation of a Direct Financial Obligation or an Obligation under an Off-Balance Sheet Arrangement of a Registrant",
	"item 2.04": "Triggering Events That Accelerate or Increase a Direct Financial Obligation or an Obligation under an Off-Balance Sheet Arrangement",
	"item 2.05": "Costs Associated with Exit or Disposal Activities",
	"item 2.06": "Material Impairments",
	"item 3.01": "Notice of Delisting or Failure to Satisfy a Continued Listing Rule or Standard; Transfer of Listing",
	"item 3.02": "Unregistered Sales of Equity Securities",
	"item 3.03": "Material Modification to Rights of Security Holders",
	"item 4.01": "Changes in Registrant's Certifying Accountant",
	"item 4.02": "Non-Reliance on Previously Issued Financial Statements or a Related Audit Report or Completed Interim Review",
	"item 5.01": "Changes in Control of Registrant",
	"item 5.02": "Departure of Directors or Certain Officers; Election of Directors; Appointment of Certain Officers; Compensatory Arrangements of Certain Officers",
	"item 5.03": "Amendments to Articles of Incorporation or Bylaws; Change in Fiscal Year",
	"item 5.04": "Temporary Suspension of Trading Under Registrant's Employee Benefit Plans",
	"item 5.05": "Amendment to Registrant's Code of Ethics, or Waiver of a Provision of the Code of Ethics",
	"item 5.06": "Change in Shell Company Status",
	"item 5.07": "Submission of Matters to a Vote of Security Holders",
	"item 5.08": "Shareholder Director Nominations",
	"item 6.01": "ABS Informational and Computational Material",
	"item 6.02": "Change of Servicer or Trustee",
	"item 6.03": "Change in Credit Enhancement or Other External Support",
	"item 6.04": "Failure to Make a Required Distribution",
	"item 6.05": "Securities Act Updating Disclosure",
	"item 7.01": "Regulation FD Disclosure",
	"item 8.01": "Other Events",
	"item 9.01": "Financial Statements and Exhibits",
}

var meanings13D = map[string]string{
	"item 1": "Security and Issuer",
	"item 2": "Identity and Background",
	"item 3": "Source and Amount of Funds or Other Consideration",
	"item 4": "Purpose of Transaction",
	"item 5": "Interest in Securities of the Issuer",
	"item 6": "Contracts, Arrangements, Understandings or Relationships with Respect to Securities of the Issuer",
	"item 7": "Material to be Filed as Exhibits",
}

var meanings13G = map[string]string{
	"item 1":    "Security and Issuer",
	"item 1(a)": "Name of Issuer",
	"item 1(b)": "Address of Issuer’s Principal Executive Offices",
	"item 2":    "Identity and Background",
	"item 2(a)": "Name of Person Filing",
	"item 2(b)": "Address of Principal Business Office or, if None, Residence",
	"item 2(c)": "Citizenship",
	"item 2(d)": "Title of Class of Securities",
	"item 2(e)": "CUSIP Number",
	"item 3":    "Filing Status",
	"item 4":    "Ownership",
	"item 5":    "Ownership of Five Percent or Less of a Class",
	"item 6":    "Ownership of More than Five Percent on Behalf of Another Person",
	"item 7":    "Identification and Classification of the Subsidiary",
	"item 8":    "Identification and Classification of Members of the Group",
	"item 9":    "Notice of Dissolution of Group",
	"item 10":   "Certification",
}

var (
	boundary10K = regexp.MustCompile(`(?s)\n\n(?:ITEM|Item)\s+\d+[A-Z]?\.*.*?\n\n`)
	boundary8K  = regexp.MustCompile(`(?s)\n\n(?:ITEM|Item)\s+\d+\.\d+\.*.*?\n\n`)
	boundary13D = regexp.MustCompile(`(?s)\n\n(?:ITEM|Item)\s+\d+\.*.*?\n\n`)
	boundary13G = regexp.MustCompile(`(?s)\n\n(?:ITEM|Item)\s+\d+(?:\([a-z]\))?.*?\n\n`)
	boundaryS1  = buildOutlineBoundary(headersS1)

	canonical10Q = regexp.MustCompile(`part\s+[ivxlcdm]+\s+item\s+\d+[a-z]*`)
	canonical10K = regexp.MustCompile(`item\s+\d+[a-z]*`)
	canonical8K  = regexp.MustCompile(`item\s+\d+\.\d+`)
	canonical13D = regexp.MustCompile(`item\s+\d+`)
	canonical13G = regexp.MustCompile(`item\s+\d+(?:\([a-z]\))?`)
)

func buildOutlineBoundary(outline []string) *regexp.Regexp {
	quoted := make([]string, 0, len(outline))
	for _, h := range outline {
		if h == WholeDocSection {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(h))
	}
	return regexp.MustCompile(`(?is)\n\n(?:` + strings.Join(quoted, "|") + `)\s*\n\n`)
}

func knownSet(headers []string) map[string]bool {
	set := make(map[string]bool, len(headers))
	for _, h := range headers {
		set[strings.ToLower(h)] = true
	}
	return set
}

var grammars = map[string]*grammar{
	"10-k":     {known: knownSet(headers10K), meanings: meanings10K, boundary: boundary10K, canonical: canonical10K},
	"10-k/a":   {known: knownSet(headers10K), meanings: meanings10K, boundary: boundary10K, canonical: canonical10K},
	"10-q":     {known: knownSet(headers10Q), meanings: meanings10Q, boundary: boundary10K, canonical: canonical10Q, useParts: true},
	"10-q/a":   {known: knownSet(headers10Q), meanings: meanings10Q, boundary: boundary10K, canonical: canonical10Q, useParts: true},
	"8-k":      {known: knownSet(headers8K), meanings: meanings8K, boundary: boundary8K, canonical: canonical8K},
	"8-k/a":    {known: knownSet(headers8K), meanings: meanings8K, boundary: boundary8K, canonical: canonical8K},
	"s-1":      {known: knownSet(headersS1), boundary: boundaryS1},
	"s-1/a":    {known: knownSet(headersS1), boundary: boundaryS1},
	"s-3":      {known: knownSet(headersS1), boundary: boundaryS1},
	"s-3/a":    {known: knownSet(headersS1), boundary: boundaryS1},
	"sc 13d":   {known: knownSet(headers13D), meanings: meanings13D, boundary: boundary13D, canonical: canonical13D},
	"sc 13d/a": {known: knownSet(headers13D), meanings: meanings13D, boundary: boundary13D, canonical: canonical13D},
	"sc 13g":   {known: knownSet(headers13G), meanings: meanings13G, boundary: boundary13G, canonical: canonical13G},
	"sc 13g/a": {known: knownSet(headers13G), meanings: meanings13G, boundary: boundary13G, canonical: canonical13G},
}

func grammarFor(formType string) *grammar {
	return grammars[strings.ToLower(formType)]
}
