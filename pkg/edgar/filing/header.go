package filing

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/cchummer/sec-api/pkg/edgar/internalerr"
)

var (
	secHeaderRe = regexp.MustCompile(`(?is)<sec-header>.*?</sec-header>`)

	accessionNumberRe = regexp.MustCompile(`(?i)accession number:\s+([^\n]+)`)
	formTypeRe        = regexp.MustCompile(`(?i)form type:\s+([^\n]+)`)
	filedDateRe       = regexp.MustCompile(`(?i)filed as of date:\s+(\d{8})`)
	reportPeriodRe    = regexp.MustCompile(`(?i)conformed period of report:\s*([^\n]+)`)

	filedByRe = regexp.MustCompile(`(?i)filed by:`)
	filerRe   = regexp.MustCompile(`(?i)filer:`)
	issuerRe  = regexp.MustCompile(`(?i)issuer:`)

	companyNameRe = regexp.MustCompile(`(?i)COMPANY CONFORMED NAME:\s*([^\n]+)`)
	cikRe         = regexp.MustCompile(`(?i)CENTRAL INDEX KEY:\s*(\d+)`)
	sicRe         = regexp.MustCompile(`(?i)STANDARD INDUSTRIAL CLASSIFICATION:\s*(.+?)\s*\[(\d{4})\]`)
	stateIncorpRe = regexp.MustCompile(`(?i)STATE OF INCORPORATION:\s*(\w+)`)
	fiscalYrRe    = regexp.MustCompile(`(?i)FISCAL YEAR END:\s*(\d{4})`)
	bizPhoneRe    = regexp.MustCompile(`(?i)BUSINESS PHONE:\s*([^\n]+)`)

	street1Re = regexp.MustCompile(`(?i)STREET\s+1:\s*([^\n]+)`)
	street2Re = regexp.MustCompile(`(?i)STREET\s+2:\s*([^\n]+)`)
	cityRe    = regexp.MustCompile(`(?i)CITY:\s*([^\n]+)`)
	stateRe   = regexp.MustCompile(`(?i)\bSTATE:\s*(\w+)`)
	zipRe     = regexp.MustCompile(`(?i)ZIP:\s*(\d+)`)

	formerNameRe = regexp.MustCompile(`(?is)FORMER COMPANY:\s*FORMER CONFORMED NAME:\s*(.+?)\s*DATE OF NAME CHANGE:\s*(\d{8})`)

	subjectCompanyRe = regexp.MustCompile(`(?is)SUBJECT COMPANY:(.+?)(?:FILED BY:|FILER:|</SEC-HEADER>)`)
	orgNameRe        = regexp.MustCompile(`(?i)ORGANIZATION NAME:\s*([^\n]+)`)
	secFileNumRe     = regexp.MustCompile(`(?i)SEC FILE NUMBER:\s*([^\n\r]+)`)
	filmNumRe        = regexp.MustCompile(`(?i)FILM NUMBER:\s*(\d+)`)
)

// ParseHeader extracts the filer metadata from a submission's
// <SEC-HEADER> block. A missing required field (accession number, form
// type, filed date) is terminal for the filing: the partially filled
// record is returned together with the error and the caller abandons
// downstream extraction. Optional fields degrade to empty values or the
// zero-coded SIC sentinel.
func ParseHeader(raw string) (Info, error) {
	info := Info{SIC: ZeroSIC()}

	header := secHeaderRe.FindString(raw)
	if header == "" {
		return info, internalerr.ErrNoHeader
	}

	required := []struct {
		name string
		re   *regexp.Regexp
		dst  *string
	}{
		{"accession_number", accessionNumberRe, &info.AccessionNumber},
		{"form_type", formTypeRe, &info.FormType},
		{"filed_date", filedDateRe, &info.FiledDate},
	}
	for _, field := range required {
		m := field.re.FindStringSubmatch(header)
		if m == nil {
			return info, fmt.Errorf("%w: %s", internalerr.ErrMissingField, field.name)
		}
		*field.dst = strings.TrimSpace(m[1])
	}
	info.FormType = strings.ToLower(info.FormType)

	if m := reportPeriodRe.FindStringSubmatch(header); m != nil {
		info.ReportPeriod = strings.TrimSpace(m[1])
	}

	// Only attribute company fields to the filer, not a subject company.
	// 13D/G headers hold both; the filer block follows one of these
	// markers.
	remaining := afterFilerMarker(header)

	if m := companyNameRe.FindStringSubmatch(remaining); m != nil {
		info.CompanyName = strings.TrimSpace(m[1])
	}
	if m := cikRe.FindStringSubmatch(remaining); m != nil {
		info.CIK = strings.TrimSpace(m[1])
	} else {
		log.Printf("Warning: header field not found: cik")
	}
	info.SIC = parseSIC(remaining)
	if m := stateIncorpRe.FindStringSubmatch(remaining); m != nil {
		info.StateOfIncorp = strings.TrimSpace(m[1])
	}
	if m := fiscalYrRe.FindStringSubmatch(remaining); m != nil {
		info.FiscalYearEnd = strings.TrimSpace(m[1])
	}
	info.BusinessAddress = parseAddress(remaining)
	if m := bizPhoneRe.FindStringSubmatch(remaining); m != nil {
		info.BusinessPhone = strings.TrimSpace(m[1])
	}
	info.NameChanges = parseNameChanges(remaining)

	return info, nil
}

// ParseSubjectCompany extracts the subject company block of a 13D/G
// header, bounded by the SUBJECT COMPANY marker and the following
// FILED BY / FILER marker or header close.
func ParseSubjectCompany(raw, accessionNumber string) (SubjectCompany, error) {
	subject := SubjectCompany{AccessionNumber: accessionNumber, SIC: ZeroSIC()}

	header := secHeaderRe.FindString(raw)
	if header == "" {
		return subject, internalerr.ErrNoHeader
	}

	m := subjectCompanyRe.FindStringSubmatch(header)
	if m == nil {
		return subject, fmt.Errorf("%w: subject company block", internalerr.ErrMissingField)
	}
	block := m[1]

	if m := companyNameRe.FindStringSubmatch(block); m != nil {
		subject.CompanyName = strings.TrimSpace(m[1])
	}
	if m := cikRe.FindStringSubmatch(block); m != nil {
		subject.CIK = strings.TrimSpace(m[1])
	}
	if m := orgNameRe.FindStringSubmatch(block); m != nil {
		subject.OrgName = strings.TrimSpace(m[1])
	}
	if m := secFileNumRe.FindStringSubmatch(block); m != nil {
		subject.SECFileNumber = strings.TrimSpace(m[1])
	}
	if m := filmNumRe.FindStringSubmatch(block); m != nil {
		subject.FilmNumber = strings.TrimSpace(m[1])
	}
	if m := stateIncorpRe.FindStringSubmatch(block); m != nil {
		subject.StateOfIncorp = strings.TrimSpace(m[1])
	}
	if m := fiscalYrRe.FindStringSubmatch(block); m != nil {
		subject.FiscalYearEnd = strings.TrimSpace(m[1])
	}
	subject.SIC = parseSIC(block)
	subject.BusinessAddress = parseAddress(block)
	if m := bizPhoneRe.FindStringSubmatch(block); m != nil {
		subject.BusinessPhone = strings.TrimSpace(m[1])
	}
	subject.NameChanges = parseNameChanges(block)

	return subject, nil
}

// afterFilerMarker returns the header text following the first filer
// marker, in priority order "filed by:" > "filer:" > "issuer:", or the
// whole header when none is present.
func afterFilerMarker(header string) string {
	for _, re := range []*regexp.Regexp{filedByRe, filerRe, issuerRe} {
		if loc := re.FindStringIndex(header); loc != nil {
			return header[loc[1]:]
		}
	}
	return header
}

func parseSIC(text string) SICInfo {
	m := sicRe.FindStringSubmatch(text)
	if m == nil {
		log.Printf("Warning: failed to parse SIC code and description")
		return ZeroSIC()
	}
	code := strings.TrimSpace(m[2])
	return SICInfo{
		Code:              code,
		Desc:              strings.TrimSpace(m[1]),
		DivisionCode:      code[:1],
		MajorGroupCode:    code[:2],
		IndustryGroupCode: code[:3],
	}
}

// parseAddress joins the present address sub-fields with commas,
// omitting absent ones.
func parseAddress(text string) string {
	var components []string
	for _, re := range []*regexp.Regexp{street1Re, street2Re, cityRe, stateRe, zipRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				components = append(components, v)
			}
		}
	}
	return strings.Join(components, ", ")
}

func parseNameChanges(text string) []NameChange {
	var changes []NameChange
	for _, m := range formerNameRe.FindAllStringSubmatch(text, -1) {
		changes = append(changes, NameChange{
			FormerName:   strings.TrimSpace(m[1]),
			DateOfChange: strings.TrimSpace(m[2]),
		})
	}
	return changes
}
