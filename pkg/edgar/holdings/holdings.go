// Package holdings parses the XML documents of 13F holdings reports:
// the primary document for filing-level and manager information, and the
// information table for individual positions.
package holdings

import (
	"encoding/xml"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/cchummer/sec-api/pkg/edgar/filing"
	"github.com/cchummer/sec-api/pkg/edgar/internalerr"
)

// Some filers wrap XML documents in literal <XML> tags that break
// decoding.
var xmlTagRe = regexp.MustCompile(`(?i)</?xml>`)

// InfoTableDocType is the declared sub-document type of the holdings
// information table.
const InfoTableDocType = "information table"

type xmlAddress struct {
	Street1        string `xml:"street1"`
	Street2        string `xml:"street2"`
	City           string `xml:"city"`
	StateOrCountry string `xml:"stateOrCountry"`
	ZipCode        string `xml:"zipCode"`
}

type otherManager struct {
	SequenceNumber string `xml:"sequenceNumber"`
	CIK            string `xml:"otherManager>cik"`
	Form13FFileNum string `xml:"otherManager>form13FFileNumber"`
	SECFileNum     string `xml:"otherManager>secFileNumber"`
	CRDNum         string `xml:"otherManager>crdNumber"`
	Name           string `xml:"otherManager>name"`
}

// primaryDoc mirrors the 13F primary document layout. Tags are
// unqualified so namespace prefixes on any element still match.
type primaryDoc struct {
	CoverPage struct {
		ReportCalendarOrQuarter string `xml:"reportCalendarOrQuarter"`
		IsAmendment             string `xml:"isAmendment"`
		AmendmentNo             string `xml:"amendmentNo"`
		AmendmentInfo           struct {
			AmendmentType string `xml:"amendmentType"`
		} `xml:"amendmentInfo"`
		FilingManager struct {
			Name    string     `xml:"name"`
			Address xmlAddress `xml:"address"`
		} `xml:"filingManager"`
		ReportType              string `xml:"reportType"`
		Form13FFileNumber       string `xml:"form13FFileNumber"`
		SECFileNumber           string `xml:"secFileNumber"`
		CRDNumber               string `xml:"crdNumber"`
		ProvideInfoInstruction5 string `xml:"provideInfoForInstruction5"`
	} `xml:"formData>coverPage"`
	SignatureBlock struct {
		Name           string `xml:"name"`
		Title          string `xml:"title"`
		Phone          string `xml:"phone"`
		StateOrCountry string `xml:"stateOrCountry"`
		SignatureDate  string `xml:"signatureDate"`
	} `xml:"formData>signatureBlock"`
	SummaryPage struct {
		OtherIncludedManagersCount string         `xml:"otherIncludedManagersCount"`
		TableEntryTotal            string         `xml:"tableEntryTotal"`
		TableValueTotal            string         `xml:"tableValueTotal"`
		OtherManagers              []otherManager `xml:"otherManagers2Info>otherManager2"`
	} `xml:"formData>summaryPage"`
}

type infoTableEntry struct {
	NameOfIssuer string `xml:"nameOfIssuer"`
	TitleOfClass string `xml:"titleOfClass"`
	CUSIP        string `xml:"cusip"`
	FIGI         string `xml:"figi"`
	Value        string `xml:"value"`
	ShrsOrPrnAmt struct {
		SshPrnamt     string `xml:"sshPrnamt"`
		SshPrnamtType string `xml:"sshPrnamtType"`
	} `xml:"shrsOrPrnAmt"`
	PutCall              string `xml:"putCall"`
	InvestmentDiscretion string `xml:"investmentDiscretion"`
	OtherManager         string `xml:"otherManager"`
	VotingAuthority      struct {
		Sole   string `xml:"Sole"`
		Shared string `xml:"Shared"`
		None   string `xml:"None"`
	} `xml:"votingAuthority"`
}

type informationTable struct {
	Entries []infoTableEntry `xml:"infoTable"`
}

// ParseManagers decodes the primary XML document of a 13F filing into
// one row per reporting manager. Filing-level fields repeat on every
// row; a filing with no other managers yields a single synthetic row
// with sequence 0.
func ParseManagers(accessionNumber, formType string, docs []filing.EmbeddedDocument) ([]filing.HoldingsManager, error) {
	content := findXMLDoc(docs, func(doc filing.EmbeddedDocument) bool {
		return strings.EqualFold(doc.Type, formType)
	})
	if content == "" {
		return nil, fmt.Errorf("%w: primary XML document of %s filing", internalerr.ErrNoPrimaryDocument, formType)
	}

	var doc primaryDoc
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("decoding primary XML document: %w", err)
	}

	base := filing.HoldingsManager{
		AccessionNumber:  accessionNumber,
		ReportQuarter:    strings.TrimSpace(doc.CoverPage.ReportCalendarOrQuarter),
		IsAmendment:      strings.TrimSpace(doc.CoverPage.IsAmendment),
		AmendmentNo:      strings.TrimSpace(doc.CoverPage.AmendmentNo),
		AmendmentType:    strings.TrimSpace(doc.CoverPage.AmendmentInfo.AmendmentType),
		FilingMgrName:    strings.TrimSpace(doc.CoverPage.FilingManager.Name),
		FilingMgrAddr:    addressString(doc.CoverPage.FilingManager.Address),
		ReportType:       strings.TrimSpace(doc.CoverPage.ReportType),
		Form13FFileNum:   strings.TrimSpace(doc.CoverPage.Form13FFileNumber),
		SECFileNum:       strings.TrimSpace(doc.CoverPage.SECFileNumber),
		CRDNum:           strings.TrimSpace(doc.CoverPage.CRDNumber),
		InfoInstruction5: strings.TrimSpace(doc.CoverPage.ProvideInfoInstruction5),
		SigName:          strings.TrimSpace(doc.SignatureBlock.Name),
		SigTitle:         strings.TrimSpace(doc.SignatureBlock.Title),
		SigPhone:         strings.TrimSpace(doc.SignatureBlock.Phone),
		SigState:         strings.TrimSpace(doc.SignatureBlock.StateOrCountry),
		SigDate:          strings.TrimSpace(doc.SignatureBlock.SignatureDate),
		OtherMgrsCount:   strings.TrimSpace(doc.SummaryPage.OtherIncludedManagersCount),
		TableEntryTotal:  strings.TrimSpace(doc.SummaryPage.TableEntryTotal),
		TableValueTotal:  strings.TrimSpace(doc.SummaryPage.TableValueTotal),
	}

	others := doc.SummaryPage.OtherManagers
	if len(others) == 0 {
		row := base
		row.MgrSeq = 0
		return []filing.HoldingsManager{row}, nil
	}

	rows := make([]filing.HoldingsManager, 0, len(others))
	for _, mgr := range others {
		row := base
		seq, err := strconv.Atoi(strings.TrimSpace(mgr.SequenceNumber))
		if err != nil {
			log.Printf("Warning: non-numeric manager sequence number %q in %s", mgr.SequenceNumber, accessionNumber)
		}
		row.MgrSeq = seq
		row.MgrCIK = strings.TrimSpace(mgr.CIK)
		row.Mgr13FFileNum = strings.TrimSpace(mgr.Form13FFileNum)
		row.MgrSECFileNum = strings.TrimSpace(mgr.SECFileNum)
		row.MgrCRDNum = strings.TrimSpace(mgr.CRDNum)
		row.MgrName = strings.TrimSpace(mgr.Name)
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseHoldings decodes the information table into one row per reported
// position, resolving each entry's manager reference against the
// manager rows. A missing information table (every 13F-NT, and some
// amendments) yields zero holdings without error.
func ParseHoldings(accessionNumber string, docs []filing.EmbeddedDocument, managers []filing.HoldingsManager) ([]filing.Holding, error) {
	content := findXMLDoc(docs, func(doc filing.EmbeddedDocument) bool {
		return strings.EqualFold(doc.Type, InfoTableDocType)
	})
	if content == "" {
		log.Printf("Warning: no information table document found in %s, no holdings extracted", accessionNumber)
		return nil, nil
	}

	var table informationTable
	if err := xml.Unmarshal([]byte(content), &table); err != nil {
		return nil, fmt.Errorf("decoding information table: %w", err)
	}

	result := make([]filing.Holding, 0, len(table.Entries))
	for i, entry := range table.Entries {
		ref := strings.TrimSpace(entry.OtherManager)
		result = append(result, filing.Holding{
			AccessionNumber: accessionNumber,
			EntrySeq:        i + 1,
			Issuer:          strings.TrimSpace(entry.NameOfIssuer),
			HoldingClass:    strings.TrimSpace(entry.TitleOfClass),
			CUSIP:           strings.TrimSpace(entry.CUSIP),
			Value:           strings.TrimSpace(entry.Value),
			Amount:          strings.TrimSpace(entry.ShrsOrPrnAmt.SshPrnamt),
			AmtType:         strings.TrimSpace(entry.ShrsOrPrnAmt.SshPrnamtType),
			Discretion:      strings.TrimSpace(entry.InvestmentDiscretion),
			SoleVote:        strings.TrimSpace(entry.VotingAuthority.Sole),
			SharedVote:      strings.TrimSpace(entry.VotingAuthority.Shared),
			NoVote:          strings.TrimSpace(entry.VotingAuthority.None),
			FIGI:            strings.TrimSpace(entry.FIGI),
			OptionType:      strings.TrimSpace(entry.PutCall),
			ManagerRef:      ref,
			ManagerName:     resolveManager(ref, managers),
		})
	}
	return result, nil
}

// resolveManager maps an entry's <otherManager> value to a manager
// name. Empty or "0" means the filing manager. A non-numeric value is
// already a name; some filers put the filing manager's name there
// redundantly. A numeric value refers to a manager's sequence number,
// falling back to the raw value when no row matches.
func resolveManager(ref string, managers []filing.HoldingsManager) string {
	if ref == "" || ref == "0" {
		if len(managers) > 0 {
			return managers[0].FilingMgrName
		}
		return ""
	}
	seq, err := strconv.Atoi(ref)
	if err != nil {
		return ref
	}
	for _, mgr := range managers {
		if mgr.MgrSeq == seq {
			return mgr.MgrName
		}
	}
	log.Printf("Warning: no manager row with sequence %d, keeping raw reference", seq)
	return ref
}

// addressString joins address components with commas. Street2 is
// optional; the remaining components must all be present for an address
// to form at all.
func addressString(addr xmlAddress) string {
	street1 := strings.TrimSpace(addr.Street1)
	street2 := strings.TrimSpace(addr.Street2)
	city := strings.TrimSpace(addr.City)
	state := strings.TrimSpace(addr.StateOrCountry)
	zip := strings.TrimSpace(addr.ZipCode)
	if street1 == "" || city == "" || state == "" || zip == "" {
		return ""
	}
	components := []string{street1}
	if street2 != "" {
		components = append(components, street2)
	}
	components = append(components, city, state, zip)
	return strings.Join(components, ", ")
}

func findXMLDoc(docs []filing.EmbeddedDocument, match func(filing.EmbeddedDocument) bool) string {
	for _, doc := range docs {
		if strings.HasSuffix(strings.ToLower(doc.Filename), ".xml") && match(doc) {
			return strings.TrimSpace(xmlTagRe.ReplaceAllString(doc.Text, ""))
		}
	}
	return ""
}
