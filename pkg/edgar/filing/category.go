package filing

import "strings"

// Category partitions form types by extraction strategy
type Category int

const (
	// CategoryTidy covers forms with a fixed, known section vocabulary
	CategoryTidy Category = iota
	// CategoryBeneficialOwner covers 13D/13G schedules
	CategoryBeneficialOwner
	// CategoryHoldingsReport covers quarterly institutional holdings reports
	CategoryHoldingsReport
	// CategoryHoldingsNotice covers holdings notices (no information table)
	CategoryHoldingsNotice
	// CategoryInsider covers insider-transaction forms
	CategoryInsider
	// CategoryMisc covers everything else (TOC-crawl extraction)
	CategoryMisc
)

var categoryNames = map[Category]string{
	CategoryTidy:            "tidy",
	CategoryBeneficialOwner: "beneficial",
	CategoryHoldingsReport:  "holdings_report",
	CategoryHoldingsNotice:  "holdings_notice",
	CategoryInsider:         "insider",
	CategoryMisc:            "misc",
}

func (c Category) String() string { return categoryNames[c] }

var (
	tidyTypes = []string{
		"10-q", "10-q/a", "10-k", "10-k/a", "8-k", "8-k/a",
		"s-1", "s-1/a", "s-3", "s-3/a",
	}
	beneficialOwnerTypes = []string{"sc 13d", "sc 13d/a", "sc 13g", "sc 13g/a"}
	holdingsReportTypes  = []string{"13f-hr", "13f-hr/a"}
	holdingsNoticeTypes  = []string{"13f-nt", "13f-nt/a"}
	insiderTypes         = []string{"4", "4/a"}
)

// Categorize maps a form type (any case) to its extraction category
func Categorize(formType string) Category {
	ft := strings.ToLower(strings.TrimSpace(formType))
	switch {
	case contains(tidyTypes, ft):
		return CategoryTidy
	case contains(beneficialOwnerTypes, ft):
		return CategoryBeneficialOwner
	case contains(holdingsReportTypes, ft):
		return CategoryHoldingsReport
	case contains(holdingsNoticeTypes, ft):
		return CategoryHoldingsNotice
	case contains(insiderTypes, ft):
		return CategoryInsider
	default:
		return CategoryMisc
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
