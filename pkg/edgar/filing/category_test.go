package filing

import "testing"

func TestCategorize(t *testing.T) {
	cases := []struct {
		formType string
		want     Category
	}{
		{"10-K", CategoryTidy},
		{"10-q/a", CategoryTidy},
		{"8-K", CategoryTidy},
		{"S-1", CategoryTidy},
		{"s-3/a", CategoryTidy},
		{"SC 13D", CategoryBeneficialOwner},
		{"sc 13g/a", CategoryBeneficialOwner},
		{"13F-HR", CategoryHoldingsReport},
		{"13f-hr/a", CategoryHoldingsReport},
		{"13F-NT", CategoryHoldingsNotice},
		{"4", CategoryInsider},
		{"4/A", CategoryInsider},
		{" 8-k ", CategoryTidy},
		{"DEF 14A", CategoryMisc},
		{"424B2", CategoryMisc},
		{"", CategoryMisc},
	}

	for _, tc := range cases {
		if got := Categorize(tc.formType); got != tc.want {
			t.Errorf("Categorize(%q) = %v, want %v", tc.formType, got, tc.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	if CategoryTidy.String() != "tidy" {
		t.Errorf("CategoryTidy.String() = %q", CategoryTidy.String())
	}
	if CategoryMisc.String() != "misc" {
		t.Errorf("CategoryMisc.String() = %q", CategoryMisc.String())
	}
}
