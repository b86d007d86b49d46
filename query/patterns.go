package query

import "regexp"

// Dimension patterns, applied in order to the original text.
var dimensionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)DN\d+`),
	regexp.MustCompile(`(?i)Ду\d+`),
	regexp.MustCompile(`\d+[xXхХ×*]\d+`),
	regexp.MustCompile(`(?i)\d+мм`),
}

// Article/SKU patterns, applied in order to the residual after dimensions.
var articlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z]+[-_][A-Z0-9]+`),
	regexp.MustCompile(`\d{3}[A-Z]\d+[A-Z]?`),
	regexp.MustCompile(`\d{6,}`),
	// Supplier prefix families: VT.0120, RTR-G 6251, MVI-1605 and the like.
	regexp.MustCompile(`\b(?:VTr|VT|RTR|MVI|FHF|TRV|SVK)[.\-]?\d[0-9A-Z.]*`),
}

// Quoted substrings are brand candidates: "..." and «...».
var quotedPattern = regexp.MustCompile(`"([^"]+)"|«([^»]+)»`)

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// DefaultBrands lists manufacturer names recognized without quotes.
// Matching is on whole words, compared in upper case.
var DefaultBrands = []string{
	"РИДАН", "RIDAN",
	"DANFOSS", "ДАНФОСС",
	"REHAU", "РЕХАУ",
	"KNAUF", "КНАУФ",
	"ТЕХНОНИКОЛЬ", "TECHNONICOL",
	"ROCKWOOL", "РОКВУЛ",
	"VALTEC", "ВАЛТЕК",
	"GRUNDFOS", "ГРУНДФОС",
	"WILO", "OVENTROP", "CALEFFI", "GROHE",
}
