package ledger

import "strings"

var (
	balanceSheetKeywords    = []string{"kas", "perlengkapan", "peralatan", "utang", "modal"}
	incomeStatementKeywords = []string{"penjualan", "pembelian", "beban", "ikhtisar laba rugi"}
)

// Classify maps an account display name to its statement category. The
// function is total: every name resolves to exactly one category, and names
// matching no keyword fall back to CategoryBalanceSheet, mirroring how the
// ledger has always treated unrecognised accounts.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	for _, kw := range balanceSheetKeywords {
		if strings.Contains(lower, kw) {
			return CategoryBalanceSheet
		}
	}
	for _, kw := range incomeStatementKeywords {
		if strings.Contains(lower, kw) {
			return CategoryIncomeStatement
		}
	}
	return CategoryBalanceSheet
}

// accountKeys maps known display names to their storage keys.
var accountKeys = map[string]string{
	"kas":                "kas",
	"perlengkapan":       "perlengkapan",
	"peralatan":          "peralatan",
	"utang bank":         "utangbank",
	"modal":              "modal",
	"penjualan":          "penjualan",
	"pembelian":          "pembelian",
	"beban gaji":         "bebangaji",
	"beban pengiriman":   "bebanpengiriman",
	"beban pemeliharaan": "bebanpemeliharaan",
	"beban sewa":         "bebansewa",
	"beban bunga":        "bebanbunga",
	"ikhtisar laba rugi": "ikhtisarlabarugi",
}

// NormalizeKey converts an account display name into the short lowercase key
// used for per-account ledger filenames. Unrecognised names fall back to
// lower-casing and stripping spaces, so the result is always usable.
func NormalizeKey(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if key, ok := accountKeys[lower]; ok {
		return key
	}
	return strings.ReplaceAll(lower, " ", "")
}
