package allocation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unknown is the bucket for missing or empty categories
const Unknown = "Unknown"

var assetClassSynonyms = map[string]string{
	"EQUITY": "Equity", "EQUITIES": "Equity", "STOCK": "Equity", "STOCKS": "Equity",
	"ETF": "ETF", "ETFS": "ETF", "MUTUAL FUND": "ETF",
	"BOND": "Bond", "BONDS": "Bond", "FIXED INCOME": "Bond",
	"FUTURES": "Futures", "FUTURE": "Futures",
	"OPTION": "Option", "OPTIONS": "Option",
	"INDEX": "Index",
	"CRYPTO": "Crypto", "CRYPTOCURRENCY": "Crypto",
	"CURRENCY": "Currency",
}

var sectorSynonyms = map[string]string{
	"TECHNOLOGY":             "Technology",
	"HEALTHCARE":             "Healthcare",
	"HEALTH CARE":            "Healthcare",
	"FINANCIAL SERVICES":     "Financials",
	"FINANCIALS":             "Financials",
	"CONSUMER CYCLICAL":      "Consumer Discretionary",
	"CONSUMER DISCRETIONARY": "Consumer Discretionary",
	"CONSUMER DEFENSIVE":     "Consumer Staples",
	"CONSUMER STAPLES":       "Consumer Staples",
	"ENERGY":                 "Energy",
	"INDUSTRIALS":            "Industrials",
	"BASIC MATERIALS":        "Materials",
	"MATERIALS":              "Materials",
	"UTILITIES":              "Utilities",
	"REAL ESTATE":            "Real Estate",
	"COMMUNICATION SERVICES": "Telecom",
	"TELECOM":                "Telecom",
	"TELECOMMUNICATIONS":     "Telecom",
}

var countrySynonyms = map[string]string{
	"US": "United States", "USA": "United States", "UNITED STATES": "United States",
	"UNITED STATES OF AMERICA": "United States", "U.S.": "United States",
	"U.S.A.": "United States", "AMERICA": "United States",
	"UK": "United Kingdom", "UNITED KINGDOM": "United Kingdom",
	"GB": "United Kingdom", "GREAT BRITAIN": "United Kingdom",
	"ENGLAND": "United Kingdom",
	"CN": "China", "CHINA": "China", "PRC": "China",
	"JP": "Japan", "JAPAN": "Japan",
	"DE": "Germany", "GERMANY": "Germany",
	"FR": "France", "FRANCE": "France",
	"CA": "Canada", "CANADA": "Canada",
	"AU": "Australia", "AUSTRALIA": "Australia",
	"KR": "South Korea", "SOUTH KOREA": "South Korea", "KOREA": "South Korea",
	"IN": "India", "INDIA": "India",
	"BR": "Brazil", "BRAZIL": "Brazil",
	"CH": "Switzerland", "SWITZERLAND": "Switzerland",
	"TW": "Taiwan", "TAIWAN": "Taiwan",
	"NL": "Netherlands", "NETHERLANDS": "Netherlands", "HOLLAND": "Netherlands",
	"HK": "Hong Kong", "HONG KONG": "Hong Kong",
	"ES": "Spain", "SPAIN": "Spain",
	"IT": "Italy", "ITALY": "Italy",
	"SE": "Sweden", "SWEDEN": "Sweden",
	"SG": "Singapore", "SINGAPORE": "Singapore",
	"IE": "Ireland", "IRELAND": "Ireland",
	"IL": "Israel", "ISRAEL": "Israel",
	"DK": "Denmark", "DENMARK": "Denmark",
	"NO": "Norway", "NORWAY": "Norway",
	"FI": "Finland", "FINLAND": "Finland",
	"BE": "Belgium", "BELGIUM": "Belgium",
	"MX": "Mexico", "MEXICO": "Mexico",
	"ZA": "South Africa", "SOUTH AFRICA": "South Africa",
	"RU": "Russia", "RUSSIA": "Russia",
	"AT": "Austria", "AUSTRIA": "Austria",
	"NZ": "New Zealand", "NEW ZEALAND": "New Zealand",
	"PT": "Portugal", "PORTUGAL": "Portugal",
}

// NormalizeKey maps a raw category value to its canonical label for dim.
// Unlisted values are title-cased; empty values are Unknown.
func NormalizeKey(dim Dimension, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Unknown
	}

	var table map[string]string
	switch dim {
	case DimensionAssetClass:
		table = assetClassSynonyms
	case DimensionSector:
		table = sectorSynonyms
	case DimensionCountry:
		table = countrySynonyms
	}

	if canonical, ok := table[strings.ToUpper(trimmed)]; ok {
		return canonical
	}
	// Casers are stateful, so one per call
	return cases.Title(language.Und).String(trimmed)
}
