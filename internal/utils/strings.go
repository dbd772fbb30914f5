package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseList splits a comma-separated string and returns trimmed non-empty values.
// Returns nil for empty/whitespace-only input.
func ParseList(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// ParseWeights parses "SYM=weight" pairs such as "AAPL=0.6,AGG=0.4".
// Symbols are upper-cased; repeated symbols are summed.
func ParseWeights(s string) (map[string]float64, error) {
	pairs := ParseList(s)
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		sym, raw, ok := strings.Cut(pair, "=")
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if !ok || sym == "" {
			return nil, fmt.Errorf("invalid weight %q (want SYMBOL=weight)", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for %s: %w", sym, err)
		}
		out[sym] += w
	}
	return out, nil
}
