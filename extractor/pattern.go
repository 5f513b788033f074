package extractor

import (
	"regexp"
	"strings"
)

// pricePatternRe matches currency-formatted tokens: a dollar sign or USD
// marker, digits with optional thousands separators, optional two-digit
// fraction (e.g. "$1,199.99", "USD 999").
var pricePatternRe = regexp.MustCompile(
	`(?i)(?:\bUSD\s*)?\$\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)\b|(?i)\bUSD\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)\b`)

// excludeNearRe rejects matches whose surrounding text points at specs,
// financing, or ratings instead of a product price.
var excludeNearRe = regexp.MustCompile(
	`(?i)\b(GB|mAh|nits?|inch|in\.|ppi|reviews?|ratings?|points?|/mo|per month|%|trade[- ]?in)\b`)

// priceLabelRe marks a match as sitting inside price-labeled markup.
var priceLabelRe = regexp.MustCompile(`(?i)price`)

// contextWindow is how many characters around a match are inspected for
// exclusion and label hints.
const contextWindow = 40

// patternCandidates scans raw text for currency tokens, in document order.
func patternCandidates(content string) []candidate {
	var out []candidate
	for _, loc := range pricePatternRe.FindAllStringSubmatchIndex(content, -1) {
		raw := groupAt(content, loc, 1)
		if raw == "" {
			raw = groupAt(content, loc, 2)
		}
		if raw == "" {
			continue
		}

		start := max(0, loc[0]-contextWindow)
		end := min(len(content), loc[1]+contextWindow)
		window := content[start:end]
		if excludeNearRe.MatchString(window) {
			continue
		}

		p, ok := normalizePrice(stripSeparators(raw))
		if !ok {
			continue
		}
		out = append(out, candidate{
			price:   p,
			snippet: content[loc[0]:loc[1]],
			labeled: priceLabelRe.MatchString(window),
		})
	}
	return out
}

// groupAt returns the text of capture group n, or "" when unmatched.
func groupAt(content string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return content[loc[2*n]:loc[2*n+1]]
}

// stripSeparators removes thousands separators, currency symbols and
// stray spaces from a numeric token.
func stripSeparators(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
