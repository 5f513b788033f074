// Package extractor recovers a validated product price from raw page
// content. Extraction is a pure function of its input: strategies are
// tried in priority order and the first candidate that survives the
// plausibility band wins. Not finding a price is a normal outcome.
package extractor

import (
	"github.com/shopspring/decimal"

	"pricewatch/models"
)

// Plausibility band for a single candidate, inclusive on both ends.
// Tokens outside it are treated as noise (unit counts, financing rates,
// review totals) rather than prices.
var (
	PlausibleMin = decimal.NewFromInt(300)
	PlausibleMax = decimal.NewFromInt(3000)
)

// candidate is one price-like token produced by a strategy.
type candidate struct {
	price   decimal.Decimal
	snippet string
	labeled bool // appeared near explicit "price" wording
}

// strategy generates candidates from page content, in document order.
type strategy func(content string) []candidate

// Strategies in priority order: structured product metadata first,
// currency-formatted text tokens as the fallback.
var strategies = []strategy{jsonldCandidates, patternCandidates}

// Extract scans content for a plausible product price. It never fails on
// malformed input; an empty extraction means no candidate survived.
func Extract(content string) models.Extraction {
	for _, gen := range strategies {
		var valid []candidate
		for _, c := range gen(content) {
			if plausible(c.price) {
				valid = append(valid, c)
			}
		}
		if len(valid) == 0 {
			continue
		}
		best := valid[0]
		for _, c := range valid {
			if c.labeled {
				best = c
				break
			}
		}
		return models.Extraction{
			Price:      decimal.NewNullDecimal(best.price),
			RawSnippet: best.snippet,
		}
	}
	return models.Extraction{}
}

func plausible(p decimal.Decimal) bool {
	return p.GreaterThanOrEqual(PlausibleMin) && p.LessThanOrEqual(PlausibleMax)
}

// normalizePrice parses a numeric token into a decimal with two fractional
// digits. Thousands separators must already be stripped by the caller.
func normalizePrice(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d.Round(2), true
}
