package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// Retailer is one configured product page to watch. Loaded from the
// retailers file once per run and never mutated afterwards.
type Retailer struct {
	Name         string              `json:"name"`
	URL          string              `json:"url"`
	DesiredPrice decimal.NullDecimal `json:"desired_price"`
	MustMatch    string              `json:"must_match,omitempty"`
	Render       bool                `json:"render,omitempty"`
}

// HasDesiredPrice returns true if a price threshold is configured.
func (r *Retailer) HasDesiredPrice() bool {
	return r.DesiredPrice.Valid
}

// MustMatchRegexp compiles the must_match guard, or returns nil when unset.
func (r *Retailer) MustMatchRegexp() (*regexp.Regexp, error) {
	if r.MustMatch == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + r.MustMatch)
	if err != nil {
		return nil, fmt.Errorf("invalid must_match for %s: %v", r.Name, err)
	}
	return re, nil
}

// Extraction is the result of attempting to read a price from one page.
// An absent price is a normal outcome, not a failure.
type Extraction struct {
	Price      decimal.NullDecimal `json:"price"`
	RawSnippet string              `json:"raw_snippet,omitempty"`
}

// Found returns true if the extraction produced a validated price.
func (e Extraction) Found() bool {
	return e.Price.Valid
}

// Observation is the persisted last-known state for one retailer.
// LastAlertedPrice, when set, always equals a price that was previously
// observed as LastPrice for the same retailer.
type Observation struct {
	RetailerName     string              `json:"retailer_name"`
	LastPrice        decimal.NullDecimal `json:"last_price"`
	LastAlertedPrice decimal.NullDecimal `json:"last_alerted_price"`
	LastCheckedAt    time.Time           `json:"last_checked_at"`
}

// HasPrice returns true if the observation carries a known price.
func (o *Observation) HasPrice() bool {
	return o.LastPrice.Valid
}

// Reason explains why a notification fired.
type Reason string

const (
	// PriceChanged fires when the observed price differs from the last one.
	PriceChanged Reason = "PRICE_CHANGED"
	// ThresholdMet fires when the price reaches the configured desired price.
	ThresholdMet Reason = "THRESHOLD_MET"
)

// NotificationEvent is produced by the detector and consumed by dispatch.
type NotificationEvent struct {
	RetailerName string              `json:"retailer_name"`
	OldPrice     decimal.NullDecimal `json:"old_price"`
	NewPrice     decimal.Decimal     `json:"new_price"`
	Reason       Reason              `json:"reason"`
}

// String renders a one-line summary for logs and the fallback notifier.
func (e NotificationEvent) String() string {
	old := "n/a"
	if e.OldPrice.Valid {
		old = "$" + e.OldPrice.Decimal.StringFixed(2)
	}
	return fmt.Sprintf("[%s] %s: %s -> $%s", e.Reason, e.RetailerName, old, e.NewPrice.StringFixed(2))
}

// RealertPolicy controls whether a price change back above the threshold
// re-notifies after a threshold alert already fired.
type RealertPolicy string

const (
	// RealertAlways notifies on every distinct price change (default).
	RealertAlways RealertPolicy = "always"
	// RealertBelowOnly stays quiet while an alerted price sits at or under
	// the threshold and the price moves above it.
	RealertBelowOnly RealertPolicy = "below_only"
)

// ParseRealertPolicy maps a config string to a policy, defaulting to always.
func ParseRealertPolicy(s string) RealertPolicy {
	if RealertPolicy(s) == RealertBelowOnly {
		return RealertBelowOnly
	}
	return RealertAlways
}
