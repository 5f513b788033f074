// Package detector decides whether a fresh extraction warrants a
// notification, given the last persisted observation and the retailer's
// configured threshold. All comparisons are exact decimal comparisons so
// a re-scraped identical price can never re-alert.
package detector

import (
	"time"

	"github.com/shopspring/decimal"

	"pricewatch/models"
)

// Detector evaluates extractions against prior observations.
type Detector struct {
	policy models.RealertPolicy
}

// New creates a detector with the given re-alert policy.
func New(policy models.RealertPolicy) *Detector {
	return &Detector{policy: policy}
}

// Evaluate compares an extraction to the previous observation and returns
// at most one notification event plus the observation to persist.
//
// Rules, in order:
//   - No extracted price: never notify, never overwrite a known price.
//   - First sighting (no previous price on record): record it silently.
//   - Same price as last time: refresh the check timestamp only.
//   - Price at or under the desired threshold: notify only when nothing
//     was alerted yet or the price dropped below the last alerted price.
//   - Otherwise a distinct price change notifies with PRICE_CHANGED,
//     unless the below-only policy suppresses moves back above an already
//     alerted threshold price.
func (d *Detector) Evaluate(r models.Retailer, ex models.Extraction, prev *models.Observation, now time.Time) (*models.NotificationEvent, models.Observation) {
	if !ex.Found() {
		if prev != nil {
			return nil, *prev
		}
		return nil, models.Observation{RetailerName: r.Name, LastCheckedAt: now}
	}

	price := ex.Price.Decimal

	if prev == nil || !prev.HasPrice() {
		obs := models.Observation{
			RetailerName:  r.Name,
			LastPrice:     decimal.NewNullDecimal(price),
			LastCheckedAt: now,
		}
		if prev != nil {
			obs.LastAlertedPrice = prev.LastAlertedPrice
		}
		return nil, obs
	}

	if price.Equal(prev.LastPrice.Decimal) {
		obs := *prev
		obs.LastCheckedAt = now
		return nil, obs
	}

	obs := *prev
	obs.LastPrice = decimal.NewNullDecimal(price)
	obs.LastCheckedAt = now

	event := (*models.NotificationEvent)(nil)
	switch {
	case r.HasDesiredPrice() && price.LessThanOrEqual(r.DesiredPrice.Decimal):
		// Inside the threshold band an alert fires only on a new low,
		// so a price oscillating at or under the threshold stays quiet.
		if !prev.LastAlertedPrice.Valid || price.LessThan(prev.LastAlertedPrice.Decimal) {
			event = &models.NotificationEvent{
				RetailerName: r.Name,
				OldPrice:     prev.LastPrice,
				NewPrice:     price,
				Reason:       models.ThresholdMet,
			}
		}
	case d.suppressAboveThreshold(r, prev):
		// Already alerted at or under the threshold; the below-only
		// policy treats a move back above it as noise.
	default:
		event = &models.NotificationEvent{
			RetailerName: r.Name,
			OldPrice:     prev.LastPrice,
			NewPrice:     price,
			Reason:       models.PriceChanged,
		}
	}

	if event != nil {
		obs.LastAlertedPrice = decimal.NewNullDecimal(price)
	}
	return event, obs
}

func (d *Detector) suppressAboveThreshold(r models.Retailer, prev *models.Observation) bool {
	return d.policy == models.RealertBelowOnly &&
		r.HasDesiredPrice() &&
		prev.LastAlertedPrice.Valid &&
		prev.LastAlertedPrice.Decimal.LessThanOrEqual(r.DesiredPrice.Decimal)
}
