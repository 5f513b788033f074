// Package tracker runs one check cycle over the configured retailers:
// fetch, extract, evaluate, persist. Retailers are processed sequentially
// in configuration order and failures stay contained to the retailer that
// caused them.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pricewatch/detector"
	"pricewatch/extractor"
	"pricewatch/fetch"
	"pricewatch/models"
	"pricewatch/store"
)

// Tracker orchestrates a price-check run.
type Tracker struct {
	fetcher  fetch.Fetcher
	renderer fetch.Fetcher // used for retailers marked render: true; may be nil
	store    store.ObservationStore
	detector *detector.Detector
	delay    time.Duration // politeness pause between retailers
}

// New creates a tracker. renderer may be nil when no retailer needs
// browser rendering.
func New(fetcher fetch.Fetcher, renderer fetch.Fetcher, st store.ObservationStore, det *detector.Detector, delay time.Duration) *Tracker {
	return &Tracker{
		fetcher:  fetcher,
		renderer: renderer,
		store:    st,
		detector: det,
		delay:    delay,
	}
}

// Run checks every retailer in order and returns the notification events
// in that same order. A retailer that fails to fetch or evaluate is
// skipped with a diagnostic and its stored observation is left untouched;
// only an unreachable store aborts the run.
func (t *Tracker) Run(ctx context.Context, retailers []models.Retailer) ([]models.NotificationEvent, error) {
	var events []models.NotificationEvent

	for i, r := range retailers {
		if i > 0 && t.delay > 0 {
			select {
			case <-time.After(t.delay):
			case <-ctx.Done():
				return events, ctx.Err()
			}
		}

		event, err := t.checkRetailer(ctx, r)
		if err != nil {
			if errors.Is(err, store.ErrUnavailable) {
				return events, fmt.Errorf("check %s: %w", r.Name, err)
			}
			log.Printf("Failed to check %s: %v", r.Name, err)
			continue
		}
		if event != nil {
			events = append(events, *event)
		}
	}

	return events, nil
}

// checkRetailer runs the fetch-extract-evaluate-persist sequence for one
// retailer. The recover guard keeps a misbehaving page from taking the
// whole run down.
func (t *Tracker) checkRetailer(ctx context.Context, r models.Retailer) (event *models.NotificationEvent, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			event, err = nil, fmt.Errorf("panic while checking: %v", rec)
		}
	}()

	log.Printf("Checking %s", r.Name)

	content, err := t.fetchContent(ctx, r)
	if err != nil {
		return nil, err
	}

	guard, err := r.MustMatchRegexp()
	if err != nil {
		return nil, err
	}
	if guard != nil && !guard.MatchString(content) {
		log.Printf("Skipping %s: must_match not found", r.Name)
		return nil, nil
	}

	extraction := extractor.Extract(content)
	if !extraction.Found() {
		log.Printf("No plausible price on %s", r.Name)
	}

	prev, err := t.store.Get(ctx, r.Name)
	if err != nil {
		if errors.Is(err, store.ErrMalformed) {
			log.Printf("Discarding malformed observation for %s: %v", r.Name, err)
			prev = nil
		} else {
			return nil, err
		}
	}

	event, obs := t.detector.Evaluate(r, extraction, prev, time.Now())

	if err := t.store.Put(ctx, r.Name, obs); err != nil {
		return nil, err
	}
	return event, nil
}

func (t *Tracker) fetchContent(ctx context.Context, r models.Retailer) (string, error) {
	if r.Render && t.renderer != nil {
		return t.renderer.Fetch(ctx, r.URL)
	}
	return t.fetcher.Fetch(ctx, r.URL)
}
