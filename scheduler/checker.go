package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"pricewatch/models"
	"pricewatch/notify"
	"pricewatch/tracker"
)

// Checker runs the tracker on a cron schedule and dispatches whatever
// events a run produces. A manual check can be triggered at any time;
// runs are serialized so two checks never overlap.
type Checker struct {
	cron      *cron.Cron
	tracker   *tracker.Tracker
	notifier  notify.Notifier
	retailers []models.Retailer

	mu sync.Mutex // one run at a time
}

// NewChecker creates a checker for a fixed retailer list.
func NewChecker(t *tracker.Tracker, n notify.Notifier, retailers []models.Retailer) *Checker {
	return &Checker{
		cron:      cron.New(cron.WithSeconds()),
		tracker:   t,
		notifier:  n,
		retailers: retailers,
	}
}

// Start schedules periodic checks and kicks off an immediate one.
func (c *Checker) Start(schedule string) error {
	if _, err := c.cron.AddFunc(schedule, c.checkAll); err != nil {
		return err
	}

	go c.checkAll()

	c.cron.Start()
	log.Printf("Price checker scheduled (%s) for %d retailers", schedule, len(c.retailers))
	return nil
}

// Stop halts the schedule. An in-flight run finishes on its own.
func (c *Checker) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
}

// RunNow performs a synchronous check and dispatches its events. Used by
// the manual-check endpoint.
func (c *Checker) RunNow(ctx context.Context) ([]models.NotificationEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	events, err := c.tracker.Run(ctx, c.retailers)
	if err != nil {
		return events, err
	}

	if len(events) > 0 {
		if err := c.notifier.Send(ctx, events); err != nil {
			log.Printf("Failed to dispatch %d notification(s): %v", len(events), err)
		}
	}
	return events, nil
}

func (c *Checker) checkAll() {
	log.Println("Starting scheduled price check")

	events, err := c.RunNow(context.Background())
	if err != nil {
		log.Printf("Price check aborted: %v", err)
		return
	}
	log.Printf("Price check complete: %d notification(s)", len(events))
}
