package notify

import (
	"context"
	"log"

	"pricewatch/models"
)

// Log prints events instead of posting them. Used when no webhook is
// configured so a local run still shows what would have been sent.
type Log struct{}

// NewLog creates the fallback notifier.
func NewLog() *Log {
	return &Log{}
}

// Send prints each event on its own line.
func (l *Log) Send(ctx context.Context, events []models.NotificationEvent) error {
	for _, ev := range events {
		log.Printf("notification: %s", ev)
	}
	return nil
}
