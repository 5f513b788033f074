// Package notify delivers notification events produced by a run. Message
// formatting lives here; deciding what to notify does not.
package notify

import (
	"context"

	"pricewatch/models"
)

// Notifier dispatches one run's events, in run order.
type Notifier interface {
	Send(ctx context.Context, events []models.NotificationEvent) error
}
