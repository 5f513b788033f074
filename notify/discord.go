package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"pricewatch/models"
)

// Discord limits a single webhook payload to ten embeds.
const maxEmbeds = 10

// Discord posts deal updates to a Discord webhook, one embed per event.
type Discord struct {
	webhookURL string
	client     *resty.Client
}

// NewDiscord creates a Discord notifier for the given webhook URL.
func NewDiscord(webhookURL string) *Discord {
	client := resty.New()
	client.SetTimeout(20 * time.Second)

	return &Discord{
		webhookURL: webhookURL,
		client:     client,
	}
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Fields      []discordEmbedField `json:"fields"`
}

type discordPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

// Send posts the events as webhook embeds, splitting into multiple
// requests when a run produces more than ten.
func (d *Discord) Send(ctx context.Context, events []models.NotificationEvent) error {
	if len(events) == 0 {
		return nil
	}

	for start := 0; start < len(events); start += maxEmbeds {
		end := start + maxEmbeds
		if end > len(events) {
			end = len(events)
		}
		if err := d.post(ctx, events[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (d *Discord) post(ctx context.Context, events []models.NotificationEvent) error {
	payload := discordPayload{
		Content: fmt.Sprintf("📣 %d deal update(s)", len(events)),
	}
	for _, ev := range events {
		payload.Embeds = append(payload.Embeds, buildEmbed(ev))
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(d.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to post to discord: %v", err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to post to discord: status %d", resp.StatusCode())
	}
	return nil
}

func buildEmbed(ev models.NotificationEvent) discordEmbed {
	oldPrice := "n/a"
	if ev.OldPrice.Valid {
		oldPrice = "$" + ev.OldPrice.Decimal.StringFixed(2)
	}

	desc := "price changed"
	if ev.Reason == models.ThresholdMet {
		desc = "meets desired price"
	}

	return discordEmbed{
		Title:       fmt.Sprintf("Deal update for %s", ev.RetailerName),
		Description: desc,
		Fields: []discordEmbedField{
			{Name: "Price Now", Value: "$" + ev.NewPrice.StringFixed(2), Inline: true},
			{Name: "Previous", Value: oldPrice, Inline: true},
		},
	}
}
