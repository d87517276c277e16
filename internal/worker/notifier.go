package worker

import (
	"context"
	"fmt"
	"time"

	"roomdesk/internal/events"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Notifier delivers a booking lifecycle event to an external consumer.
type Notifier interface {
	Notify(ctx context.Context, eventType string, payload events.BookingEventPayload) error
}

// WebhookNotifier POSTs event payloads to a configured endpoint.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) Notify(ctx context.Context, eventType string, payload events.BookingEventPayload) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("X-Event-Type", eventType).
		SetBody(payload).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// LogNotifier writes events to the log. Used when no webhook is configured.
type LogNotifier struct {
	logger *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, eventType string, payload events.BookingEventPayload) error {
	n.logger.Info().
		Str("event_type", eventType).
		Int64("booking_id", payload.BookingID).
		Int64("room_id", payload.RoomID).
		Str("room_name", payload.RoomName).
		Time("start", payload.Start).
		Time("end", payload.End).
		Msg("booking notification")
	return nil
}
