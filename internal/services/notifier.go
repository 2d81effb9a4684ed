package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// LogNotifier writes reminders to the process log. It is the default
// sink when no webhook is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (notifier *LogNotifier) Notify(ctx context.Context, title string, body string) error {
	log.Printf("reminder: %s: %s", title, body)
	return nil
}

// WebhookNotifier pushes reminders to a configured endpoint as a form
// POST. Delivery is best effort; failures surface only in the log.
type WebhookNotifier struct {
	endpoint string
	client   *http.Client
}

func NewWebhookNotifier(endpoint string) *WebhookNotifier {
	return &WebhookNotifier{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (notifier *WebhookNotifier) Notify(ctx context.Context, title string, body string) error {
	values := url.Values{}
	values.Set("title", title)
	values.Set("body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notifier.endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := notifier.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode, string(payload))
	}

	return nil
}
