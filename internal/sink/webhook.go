// Package sink holds the destinations RSVP records are delivered to.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"wedding-rsvp/internal/models"
)

// Webhook posts each record as JSON to a spreadsheet endpoint (a Google Apps
// Script web app). The response body is never parsed; only a transport error
// counts as a failure.
type Webhook struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewWebhook creates a webhook sink
func NewWebhook(url string, timeout time.Duration, log zerolog.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("component", "Webhook").Logger(),
	}
}

type webhookPayload struct {
	Name        string   `json:"name"`
	Attendance  string   `json:"attendance"`
	Event       string   `json:"event"`
	Dietary     string   `json:"dietary"`
	Songs       []string `json:"songs"`
	SubmittedAt string   `json:"submittedAt"`
}

// Deliver sends one record
func (w *Webhook) Deliver(ctx context.Context, rec models.SubmissionRecord) error {
	body, err := json.Marshal(webhookPayload{
		Name:        rec.Name,
		Attendance:  rec.Attendance,
		Event:       rec.Event,
		Dietary:     rec.Dietary,
		Songs:       rec.Songs,
		SubmittedAt: rec.SubmittedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post record: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		w.log.Warn().Int("status", resp.StatusCode).Str("name", rec.Name).Msg("Webhook answered with non-2xx status")
	}
	return nil
}
