// Package push delivers broadcast notifications through a push provider's
// REST API (OneSignal-compatible request shape).
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no provider endpoint or app id is set.
var ErrNotConfigured = errors.New("push: provider not configured")

// Client talks to the push provider.
type Client struct {
	URL    string // provider REST endpoint
	AppID  string // provider application id
	APIKey string // provider REST key
	client *http.Client
}

// New builds a push client for the given provider credentials.
func New(url, appID, apiKey string) *Client {
	return &Client{
		URL:    url,
		AppID:  appID,
		APIKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type createNotification struct {
	AppID            string            `json:"app_id"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	IncludedSegments []string          `json:"included_segments"`
}

// Broadcast sends a title/message pair to every registered device (the
// provider's "All" segment).
func (c *Client) Broadcast(ctx context.Context, title, message string) error {
	if c.URL == "" || c.AppID == "" {
		return ErrNotConfigured
	}
	payload, err := json.Marshal(createNotification{
		AppID:            c.AppID,
		Headings:         map[string]string{"en": title},
		Contents:         map[string]string{"en": message},
		IncludedSegments: []string{"All"},
	})
	if err != nil {
		return fmt.Errorf("push: marshal notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("push: build request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("push: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push: provider returned status %d", resp.StatusCode)
	}
	return nil
}
