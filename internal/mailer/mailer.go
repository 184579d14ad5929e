// Package mailer provides transactional email sending over a JSON HTTP API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no mail API endpoint is set.  Callers
// that depend on delivery (the OTP flow) must treat this as a hard failure
// rather than silently dropping the message.
var ErrNotConfigured = errors.New("mailer: no API endpoint configured")

// Mailer sends plain-text transactional mail through an HTTP mail provider.
type Mailer struct {
	URL    string // provider endpoint
	APIKey string // bearer key
	From   string // From address on outgoing mail
	client *http.Client
}

// New builds a Mailer for the given endpoint and credentials.
func New(url, apiKey, from string) *Mailer {
	return &Mailer{
		URL:    url,
		APIKey: apiKey,
		From:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type address struct {
	Email string `json:"email"`
}

type sendRequest struct {
	From    address   `json:"from"`
	To      []address `json:"to"`
	Subject string    `json:"subject"`
	Text    string    `json:"text"`
}

// Send dispatches a plain-text message to a single recipient.  Non-2xx
// provider responses are reported as errors.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.URL == "" {
		return ErrNotConfigured
	}
	payload, err := json.Marshal(sendRequest{
		From:    address{Email: m.From},
		To:      []address{{Email: to}},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("mailer: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mailer: provider returned status %d", resp.StatusCode)
	}
	return nil
}
