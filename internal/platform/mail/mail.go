// Copyright (c) 2026 Accesshub. All rights reserved.
// Author: dev@accesshub.io

/*
Package mail sends transactional email through an HTTP provider API.

The provider speaks a Resend-style JSON contract: a single POST with from,
to, subject and html fields, authenticated by a bearer API key. Failures are
surfaced to the caller — the sender never retries on its own.
*/
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers transactional mail. Implemented by [*Client] in production
// and by fakes in tests.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Client is an HTTP mail provider client.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	from       string
}

// NewClient builds a provider client. The from address is used for every
// message sent through it.
func NewClient(endpoint, apiKey, from string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   endpoint,
		apiKey:     apiKey,
		from:       from,
	}
}

// payload is the provider wire format.
type payload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one message. A non-2xx provider response is an error.
func (client *Client) Send(ctx context.Context, message Message) error {
	body, err := json.Marshal(payload{
		From:    client.from,
		To:      []string{message.To},
		Subject: message.Subject,
		HTML:    message.HTML,
	})
	if err != nil {
		return fmt.Errorf("mail: failed to encode message: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: failed to build request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("mail: provider request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		// Read a short error excerpt for the logs; providers return JSON
		// error bodies that are safe to record server-side.
		excerpt, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return fmt.Errorf("mail: provider returned status %d: %s", response.StatusCode, excerpt)
	}

	return nil
}
