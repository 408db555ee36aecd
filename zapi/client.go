// Copyright 2025 Pxeba
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package zapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the production Z-API endpoint.
	DefaultBaseURL = "https://api.z-api.io"

	// defaultTimeout bounds each delivery call. Deliveries are never retried.
	defaultTimeout = 15 * time.Second
)

// Config holds the Z-API instance credentials.
type Config struct {
	// BaseURL is the API endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// InstanceID identifies the WhatsApp instance.
	InstanceID string

	// InstanceToken authenticates the instance in the URL path.
	InstanceToken string

	// ClientToken is the account-level token sent as the Client-Token header.
	ClientToken string

	// Timeout bounds each delivery call. Defaults to 15s.
	Timeout time.Duration
}

// Client delivers outbound text messages through the Z-API gateway.
// Delivery is fire-and-forget: the caller logs failures and moves on.
type Client struct {
	baseURL       string
	instanceID    string
	instanceToken string
	clientToken   string
	client        *http.Client
	logger        *slog.Logger
}

// NewClient creates a messaging gateway client from the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL:       cfg.BaseURL,
		instanceID:    cfg.InstanceID,
		instanceToken: cfg.InstanceToken,
		clientToken:   cfg.ClientToken,
		client:        &http.Client{Timeout: cfg.Timeout},
		logger:        slog.Default().With("component", "zapi-client"),
	}
}

// sendTextRequest is the wire shape of a send-text call.
type sendTextRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendText delivers a text message to the given phone number.
// A non-success response is returned as an error for the caller to log;
// it is never retried and must not affect the caller's control flow.
func (c *Client) SendText(ctx context.Context, phone, message string) error {
	endpoint := fmt.Sprintf("%s/instances/%s/token/%s/send-text",
		c.baseURL, c.instanceID, c.instanceToken)

	payload, err := json.Marshal(sendTextRequest{Phone: phone, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Token", c.clientToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("message delivery failed",
			"status", resp.StatusCode,
			"body", string(body))
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	c.logger.Debug("message delivered", "phone", phone, "length", len(message))
	return nil
}
