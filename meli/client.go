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


package meli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Pxeba/GptMeliWhatsapp/core"
)

const (
	// DefaultBaseURL is the production Mercado Livre API endpoint.
	DefaultBaseURL = "https://api.mercadolibre.com"

	// defaultPageSize is the order page size used by the source.
	defaultPageSize = 50

	// defaultTimeout bounds each page fetch. There is no automatic retry.
	defaultTimeout = 30 * time.Second

	// dateFromLayout is ISO-8601 with millisecond precision, UTC.
	dateFromLayout = "2006-01-02T15:04:05.000Z"
)

// Client fetches recent orders from the Mercado Livre orders API.
type Client struct {
	baseURL  string
	pageSize int
	client   *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithPageSize overrides the page size used for pagination.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithTimeout sets the per-page fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClient creates an order source client with the provided options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		pageSize: defaultPageSize,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   slog.Default().With("component", "meli-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ordersResponse is the wire shape of an order search page.
type ordersResponse struct {
	Results []orderPayload `json:"results"`
	Paging  paging         `json:"paging"`
}

type paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type orderPayload struct {
	ID          int64         `json:"id"`
	Status      string        `json:"status"`
	DateCreated string        `json:"date_created"`
	TotalAmount float64       `json:"total_amount"`
	Buyer       buyerPayload  `json:"buyer"`
	OrderItems  []itemPayload `json:"order_items"`
}

type buyerPayload struct {
	Nickname string `json:"nickname"`
}

type itemPayload struct {
	Item      itemDetail `json:"item"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unit_price"`
}

type itemDetail struct {
	Title string `json:"title"`
}

// FetchOrders retrieves every order created at or after dateFrom, paging
// through the source sorted by descending creation date.
//
// Pagination stops when the upstream paging.total has been reached; when
// the source omits the total, it falls back to stopping on the first page
// shorter than the page size. Pages are fetched strictly sequentially.
//
// Any non-success response aborts the fetch with an *UpstreamError that
// carries the upstream status and body.
func (c *Client) FetchOrders(ctx context.Context, accessToken, sellerID string, dateFrom time.Time) ([]core.Order, error) {
	var orders []core.Order
	offset := 0

	for {
		page, err := c.fetchPage(ctx, accessToken, sellerID, dateFrom, offset)
		if err != nil {
			return nil, err
		}

		for _, payload := range page.Results {
			orders = append(orders, c.toOrder(payload))
		}

		c.logger.Debug("fetched order page",
			"offset", offset,
			"results", len(page.Results),
			"total", page.Paging.Total)

		if page.Paging.Total > 0 && len(orders) >= page.Paging.Total {
			break
		}
		if len(page.Results) < c.pageSize {
			break
		}
		offset += c.pageSize
	}

	return orders, nil
}

// fetchPage retrieves one page of the order search.
func (c *Client) fetchPage(ctx context.Context, accessToken, sellerID string, dateFrom time.Time, offset int) (*ordersResponse, error) {
	endpoint := fmt.Sprintf("%s/orders/search/recent", c.baseURL)

	params := url.Values{}
	params.Set("seller", sellerID)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("sort", "date_desc")
	params.Set("date_from", dateFrom.UTC().Format(dateFromLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var page ordersResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode order page: %w", err)
	}
	return &page, nil
}

// toOrder converts a wire payload into the domain model.
func (c *Client) toOrder(payload orderPayload) core.Order {
	created, err := time.Parse(time.RFC3339, payload.DateCreated)
	if err != nil {
		c.logger.Warn("unparseable order creation date",
			"order", payload.ID,
			"date_created", payload.DateCreated)
	}

	items := make([]core.OrderItem, len(payload.OrderItems))
	for i, item := range payload.OrderItems {
		items[i] = core.OrderItem{
			Title:     item.Item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	return core.Order{
		ID:             payload.ID,
		Buyer:          payload.Buyer.Nickname,
		TotalAmount:    payload.TotalAmount,
		DateCreated:    created,
		DateCreatedRaw: payload.DateCreated,
		Status:         payload.Status,
		Items:          items,
	}
}
