// internal/api/client.go
//
// HTTP client for the POS backend. This is the snapshot fetcher plus
// the two side-effecting commands (clear table, place order) and the
// restaurant metadata read. The client is stateless apart from the
// credentials it is given; every call maps its failure into the
// four-way taxonomy in errors.go.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tableside/internal/credentials"
	"tableside/internal/order"
)

const defaultTimeout = 10 * time.Second

// Client talks to one restaurant's backend on behalf of one operator.
type Client struct {
	base     string
	creds    credentials.Credentials
	http     *http.Client
	validate *validator.Validate
}

// Restaurant is the display metadata behind GET /admin/{id}/details.
// It is consumed only by presentation collaborators (console header,
// receipt formatting); nothing in the core depends on it.
type Restaurant struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Logo    string `json:"logo"`
}

// PlaceOrderItem is one cart line in an order placement request.
type PlaceOrderItem struct {
	ItemID   string  `json:"itemId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// PlaceOrderRequest is the POST /order payload. Total is computed
// client-side from the cart, mirroring what the backend expects.
type PlaceOrderRequest struct {
	RestaurantID string           `json:"restaurantId"`
	TableNumber  string           `json:"tableNumber"`
	Items        []PlaceOrderItem `json:"items"`
	Total        float64          `json:"total"`
}

// NewClient builds a client for the given API base URL. A zero timeout
// falls back to the default.
func NewClient(base string, creds credentials.Credentials, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:     strings.TrimRight(base, "/"),
		creds:    creds,
		http:     &http.Client{Timeout: timeout},
		validate: validator.New(),
	}
}

// Orders fetches the current full order list for the restaurant. On
// any failure the caller must treat the cycle as a no-op; nothing here
// mutates state.
func (c *Client) Orders(ctx context.Context) ([]order.Order, error) {
	if !c.creds.Present() {
		return nil, fmt.Errorf("api: fetch orders: %w: %w", credentials.ErrNotAuthenticated, ErrUnauthorized)
	}
	body, err := c.get(ctx, fmt.Sprintf("/admin/%s/orders", url.PathEscape(c.creds.RestaurantID)))
	if err != nil {
		return nil, fmt.Errorf("api: fetch orders: %w", err)
	}
	var orders []order.Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("api: fetch orders: decode: %v: %w", err, ErrMalformedResponse)
	}
	for i := range orders {
		if err := c.validate.Struct(&orders[i]); err != nil {
			return nil, fmt.Errorf("api: fetch orders: record %d invalid: %v: %w", i, err, ErrMalformedResponse)
		}
	}
	return orders, nil
}

// RestaurantDetails fetches the restaurant's display metadata.
func (c *Client) RestaurantDetails(ctx context.Context) (Restaurant, error) {
	if !c.creds.Present() {
		return Restaurant{}, fmt.Errorf("api: fetch details: %w: %w", credentials.ErrNotAuthenticated, ErrUnauthorized)
	}
	body, err := c.get(ctx, fmt.Sprintf("/admin/%s/details", url.PathEscape(c.creds.RestaurantID)))
	if err != nil {
		return Restaurant{}, fmt.Errorf("api: fetch details: %w", err)
	}
	var details Restaurant
	if err := json.Unmarshal(body, &details); err != nil {
		return Restaurant{}, fmt.Errorf("api: fetch details: decode: %v: %w", err, ErrMalformedResponse)
	}
	return details, nil
}

// ClearTable sends the close command for a table. On success the
// caller is expected to trigger an immediate snapshot refresh; on
// failure no local state may change.
func (c *Client) ClearTable(ctx context.Context, table string) error {
	if !c.creds.Present() {
		return fmt.Errorf("api: clear table: %w: %w", credentials.ErrNotAuthenticated, ErrUnauthorized)
	}
	if err := c.post(ctx, fmt.Sprintf("/clearTable/%s", url.PathEscape(table)), nil, "clear table"); err != nil {
		return fmt.Errorf("api: clear table %s: %w", table, err)
	}
	return nil
}

// PlaceOrder submits a new order. The cart UI lives elsewhere; this is
// only the command boundary with rejection reporting.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) error {
	if !c.creds.Present() {
		return fmt.Errorf("api: place order: %w: %w", credentials.ErrNotAuthenticated, ErrUnauthorized)
	}
	if req.RestaurantID == "" {
		req.RestaurantID = c.creds.RestaurantID
	}
	if err := c.post(ctx, "/order", req, "place order"); err != nil {
		return fmt.Errorf("api: place order: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := c.checkStatus(resp, ""); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %v: %w", err, ErrUnavailable)
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, op string) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp, op)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnavailable)
	}
	return resp, nil
}

// checkStatus maps a non-2xx response into the taxonomy. When op is
// non-empty the call was a command, so client errors become typed
// rejections carrying the server's reason.
func (c *Client) checkStatus(resp *http.Response, op string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnavailable)
	case op != "":
		return &RejectionError{Op: op, Status: resp.StatusCode, Reason: readReason(resp.Body)}
	default:
		// A 4xx on a read (unknown restaurant id, moved route) is a
		// backend-side problem, not a schema violation.
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnavailable)
	}
}

// readReason pulls the backend's {"message": ...} out of an error body.
func readReason(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return payload.Message
}
