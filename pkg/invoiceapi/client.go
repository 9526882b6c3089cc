// Package invoiceapi provides a thin JSON client for the invoice service:
// initial data, clients, invoice numbers, validation and saving.
package invoiceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HeaderAPIKey carries the shared API key on every request.
const HeaderAPIKey = "X-Api-Key"

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	ErrUnauthorized = errors.New("The invoice service rejected the API key.")
	ErrRejected     = errors.New("The invoice service rejected the request.")
)

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(HeaderAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return ErrUnauthorized
		case resp.StatusCode == http.StatusBadRequest:
			return fmt.Errorf("%w %s", ErrRejected, failureMessage(bodyBytes))
		default:
			return fmt.Errorf("Invoice service request failed (%d): %s", resp.StatusCode, failureMessage(bodyBytes))
		}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func failureMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if len(e.Errors) > 0 {
			return strings.Join(e.Errors, "; ")
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// Calls GET /api/invoice/initial
func (c *Client) GetInitialData(ctx context.Context) (Fields, error) {
	var fields Fields
	if err := c.do(ctx, http.MethodGet, "/api/invoice/initial", nil, &fields); err != nil {
		return nil, fmt.Errorf("Failed to fetch initial data: %w", err)
	}
	if fields == nil {
		fields = Fields{}
	}
	return fields, nil
}

type clientsResponse struct {
	Clients []ClientEntry `json:"clients"`
}

// Calls GET /api/clients
func (c *Client) GetClients(ctx context.Context) ([]ClientEntry, error) {
	var resp clientsResponse
	if err := c.do(ctx, http.MethodGet, "/api/clients", nil, &resp); err != nil {
		return nil, fmt.Errorf("Failed to fetch clients: %w", err)
	}
	if resp.Clients == nil {
		return []ClientEntry{}, nil
	}
	return resp.Clients, nil
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Calls POST /api/clients/add
func (c *Client) AddClient(ctx context.Context, name, address string) (*MessageResponse, error) {
	var resp MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/clients/add", ClientEntry{Name: name, Address: address}, &resp)
	if err != nil {
		return nil, fmt.Errorf("Failed to add client: %w", err)
	}
	return &resp, nil
}

type nextNumberResponse struct {
	Number string `json:"number"`
}

// Calls GET /api/invoice/next-number
func (c *Client) GetNextInvoiceNumber(ctx context.Context) (string, error) {
	var resp nextNumberResponse
	if err := c.do(ctx, http.MethodGet, "/api/invoice/next-number", nil, &resp); err != nil {
		return "", fmt.Errorf("Failed to fetch next invoice number: %w", err)
	}
	return resp.Number, nil
}

type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Calls POST /api/invoice/validate
func (c *Client) ValidateInvoice(ctx context.Context, fields Fields) (*ValidateResponse, error) {
	var resp ValidateResponse
	if err := c.do(ctx, http.MethodPost, "/api/invoice/validate", fields, &resp); err != nil {
		return nil, fmt.Errorf("Validation failed: %w", err)
	}
	return &resp, nil
}

type SaveResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	OutputPath string `json:"output_path"`
}

// Calls POST /api/invoice/save
func (c *Client) SaveInvoice(ctx context.Context, fields Fields) (*SaveResponse, error) {
	var resp SaveResponse
	if err := c.do(ctx, http.MethodPost, "/api/invoice/save", fields, &resp); err != nil {
		return nil, fmt.Errorf("Failed to save invoice: %w", err)
	}
	return &resp, nil
}

// Calls GET /health
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}
