package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/pos/internal/domain/model"
	"github.com/RoyceAzure/lab/pos/internal/infra/metrics"
	"github.com/rs/zerolog"
)

const (
	productsPath = "/api/products"
	payPath      = "/api/pay"
	historyPath  = "/api/history"
	invoicePath  = "/invoice/%d"

	defaultRejectMessage = "request rejected"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.RequestMetrics
	logger     *zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.httpClient.Timeout = d
	}
}

func WithMetrics(m *metrics.RequestMetrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

func WithLogger(l *zerolog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	nop := zerolog.Nop()
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		logger:     &nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListProducts(ctx context.Context) (products []model.Product, err error) {
	defer c.observe("products", time.Now(), &err)
	if err = c.getJSON(ctx, "products", productsPath, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) History(ctx context.Context) (orders []model.Order, err error) {
	defer c.observe("history", time.Now(), &err)
	if err = c.getJSON(ctx, "history", historyPath, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) SaveProduct(ctx context.Context, req model.SaveProductRequest) (resp model.SaveProductResponse, err error) {
	defer c.observe("save_product", time.Now(), &err)
	err = c.postJSON(ctx, "save_product", productsPath, req, nil, &resp)
	if err != nil {
		return resp, err
	}
	if !resp.Success {
		return resp, c.reject("save_product", resp.Message)
	}
	return resp, nil
}

// Pay idempotencyKey 不為空時帶上 Idempotency-Key header
func (c *Client) Pay(ctx context.Context, req model.PayRequest, idempotencyKey string) (resp model.PayResponse, err error) {
	defer c.observe("pay", time.Now(), &err)
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	err = c.postJSON(ctx, "pay", payPath, req, headers, &resp)
	if err != nil {
		return resp, err
	}
	if !resp.Success {
		return resp, c.reject("pay", resp.Message)
	}
	return resp, nil
}

func (c *Client) InvoiceURL(orderID int64) string {
	return c.baseURL + fmt.Sprintf(invoicePath, orderID)
}

func (c *Client) reject(op, message string) error {
	if strings.TrimSpace(message) == "" {
		message = defaultRejectMessage
	}
	return &RejectionError{Op: op, Message: message}
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return transportErr(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportErr(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return transportErr(op, fmt.Errorf("status %d", resp.StatusCode))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return transportErr(op, err)
	}
	return nil
}

// postJSON 只要回應可解析成 JSON 就交給呼叫端判斷 success, 不看 status code
func (c *Client) postJSON(ctx context.Context, op, path string, payload any, headers map[string]string, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode payload: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return transportErr(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportErr(op, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return transportErr(op, fmt.Errorf("status %d: %w", resp.StatusCode, err))
	}
	return nil
}

func (c *Client) observe(op string, start time.Time, errp *error) {
	status := "ok"
	if err := *errp; err != nil {
		status = "transport_error"
		if _, ok := IsRejection(err); ok {
			status = "rejected"
		}
		c.logger.Warn().Err(err).Str("op", op).Dur("elapsed", time.Since(start)).Msg("api call failed")
	}
	c.metrics.Observe(op, status, start)
}
