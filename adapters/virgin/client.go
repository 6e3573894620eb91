// Package virgin is the Virgin Mobile web API client. It owns the
// authenticated session and decodes the provider's history responses
// into domain records.
package virgin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"virgin-history/core/types"
	"virgin-history/core/window"
	"virgin-history/internal/errors"
	"virgin-history/internal/logging"
)

const (
	// DefaultBaseURL is the root of the provider's web API.
	DefaultBaseURL = "https://virginmobile.pl/spitfire-web-api/api/v1"

	loginPath   = "/authentication/login"
	historyPath = "/selfCare/callHistory"

	// requestTimeLayout is the timestamp encoding the API expects in
	// query parameters.
	requestTimeLayout = "2006-01-02T15:04:05"

	// responseTimeLayout is the timestamp encoding the API uses in
	// response bodies.
	responseTimeLayout = "2006-01-02T15:04:05.000-0700"
)

// Config configures the client.
type Config struct {
	// BaseURL overrides the provider API root
	BaseURL string

	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// Client is an authenticated session against the provider's API. One
// client is owned by one invocation for its whole lifetime; it is not
// shared across concurrent fetches.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger

	// set by a successful Login; history requests refuse to run
	// without it
	authenticated bool
}

// NewClient creates an unauthenticated client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Internal("failed to create cookie jar", err)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logging.Logger.Named("virgin"),
	}, nil
}

// Login establishes the session. It must succeed before any history
// request; a rejected login leaves the client unauthenticated.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Internal("failed to create login request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Auth("login request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf(errors.TypeAuth, "login rejected with status %d", resp.StatusCode)
	}

	c.authenticated = true
	c.logger.Debug("login succeeded", zap.String("username", username))
	return nil
}

// Page implements history.PageSource: it fetches one page of the call
// history for one sub-range. Transport failures and undecodable
// records are fatal; neither is retried or skipped.
func (c *Client) Page(ctx context.Context, subscriber string, win window.Window, page, size int) ([]types.Record, error) {
	if !c.authenticated {
		return nil, errors.New(errors.TypeAuth, "history requested before login")
	}

	query := url.Values{
		"start":    {win.Start.Format(requestTimeLayout)},
		"end":      {win.End.Format(requestTimeLayout)},
		"page":     {strconv.Itoa(page)},
		"pageSize": {strconv.Itoa(size)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+historyPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Internal("failed to create history request", err)
	}
	req.Header.Set("msisdn", subscriber)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting history page",
		zap.String("start", win.Start.Format(requestTimeLayout)),
		zap.String("end", win.End.Format(requestTimeLayout)),
		zap.Int("page", page))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Transport("history request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf(errors.TypeTransport,
			"history request returned status %d", resp.StatusCode)
	}

	var body historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Decode("failed to decode history response", err)
	}

	records := make([]types.Record, 0, len(body.Records))
	for i, raw := range body.Records {
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeDecode, err,
				"record %d of page %d", i, page)
		}
		records = append(records, rec)
	}
	return records, nil
}

// historyResponse is the wire shape of one history page.
type historyResponse struct {
	Records []wireRecord `json:"records"`
}

// wireRecord is one raw history element. Numeric fields arrive as
// either numbers or numeric strings, so they decode through
// json.Number.
type wireRecord struct {
	Date      string      `json:"date"`
	Type      string      `json:"type"`
	Direction string      `json:"direction"`
	Quantity  json.Number `json:"quantity"`
	Price     json.Number `json:"price"`
	Number    string      `json:"number"`
}

// decodeRecord is the single mapping point from the undocumented wire
// shape to the record model: a provider format change lands here and
// nowhere else.
func decodeRecord(raw wireRecord) (types.Record, error) {
	if raw.Date == "" {
		return types.Record{}, errors.New(errors.TypeDecode, "missing date field")
	}
	ts, err := time.Parse(responseTimeLayout, raw.Date)
	if err != nil {
		return types.Record{}, err
	}
	// The record model is second precision; drop any sub-second
	// fraction the provider sends.
	ts = ts.Truncate(time.Second)
	if raw.Type == "" {
		return types.Record{}, errors.New(errors.TypeDecode, "missing type field")
	}

	quantity, err := raw.Quantity.Int64()
	if err != nil {
		return types.Record{}, err
	}
	if quantity < 0 {
		return types.Record{}, errors.Newf(errors.TypeDecode, "negative quantity %d", quantity)
	}

	cost, err := decimal.NewFromString(raw.Price.String())
	if err != nil {
		return types.Record{}, err
	}
	if cost.IsNegative() {
		return types.Record{}, errors.Newf(errors.TypeDecode, "negative price %s", cost)
	}

	return types.Record{
		Timestamp: ts.UTC(),
		Category:  raw.Type,
		Direction: raw.Direction,
		Quantity:  quantity,
		Cost:      cost,
		Number:    raw.Number,
	}, nil
}
