// Package ocds provides a client for the public procurement search_ocds endpoint.
package ocds

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/theirongolddev/compras/internal/model"

	"golang.org/x/time/rate"
)

const (
	// DefaultEndpoint is the open-data search endpoint of the procurement portal.
	DefaultEndpoint = "https://datosabiertos.compraspublicas.gob.ec/PLATAFORMA/api/search_ocds"

	defaultTimeout = 30 * time.Second
	maxBodySize    = 16 << 20 // 16 MB
	userAgent      = "compras/1.0"
)

var (
	// ErrUnexpectedStatus indicates a non-200 response.
	ErrUnexpectedStatus = errors.New("ocds: unexpected status")
	// ErrMalformedPayload indicates a body that is not an object with a data list.
	ErrMalformedPayload = errors.New("ocds: malformed payload")
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	RatePerSec float64 // outbound requests per second; <= 0 disables limiting
	HTTPClient *http.Client
}

// Client issues search requests against the procurement API.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		endpoint: opts.Endpoint,
		timeout:  opts.Timeout,
		http:     opts.HTTPClient,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if opts.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}
	return c
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Search fetches a single page of records for q. A 200 response with an empty
// data list returns no records and no error.
func (c *Client) Search(ctx context.Context, q Query) ([]model.Record, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("ocds: rate limiter: %w", err)
		}
	}

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}

// get performs the GET request and returns the response body.
func (c *Client) get(ctx context.Context, q Query) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("ocds: parsing endpoint: %w", err)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	params := u.Query()
	params.Set("year", strconv.Itoa(q.Year))
	params.Set("search", q.Search)
	params.Set("page", strconv.Itoa(page))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ocds: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	//nolint:gosec // URL comes from configuration
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocds: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("ocds: reading response: %w", err)
	}
	return body, nil
}

// decodeRecords extracts the data list from a response body. Numbers are
// kept as json.Number so the pipeline sees their original text.
func decodeRecords(body []byte) ([]model.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var env searchResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: data is not a list", ErrMalformedPayload)
	}

	records := make([]model.Record, 0, len(items))
	for _, item := range items {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		var rec model.Record
		if err := dec.Decode(&rec); err != nil || rec == nil {
			// Non-object entries carry no fields to tabulate.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
