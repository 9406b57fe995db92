package ynab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	cbackoff "github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/TheCaffeinatedJourney/ynab-data-vault/internal/ynab/backoff"
)

// Config carries everything the client needs; nothing is read from globals.
type Config struct {
	BaseURL  string
	Token    string
	BudgetID string
	Timeout  time.Duration
	// RequestsPerHour paces requests client-side. Zero disables pacing.
	RequestsPerHour int
}

// Response is a successful reply with the "data" envelope already unwrapped.
type Response struct {
	StatusCode int
	Attempts   int
	Data       json.RawMessage
}

type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	waiter     backoff.Waiter
	log        logrus.FieldLogger
	requests   atomic.Int64
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithWaiter(waiter backoff.Waiter) Option {
	return func(c *Client) { c.waiter = waiter }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(config Config, opts ...Option) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        logrus.StandardLogger(),
	}
	if config.RequestsPerHour > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Hour/time.Duration(config.RequestsPerHour)), config.RequestsPerHour)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.waiter == nil {
		c.waiter = backoff.NewCountdownWaiter(c.log)
	}
	return c, nil
}

// Requests is the number of HTTP attempts made so far, retries included.
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

// BudgetID is the budget every typed helper targets.
func (c *Client) BudgetID() string {
	return c.config.BudgetID
}

// Fetch sends one GET per attempt and retries rate limiting, HTTP errors and
// transport failures according to policy. A malformed success body is
// returned immediately as ErrMalformedResponse.
func (c *Client) Fetch(ctx context.Context, endpoint string, query url.Values, policy backoff.Policy) (*Response, error) {
	schedule := policy.NewBackOff()
	log := c.log.WithFields(logrus.Fields{"endpoint": endpoint, "policy": policy.Name})

	for attempt := 1; ; attempt++ {
		resp, retryAfter, err := c.attempt(ctx, endpoint, query)
		if err == nil {
			resp.Attempts = attempt
			return resp, nil
		}
		if !isRetryable(err) {
			return nil, err
		}

		wait := schedule.NextBackOff()
		if wait == cbackoff.Stop {
			log.WithError(err).WithField("attempts", attempt).Error("Client.Fetch.exhausted")
			return nil, &ExhaustedError{Endpoint: endpoint, Policy: policy.Name, Attempts: attempt, Last: err}
		}
		if retryAfter > 0 {
			wait = retryAfter
		}

		log.WithError(err).WithFields(logrus.Fields{
			"attempt":     attempt,
			"waitSeconds": int(wait.Seconds()),
		}).Warn("Client.Fetch.retrying")

		if err := c.waiter.Wait(ctx, wait); err != nil {
			return nil, err
		}
	}
}

type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	_, ok := err.(*retryableError)
	return ok
}

func (c *Client) attempt(ctx context.Context, endpoint string, query url.Values) (*Response, time.Duration, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}

	target := c.config.BaseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	c.requests.Add(1)
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, &retryableError{err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, 0, &retryableError{err: fmt.Errorf("reading body: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		apiErr := parseAPIError(httpResp.StatusCode, body)
		var retryAfter time.Duration
		if httpResp.StatusCode == http.StatusTooManyRequests {
			retryAfter = parseRetryAfter(httpResp.Header.Get("Retry-After"), time.Now())
		}
		return nil, retryAfter, &retryableError{err: apiErr}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, 0, fmt.Errorf("%w: %s: missing data envelope", ErrMalformedResponse, endpoint)
	}

	return &Response{StatusCode: httpResp.StatusCode, Data: envelope.Data}, 0, nil
}

func parseAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.StatusCode = status
		return envelope.Error
	}
	return &APIError{StatusCode: status}
}

// parseRetryAfter accepts delta-seconds or an HTTP-date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
