package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBackoffBase = time.Second
)

// Options parameterise the retrying client.
type Options struct {
	Timeout     time.Duration // per-request timeout, default 30s
	MaxAttempts int           // default 3
	BackoffBase time.Duration // backoff is 2^attempt * BackoffBase, default 1s
	UserAgent   string
}

// Request describes a single outbound call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Timeout time.Duration // overrides Options.Timeout when positive
}

// Response carries the upstream reply with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client issues HTTP requests gated by an admission limiter and retried with
// exponential backoff. The client itself does not log; callers decide what a
// failure is worth saying.
type Client struct {
	opts    Options
	limiter *Limiter
	http    *http.Client
}

// New constructs a retrying client. limiter may be nil, in which case no
// admission control is applied.
func New(opts Options, limiter *Limiter) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}

	return &Client{
		opts:    opts,
		limiter: limiter,
		http:    &http.Client{},
	}
}

// Do executes the request, retrying transport errors and non-2xx statuses up
// to MaxAttempts with exponential backoff (2^attempt * BackoffBase between
// attempts). A rate-limit rejection propagates immediately without consuming
// retry attempts. After the final attempt the last error is wrapped in a
// RequestError carrying the attempt count.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	maxAttempts := c.opts.MaxAttempts

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Acquire(); err != nil {
				return nil, err
			}
		}

		resp, err := c.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		delay := time.Duration(1<<uint(attempt)) * c.opts.BackoffBase
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, &RequestError{Attempts: maxAttempts, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, req Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", ua)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &StatusError{
			Status: httpResp.StatusCode,
			Reason: http.StatusText(httpResp.StatusCode),
		}
	}

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   payload,
	}, nil
}
