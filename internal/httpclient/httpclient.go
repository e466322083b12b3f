// Package httpclient wraps the retryablehttp.Client for outbound HTTP
// requests. Retries are disabled: nothing in this service retries
// automatically, retry policy belongs to the caller.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/hashicorp/go-retryablehttp"
)

type HTTPDoer interface {
	Do(*retryablehttp.Request) (*http.Response, error)
}

type Client struct {
	*retryablehttp.Client
}

var _ HTTPDoer = (*retryablehttp.Client)(nil)

func DefaultConfig() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	return client
}

func New(client *retryablehttp.Client) *Client {
	return &Client{
		Client: client,
	}
}

// StatusError reports a non-2xx upstream response, carrying the status
// code and body text for display to the caller.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// ExpectStatus2xx drains and closes the body on a non-2xx response and
// returns the failure as a StatusError.
func ExpectStatus2xx(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// IsUnauthorized reports whether err is an upstream 401.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized
}

// IsNetworkError reports whether err indicates the remote side was
// unreachable rather than an application failure: timeouts, cancellation,
// DNS failures, refused or dropped connections. Timeout expiry is treated
// identically to any other network failure.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// DecodeJSON decodes a single JSON object from decoder into dst,
// rejecting trailing tokens.
func DecodeJSON(dst any, decoder *json.Decoder) error {
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}

	if _, err := decoder.Token(); err != io.EOF {
		return fmt.Errorf("unexpected token after JSON object: %w", err)
	}
	return nil
}

// GetJSON issues a GET to url and decodes the 2xx response body into dst.
func (c *Client) GetJSON(ctx context.Context, url string, dst any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", req.URL.Path, err)
	}
	if err := ExpectStatus2xx(resp); err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return DecodeJSON(dst, json.NewDecoder(resp.Body))
}

// PostJSON issues a POST with a JSON-encoded body and decodes the 2xx
// response body into dst when dst is non-nil.
func (c *Client) PostJSON(ctx context.Context, url string, body, dst any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding body: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", req.URL.Path, err)
	}
	if err := ExpectStatus2xx(resp); err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if dst == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return DecodeJSON(dst, json.NewDecoder(resp.Body))
}
