package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/http/httpguts"
)

// RequestTimeout bounds a request until its response headers arrive.
// Reading the body is not bounded.
const RequestTimeout = 5 * time.Second

// Header is a name/value pair sent with every request of a client
type Header struct {
	Name  string
	Value string
}

// Client issues GET requests that follow redirects
type Client struct {
	transport http.RoundTripper
	timeout   time.Duration
	log       *log.Logger
}

// NewClient creates a client using the default transport
func NewClient(logger *log.Logger) *Client {
	return &Client{
		transport: http.DefaultTransport,
		timeout:   RequestTimeout,
		log:       logger,
	}
}

// Request issues a GET to rawURL with the given default headers and returns
// as soon as the response headers are in. The caller owns the body.
func (c *Client) Request(ctx context.Context, rawURL string, headers []Header) (*http.Response, error) {
	client, err := c.httpClient(headers)
	if err != nil {
		return nil, &FetchError{Kind: KindRequest, URL: rawURL, Err: err}
	}

	ctx, cancel := context.WithCancelCause(ctx)
	timer := time.AfterFunc(c.timeout, func() { cancel(ErrRequestTimeout) })

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		timer.Stop()
		cancel(nil)
		return nil, &FetchError{Kind: KindRequest, URL: rawURL, Err: err}
	}

	c.log.Debug("Requesting", "url", rawURL, "headers", len(headers))

	resp, err := client.Do(req)
	fired := !timer.Stop()
	if err == nil && fired {
		// Headers arrived but the deadline passed before we could stop it.
		_ = resp.Body.Close()
		err = ErrRequestTimeout
	}
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrRequestTimeout) {
			err = fmt.Errorf("%w after %s", ErrRequestTimeout, c.timeout)
		}
		cancel(nil)
		return nil, &FetchError{Kind: KindRequest, URL: rawURL, Err: err}
	}

	c.log.Debug("Response received", "url", rawURL, "status", resp.StatusCode, "length", resp.ContentLength)

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: func() { cancel(nil) }}
	return resp, nil
}

// httpClient builds a client that follows every redirect and sets headers
// on each request it issues, redirects included
func (c *Client) httpClient(headers []Header) (*http.Client, error) {
	h := make(http.Header, len(headers))
	for _, hd := range headers {
		if !httpguts.ValidHeaderFieldName(hd.Name) {
			return nil, fmt.Errorf("invalid header name %q", hd.Name)
		}
		if !httpguts.ValidHeaderFieldValue(hd.Value) {
			return nil, fmt.Errorf("invalid value for header %q", hd.Name)
		}
		h.Add(hd.Name, hd.Value)
	}

	return &http.Client{
		Transport: &headerTransport{base: c.transport, headers: h},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return nil
		},
	}, nil
}

type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	for name, values := range t.headers {
		req.Header[name] = append([]string(nil), values...)
	}
	return t.base.RoundTrip(req)
}

// cancelOnClose releases the request context once the body is closed
type cancelOnClose struct {
	io.ReadCloser
	cancel func()
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
