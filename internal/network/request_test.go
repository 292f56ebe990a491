package network

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(transport http.RoundTripper) *Client {
	c := NewClient(log.New(io.Discard))
	if transport != nil {
		c.transport = transport
	}
	return c
}

func TestRequestFollowsRedirectsWithHeaders(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	record := func(r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r.Header.Get("X-Token"))
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		http.Redirect(w, r, "/hop", http.StatusFound)
	})
	mux.HandleFunc("/hop", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		_, _ = io.WriteString(w, "payload")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := newTestClient(nil).Request(context.Background(), srv.URL+"/start", []Header{{Name: "X-Token", Value: "secret"}})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "payload", string(body))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"secret", "secret", "secret"}, seen)
}

func TestRequestRejectsInvalidHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header Header
	}{
		{name: "name with space", header: Header{Name: "Bad Header", Value: "x"}},
		{name: "value with newline", header: Header{Name: "X-Ok", Value: "a\nb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(roundTripFunc(func(*http.Request) (*http.Response, error) {
				t.Fatal("request must not be sent")
				return nil, nil
			}))

			_, err := c.Request(context.Background(), "https://example.com", []Header{tt.header})
			require.Error(t, err)
			assert.True(t, IsKind(err, KindRequest))
		})
	}
}

func TestRequestTransportFailure(t *testing.T) {
	boom := errors.New("connection refused")
	c := newTestClient(roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	}))

	_, err := c.Request(context.Background(), "https://example.com/a.zip", nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRequest))
	assert.ErrorIs(t, err, boom)
}

func TestRequestTimesOutWaitingForHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := newTestClient(nil)
	c.timeout = 50 * time.Millisecond

	_, err := c.Request(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRequest))
	assert.ErrorIs(t, err, ErrRequestTimeout)
}

func TestRequestDoesNotBoundStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "first ")
		w.(http.Flusher).Flush()
		time.Sleep(150 * time.Millisecond)
		_, _ = io.WriteString(w, "second")
	}))
	defer srv.Close()

	c := newTestClient(nil)
	c.timeout = 50 * time.Millisecond

	resp, err := c.Request(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "first second", string(body))
}

func TestFetchErrorMessage(t *testing.T) {
	err := &FetchError{Kind: KindStreamRead, URL: "https://example.com/a", Path: "/tmp/a", Written: 42, Err: errors.New("reset")}
	assert.Equal(t, "stream_read: https://example.com/a -> /tmp/a (42 bytes written): reset", err.Error())

	err = &FetchError{Kind: KindRequest, URL: "https://example.com/a", Err: errors.New("refused")}
	assert.Equal(t, "request: https://example.com/a: refused", err.Error())
	assert.False(t, IsKind(errors.New("plain"), KindRequest))
}
