package network

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fetch failure
type ErrorKind string

const (
	KindRequest    ErrorKind = "request"     // client construction, connection, TLS, timeout, status
	KindFileCreate ErrorKind = "file_create" // destination file could not be created
	KindStreamRead ErrorKind = "stream_read" // body read failed mid-stream, partial file left
	KindFileWrite  ErrorKind = "file_write"  // chunk could not be written, partial file left
)

var (
	// ErrNoRemoteURL is returned when downloading an addon without a resolved URL
	ErrNoRemoteURL = errors.New("addon has no remote url")
	// ErrRequestTimeout is the cause of requests exceeding RequestTimeout
	ErrRequestTimeout = errors.New("request timed out")
)

// FetchError describes a failed request or download
type FetchError struct {
	Kind    ErrorKind
	URL     string
	Path    string // Destination file, empty for plain requests
	Written int64  // Bytes on disk when the download stopped
	Err     error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s -> %s (%d bytes written): %v", e.Kind, e.URL, e.Path, e.Written, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsKind checks if err wraps a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}
