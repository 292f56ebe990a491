package network

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bnema/addonctl/internal/addons"
)

// ChunkSize is the largest slice of the body read and written at once
const ChunkSize = 8000

// Phase is the state of a single download
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseRequesting
	PhaseStreaming
	PhaseComplete
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseRequesting:
		return "requesting"
	case PhaseStreaming:
		return "streaming"
	case PhaseComplete:
		return "complete"
	case PhaseAborted:
		return "aborted"
	default:
		return "not started"
	}
}

// Progress is reported on every phase change and after every written chunk
type Progress struct {
	AddonID string
	Phase   Phase
	Chunk   int   // Chunks written so far
	Written int64 // Bytes written so far
	Total   int64 // Content length, -1 when unknown
	Err     error // Set when Phase is PhaseAborted
}

// Observer receives download progress. It is called from the downloading
// goroutine and must not block for long.
type Observer func(Progress)

// DownloadAddon streams the archive at addon.RemoteURL into <dir>/<addon id>,
// overwriting any existing file. On a read or write failure the bytes already
// written stay on disk and the returned FetchError says how many there are.
func (c *Client) DownloadAddon(ctx context.Context, addon *addons.Addon, dir string, observe Observer) (string, error) {
	if addon.RemoteURL == "" {
		return "", fmt.Errorf("%w: %s", ErrNoRemoteURL, addon.ID)
	}

	p := Progress{AddonID: addon.ID, Phase: PhaseRequesting, Total: -1}
	notify := func() {
		if observe != nil {
			observe(p)
		}
	}
	abort := func(err error) (string, error) {
		p.Phase = PhaseAborted
		p.Err = err
		notify()
		return "", err
	}

	notify()

	resp, err := c.Request(ctx, addon.RemoteURL, nil)
	if err != nil {
		return abort(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return abort(&FetchError{
			Kind: KindRequest,
			URL:  addon.RemoteURL,
			Err:  fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		})
	}

	path := filepath.Join(dir, addon.ID)
	file, err := os.Create(path)
	if err != nil {
		return abort(&FetchError{Kind: KindFileCreate, URL: addon.RemoteURL, Path: path, Err: err})
	}

	p.Phase = PhaseStreaming
	p.Total = resp.ContentLength
	notify()

	fe := streamChunks(file, resp.Body, &p, notify)
	if closeErr := file.Close(); fe == nil && closeErr != nil {
		fe = &FetchError{Kind: KindFileWrite, Err: closeErr}
	}
	if fe != nil {
		fe.URL = addon.RemoteURL
		fe.Path = path
		fe.Written = p.Written
		c.log.Error("Download aborted", "addon", addon.ID, "kind", fe.Kind, "written", p.Written, "error", fe.Err)
		return abort(fe)
	}

	p.Phase = PhaseComplete
	notify()

	c.log.Debug("Download complete", "addon", addon.ID, "path", path, "bytes", p.Written, "chunks", p.Chunk)
	return path, nil
}

// streamChunks copies body into file one chunk at a time. Each chunk is fully
// written before the next read; io.EOF ends the stream.
func streamChunks(file io.Writer, body io.Reader, p *Progress, notify func()) *FetchError {
	buf := make([]byte, ChunkSize)

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			nw, err := file.Write(buf[:n])
			p.Written += int64(nw)
			if err != nil {
				return &FetchError{Kind: KindFileWrite, Err: err}
			}
			p.Chunk++
			notify()
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return &FetchError{Kind: KindStreamRead, Err: readErr}
		}
	}
}
