package renamer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go_renamer/core"
)

// Fetcher downloads file bytes over HTTP with a hard size ceiling.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. A nil client gets a default with sane
// timeouts; per-request deadlines still come from the caller's context.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Fetcher{client: client}
}

// Fetch retrieves the download body, refusing anything larger than maxSize.
// The declared Content-Length is checked first so oversize files are
// rejected before transfer; servers that lie are caught by reading one byte
// past the limit.
func (f *Fetcher) Fetch(ctx context.Context, url string, maxSize int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.ErrTransport(fmt.Sprintf("invalid URL: %v", err))
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.ErrTransport(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.ErrTransport(fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url))
	}

	if resp.ContentLength > maxSize {
		return nil, core.ErrTransport(fmt.Sprintf("file is %d bytes, limit is %d", resp.ContentLength, maxSize))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, core.ErrTransport(err.Error())
	}
	if int64(len(data)) > maxSize {
		return nil, core.ErrTransport(fmt.Sprintf("file exceeds the %d byte limit", maxSize))
	}
	return data, nil
}
