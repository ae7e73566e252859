package level

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaxSize caps the body read by HTTPFetcher when MaxSize is zero.
const DefaultMaxSize = 8 << 20

// ErrTooLarge is returned for levels over the fetcher's size limit.
var ErrTooLarge = errors.New("level too large")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// HTTPFetcher fetches levels from BaseURL/<id>.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client // http.DefaultClient when nil
	MaxSize int64        // DefaultMaxSize when zero
}

func (f *HTTPFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	target := strings.TrimRight(f.BaseURL, "/") + "/" + url.PathEscape(id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	limit := f.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("GET %s: %w: over %d bytes", target, ErrTooLarge, limit)
	}
	return data, nil
}
