package esi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Images probes the EVE image server for alliance logo sizes.
type Images struct {
	baseURL string
	client  *http.Client
}

// NewImages creates an image probe client. baseURL is e.g. "https://images.evetech.net".
func NewImages(baseURL string, timeout time.Duration) *Images {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Images{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// LogoURL returns the probe URL for an alliance's 128px logo.
func (i *Images) LogoURL(id int64) string {
	return fmt.Sprintf("%s/Alliance/%d_128.png", i.baseURL, id)
}

// LogoSize issues a HEAD request for the alliance logo and returns the
// declared Content-Length. The body is never fetched. A missing or
// non-numeric length is an error for that alliance.
func (i *Images) LogoSize(ctx context.Context, id int64) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, i.LogoURL(id), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := i.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probing logo for %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{Code: resp.StatusCode}
	}

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("probing logo for %d: no content-length", id)
	}
	return resp.ContentLength, nil
}
