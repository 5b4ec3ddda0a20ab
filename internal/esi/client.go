// Package esi talks to the EVE Swagger Interface: the alliance catalog
// endpoints and the image server used for logo probing.
package esi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const userAgent = "alliancelogos/1.0 (alliance logo tracker)"

// StatusError is returned for non-2xx catalog responses so callers can
// distinguish "skip this id" from transport failures.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("esi: HTTP %d %s", e.Code, http.StatusText(e.Code))
}

// AllianceDetail is the subset of the alliance detail response we persist.
type AllianceDetail struct {
	Name        string `json:"name"`
	Ticker      string `json:"ticker"`
	DateFounded string `json:"date_founded"`
}

// Client fetches the alliance catalog from ESI.
type Client struct {
	baseURL    string
	datasource string
	client     *http.Client
}

// NewClient creates a catalog client. baseURL is e.g. "https://esi.evetech.net/latest".
func NewClient(baseURL, datasource string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		datasource: datasource,
		client:     &http.Client{Timeout: timeout},
	}
}

// AllianceIDs fetches the full set of alliance IDs currently known to ESI.
func (c *Client) AllianceIDs(ctx context.Context) ([]int64, error) {
	url := fmt.Sprintf("%s/alliances/?datasource=%s", c.baseURL, c.datasource)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing alliances: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var ids []int64
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("decoding alliance ids: %w", err)
	}
	return ids, nil
}

// Alliance fetches metadata for a single alliance.
// A non-2xx response is returned as a *StatusError.
func (c *Client) Alliance(ctx context.Context, id int64) (*AllianceDetail, error) {
	url := fmt.Sprintf("%s/alliances/%d/?datasource=%s", c.baseURL, id, c.datasource)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching alliance %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var detail AllianceDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decoding alliance %d: %w", id, err)
	}
	return &detail, nil
}
