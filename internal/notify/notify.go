// Package notify delivers a once-per-run summary of newly detected logos to
// a Discord webhook.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const (
	embedColor = 0x00bfff
	footerText = "Alliance Logos"
	footerIcon = "https://images.evetech.net/Alliance/1_32.png"
	pageURL    = "https://evelogos.github.io/alliancelogos/"
)

type footer struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url"`
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Footer      footer `json:"footer"`
	Timestamp   string `json:"timestamp"`
	URL         string `json:"url"`
}

type payload struct {
	Embeds []embed `json:"embeds"`
}

// Notifier posts run summaries to a webhook. A nil or empty URL disables it.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a notifier for the given webhook URL.
func New(webhookURL string, timeout time.Duration) *Notifier {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Notify posts a single summary for count newly detected logos. It is a
// logged no-op when no webhook is configured or count is zero, and a delivery
// failure is reported as an error for logging only — callers never treat it
// as fatal.
func (n *Notifier) Notify(count int, when time.Time) error {
	if count == 0 {
		return nil
	}
	if n.webhookURL == "" {
		log.Println("no webhook configured, skipping notification")
		return nil
	}

	noun := "logos"
	if count == 1 {
		noun = "logo"
	}
	body, err := json.Marshal(payload{
		Embeds: []embed{{
			Title:       "New alliance logos detected",
			Description: fmt.Sprintf("%d new alliance %s spotted today.", count, noun),
			Color:       embedColor,
			Footer:      footer{Text: footerText, IconURL: footerIcon},
			Timestamp:   when.UTC().Format(time.RFC3339),
			URL:         pageURL,
		}},
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	resp, err := n.client.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification webhook: status %d", resp.StatusCode)
	}
	return nil
}
