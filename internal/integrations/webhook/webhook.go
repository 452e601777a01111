package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cashlane/advance-service/internal/models"
)

const maxAttempts = 3

// Client delivers decision notifications to a configured webhook endpoint.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// Attempt describes one delivery attempt for audit recording.
type Attempt struct {
	StatusCode int
	Success    bool
}

// NewClient initializes a new webhook client. An empty URL disables delivery.
func NewClient(url string, log *logrus.Logger) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool {
	return c.url != ""
}

// NotifyDecision POSTs the decision as JSON, retrying with linear backoff.
// Every attempt is returned so the caller can record the audit trail.
func (c *Client) NotifyDecision(d *models.Decision) ([]Attempt, error) {
	if !c.Enabled() {
		return nil, nil
	}

	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal decision: %w", err)
	}

	var attempts []Attempt
	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		status, err := c.post(payload)
		success := err == nil
		attempts = append(attempts, Attempt{StatusCode: status, Success: success})
		if success {
			c.log.Infof("Webhook delivered for decision %s (attempt %d)", d.ID, i)
			return attempts, nil
		}
		lastErr = err
		c.log.Warnf("Webhook attempt %d for decision %s failed: %v", i, d.ID, err)
		if i < maxAttempts {
			time.Sleep(time.Duration(i) * time.Second)
		}
	}
	return attempts, fmt.Errorf("webhook delivery failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) post(payload []byte) (int, error) {
	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
