// Package review publishes escalation digests to an external review channel.
package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storytrace/internal/domain"
	"storytrace/internal/ports"
)

// WebhookNotifier POSTs a JSON escalation digest to a configured endpoint.
type WebhookNotifier struct {
	url    string
	token  string
	client *http.Client
}

var _ ports.ReviewNotifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier registers the endpoint and optional bearer token.
func NewWebhookNotifier(url, token string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// PublishDigest posts the digest as JSON; any non-2xx status is an error.
func (n *WebhookNotifier) PublishDigest(ctx context.Context, digest domain.EscalationDigest) error {
	if n.url == "" || n.client == nil {
		return fmt.Errorf("review notifier misconfigured")
	}

	body, err := json.Marshal(digest)
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post digest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("review webhook error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}
