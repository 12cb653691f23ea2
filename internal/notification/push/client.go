// Package push delivers notification events to an external webhook endpoint.
package push

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
)

// PushEventJSON POSTs the raw notification event JSON (Kafka message value) to
// the webhook URL. Returns an error if the request fails or the endpoint
// responds with a non-2xx status.
func PushEventJSON(ctx context.Context, webhookURL string, rawJSON []byte) error {
	if strings.TrimSpace(webhookURL) == "" {
		return fmt.Errorf("push: webhook URL is empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(rawJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push: webhook returned %s", resp.Status)
	}
	return nil
}
