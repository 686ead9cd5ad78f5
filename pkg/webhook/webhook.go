// Package webhook notifies an HTTP endpoint about finished runs.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wardrobe-project/wardrobe/pkg/logging"
	"github.com/wardrobe-project/wardrobe/pkg/model"
)

// Event is the JSON body POSTed after a run finishes, either outcome.
type Event struct {
	RunID     string        `json:"run_id"`
	Timestamp string        `json:"timestamp"`
	Job       string        `json:"job"`
	Outcome   model.Outcome `json:"outcome"`
	ExitCode  int           `json:"exit_code"`
	Duration  time.Duration `json:"duration"` // nanoseconds
}

// Notifier posts run events to a single endpoint. A nil Notifier is
// valid and sends nothing, so callers need no URL-configured check.
type Notifier struct {
	url    string
	secret string
	http   *http.Client
	log    *zap.Logger
}

// New returns a notifier for url, or nil when url is empty. The secret,
// when non-empty, signs each request body.
func New(url, secret string) *Notifier {
	if url == "" {
		return nil
	}
	return &Notifier{
		url:    url,
		secret: secret,
		http:   &http.Client{Timeout: 30 * time.Second},
		log:    logging.Named("webhook"),
	}
}

// Notify posts the event synchronously, retrying once on a 5xx response
// or transport error. Delivery failure logs a warning and is returned
// for visibility, but a run never fails because of it.
func (n *Notifier) Notify(ctx context.Context, ev Event) error {
	if n == nil {
		return nil
	}
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		lastErr = n.post(ctx, payload)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			break
		}
	}

	n.log.Warn("delivery failed",
		zap.String("url", n.url),
		zap.String("job", ev.Job),
		zap.Error(lastErr))
	return lastErr
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.code, e.body)
}

func retryable(err error) bool {
	if se, ok := err.(*statusError); ok {
		return se.code >= 500
	}
	// Transport errors get the one retry too.
	return true
}

func (n *Notifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "wardrobe-webhook/1.0")
	if n.secret != "" {
		req.Header.Set("X-Wardrobe-Signature", Sign(payload, n.secret))
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &statusError{code: resp.StatusCode, body: string(body)}
}

// Sign computes the HMAC-SHA256 signature header value for a payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
