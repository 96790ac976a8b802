// Package webhook delivers item change notifications to outgoing webhooks.
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
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
	"github.com/felixgeelhaar/daybrief/pkg/storage"
)

// SignatureHeader carries the HMAC-SHA256 of the body when a secret is set.
const SignatureHeader = "X-Daybrief-Signature"

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Endpoint is one webhook target. An empty Events list receives everything.
// MaxRetries counts attempts after the first delivery.
type Endpoint struct {
	Name       string
	URL        string
	Secret     string
	Events     []string
	MaxRetries int
	RetryDelay time.Duration
}

func (e Endpoint) accepts(eventType string) bool {
	return len(e.Events) == 0 || slices.Contains(e.Events, eventType)
}

// Payload is the JSON body sent to webhook endpoints. Item is absent for
// deletions.
type Payload struct {
	EventType string             `json:"event_type"`
	Timestamp time.Time          `json:"timestamp"`
	ItemID    string             `json:"item_id"`
	Item      *planning.WorkItem `json:"item,omitempty"`
}

// ItemSource is the part of the item store the notifier listens to.
type ItemSource interface {
	Subscribe(handler storage.ItemEventHandler)
	Get(id string) (planning.WorkItem, error)
}

// Notifier sends outgoing webhook notifications for item events.
type Notifier struct {
	endpoints  []Endpoint
	client     *http.Client
	deadLetter *DeadLetterStore
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// NewNotifier creates a notifier. deadLetter may be nil.
func NewNotifier(endpoints []Endpoint, deadLetter *DeadLetterStore, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		deadLetter: deadLetter,
		logger:     logger,
	}
}

// Attach forwards every change in src to the configured endpoints.
func (n *Notifier) Attach(src ItemSource) {
	src.Subscribe(func(e storage.ItemEvent) {
		p := Payload{EventType: e.Type, Timestamp: e.At, ItemID: e.ItemID}
		if e.Type != storage.ItemDeleted {
			if item, err := src.Get(e.ItemID); err == nil {
				p.Item = &item
			}
		}
		n.Notify(context.Background(), p)
	})
}

// Notify sends p to all matching endpoints. Deliveries run in the background.
func (n *Notifier) Notify(ctx context.Context, p Payload) {
	body, err := json.Marshal(p)
	if err != nil {
		n.logger.Error("webhook payload marshal failed", "event", p.EventType, "error", err)
		return
	}

	for _, ep := range n.endpoints {
		if !ep.accepts(p.EventType) {
			continue
		}
		n.wg.Add(1)
		go func(ep Endpoint) {
			defer n.wg.Done()
			n.deliver(ctx, ep, p, body)
		}(ep)
	}
}

// Wait blocks until in-flight deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, ep Endpoint, p Payload, body []byte) {
	maxRetries := ep.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryDelay := ep.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	attempts := maxRetries + 1

	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  retryDelay,
		BackoffPolicy: retry.BackoffExponential,
	})
	_, err := r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.send(ctx, ep, body)
	})
	if err == nil {
		n.logger.Debug("webhook delivered", "webhook", ep.Name, "event", p.EventType, "item", p.ItemID)
		return
	}

	n.logger.Warn("webhook delivery failed", "webhook", ep.Name, "event", p.EventType, "attempts", attempts, "error", err)
	if n.deadLetter == nil {
		return
	}
	dl := DeadLetter{
		Timestamp:   time.Now(),
		WebhookName: ep.Name,
		URL:         ep.URL,
		EventType:   p.EventType,
		ItemID:      p.ItemID,
		Payload:     string(body),
		Error:       err.Error(),
		Attempts:    attempts,
	}
	if err := n.deadLetter.Append(dl); err != nil {
		n.logger.Error("dead letter append failed", "path", n.deadLetter.Path(), "error", err)
	}
}

func (n *Notifier) send(ctx context.Context, ep Endpoint, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Daybrief-Webhook/1.0")
	if ep.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, ep.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the HMAC-SHA256 of payload, prefixed with "sha256=".
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
