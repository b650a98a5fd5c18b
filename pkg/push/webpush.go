package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrNotConfigured is returned when the VAPID keypair is missing.
var ErrNotConfigured = errors.New("push credentials not configured")

// Subscription is the browser endpoint and keys a message is encrypted for.
type Subscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Sender delivers one encrypted payload to one subscription.
type Sender interface {
	Send(ctx context.Context, sub Subscription, payload []byte) error
}

// HTTPClient is the subset of *http.Client used for delivery.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// StatusError reports a non-2xx answer from the push service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("push service responded %d", e.StatusCode)
	}
	return fmt.Sprintf("push service responded %d: %s", e.StatusCode, e.Body)
}

// Gone reports whether the push service says the subscription no longer exists.
func (e *StatusError) Gone() bool {
	return e.StatusCode == http.StatusGone || e.StatusCode == http.StatusNotFound
}

// Options configures WebPushSender.
type Options struct {
	PublicKey  string
	PrivateKey string
	Subscriber string
	TTL        time.Duration
	HTTPClient HTTPClient
}

// WebPushSender signs with VAPID and encrypts payloads per RFC 8291.
type WebPushSender struct {
	opts Options
}

// NewWebPushSender validates the keypair and returns a sender.
func NewWebPushSender(opts Options) (*WebPushSender, error) {
	if strings.TrimSpace(opts.PublicKey) == "" || strings.TrimSpace(opts.PrivateKey) == "" {
		return nil, ErrNotConfigured
	}
	return &WebPushSender{opts: opts}, nil
}

// Send delivers payload and treats any status >= 400 as a failure.
func (s *WebPushSender) Send(ctx context.Context, sub Subscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.opts.HTTPClient,
		Subscriber:      s.opts.Subscriber,
		VAPIDPublicKey:  s.opts.PublicKey,
		VAPIDPrivateKey: s.opts.PrivateKey,
		TTL:             int(s.opts.TTL / time.Second),
	})
	if err != nil {
		return fmt.Errorf("send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// GenerateKeys returns a fresh VAPID keypair as base64url strings.
func GenerateKeys() (privateKey, publicKey string, err error) {
	privateKey, publicKey, err = webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", fmt.Errorf("generate vapid keys: %w", err)
	}
	return privateKey, publicKey, nil
}
