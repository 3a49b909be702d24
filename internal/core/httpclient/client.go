package httpclient

import (
	"net/http"
	"time"

	"repair-tracker/internal/core/logger"

	"go.uber.org/zap"
)

// LoggingRoundTripper logs every outbound request at debug level and failures at error level.
type LoggingRoundTripper struct {
	// Proxied executes the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs its outcome.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Named("httpclient")

	resp, err := lrt.Proxied.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// BearerRoundTripper adds an Authorization: Bearer header to requests that lack one.
type BearerRoundTripper struct {
	Token   string
	Proxied http.RoundTripper
}

// RoundTrip sets the header on a clone of req.
func (b *BearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.Token == "" || req.Header.Get("Authorization") != "" {
		return b.Proxied.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+b.Token)
	return b.Proxied.RoundTrip(r)
}

// Option customises the client built by NewClient.
type Option func(*http.Client)

// WithBearerToken authenticates every request with token.
func WithBearerToken(token string) Option {
	return func(c *http.Client) {
		c.Transport = &BearerRoundTripper{Token: token, Proxied: c.Transport}
	}
}

// NewClient returns an http.Client with request logging.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	c := &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
