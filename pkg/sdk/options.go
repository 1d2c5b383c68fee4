package sdk

import (
	"net/http"
	"time"
)

type options struct {
	timeout    time.Duration
	httpClient *http.Client
	userAgent  string
}

func defaultOptions() options {
	return options{
		timeout:    30 * time.Second,
		httpClient: http.DefaultClient,
		userAgent:  "storyreview-sdk/" + Version,
	}
}

// Option configures the SDK client.
type Option func(*options)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}
