package loader

import (
	"errors"
	"net/http"
	"time"

	"github.com/erraggy/oassync"
	"github.com/erraggy/oassync/cache"
	"github.com/erraggy/oassync/logging"
)

// Defaults for a Loader.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetries       = 2
	DefaultRetryInterval = 200 * time.Millisecond
)

type config struct {
	ttl           time.Duration
	timeout       time.Duration
	retries       int
	retryInterval time.Duration
	userAgent     string
	httpClient    *http.Client
	logger        logging.Logger
	now           func() time.Time
}

// Option configures a Loader.
type Option func(*config) error

func defaultConfig() *config {
	return &config{
		ttl:           cache.DefaultTTL,
		timeout:       DefaultTimeout,
		retries:       DefaultRetries,
		retryInterval: DefaultRetryInterval,
		userAgent:     oassync.UserAgent(),
		logger:        logging.NopLogger{},
		now:           time.Now,
	}
}

// WithTTL sets how long a fetched entry is served without revalidation.
func WithTTL(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("ttl must be positive")
		}
		c.ttl = d
		return nil
	}
}

// WithTimeout bounds each fetch attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithRetries sets how many times a transient network failure is retried.
func WithRetries(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return errors.New("retries must not be negative")
		}
		c.retries = n
		return nil
	}
}

// WithRetryInterval sets the initial backoff between retries.
func WithRetryInterval(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return errors.New("retry interval must be positive")
		}
		c.retryInterval = d
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with remote fetches.
func WithUserAgent(ua string) Option {
	return func(c *config) error {
		if ua != "" {
			c.userAgent = ua
		}
		return nil
	}
}

// WithHTTPClient sets the underlying HTTP client used for remote fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *config) error {
		c.logger = logging.OrNop(l)
		return nil
	}
}

// WithClock overrides the time source used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return errors.New("clock must not be nil")
		}
		c.now = now
		return nil
	}
}
