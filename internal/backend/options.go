package backend

import (
	"fmt"
	"net/http"
	"time"
)

// Option mutates the Client during New()
type Option func(*Client) error

// WithHTTPClient injects a custom *http.Client for unary requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		c.http = hc
		return nil
	}
}

// WithStreamClient injects the *http.Client used for event feeds. It should
// carry no overall timeout.
func WithStreamClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil stream client")
		}
		c.stream = hc
		return nil
	}
}

// WithTimeout sets the unary request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return fmt.Errorf("negative timeout")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithUserAgent sets the User-Agent header on every request
func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		c.userAgent = ua
		return nil
	}
}

// WithCredentials binds the credentials handle at construction
func WithCredentials(creds Credentials) Option {
	return func(c *Client) error {
		c.creds = creds
		return nil
	}
}
