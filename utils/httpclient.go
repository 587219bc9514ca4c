package utils

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// NewLimitedHTTPClient returns a client whose requests share one token bucket.
// rps <= 0 disables limiting.
func NewLimitedHTTPClient(timeout time.Duration, rps float64, burst int) *http.Client {
	c := NewHTTPClient(timeout)
	if rps <= 0 {
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.Transport = &limitedTransport{
		base:    c.Transport,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
	return c
}

type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
