package tmdb

import (
	"errors"
	"net/http"
	"time"
)

const defaultBackoff = 200 * time.Millisecond

// Transport retries replayable requests a bounded number of times. Only
// GET/HEAD requests without a body are retried, on transport errors and on
// gateway-style statuses.
type Transport struct {
	Base http.RoundTripper

	// RetryMax is the number of extra attempts after the first one.
	RetryMax int

	// Backoff grows linearly with the attempt number.
	Backoff time.Duration

	UserAgent string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	backoff := t.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var (
		resp    *http.Response
		lastErr error
	)
	for attempt := 0; attempt <= max; attempt++ {
		if attempt > 0 {
			if err := sleep(req, time.Duration(attempt)*backoff); err != nil {
				return nil, lastErrOr(lastErr, err)
			}
		}

		r := req.Clone(req.Context())
		if t.UserAgent != "" && r.Header.Get("User-Agent") == "" {
			r.Header.Set("User-Agent", t.UserAgent)
		}

		resp, lastErr = base.RoundTrip(r)
		if lastErr == nil {
			if !retryableStatus(resp.StatusCode) || attempt == max {
				return resp, nil
			}
			resp.Body.Close()
			continue
		}
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func sleep(req *http.Request, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}

func lastErrOr(last, fallback error) error {
	if last != nil {
		return last
	}
	return fallback
}

// NewHTTPClient builds the client used for TMDB calls.
func NewHTTPClient(timeout time.Duration, retryMax int) *http.Client {
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConnsPerHost:   10,
	}
	return &http.Client{
		Transport: &Transport{
			Base:      base,
			RetryMax:  retryMax,
			UserAgent: "movieview/1.0",
		},
		Timeout: timeout,
	}
}
