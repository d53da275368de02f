package runner

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/erraggy/httpchain/httperrors"
)

// Transport sends a built request and returns the raw response. The
// default implementation adapts *http.Client; tests substitute a fake to
// avoid live network calls.
type Transport interface {
	Send(ctx context.Context, req *http.Request, timeout time.Duration, tlsConfig *tls.Config, allowRedirects bool) (*http.Response, error)
}

// HTTPTransport adapts net/http's *http.Client to Transport. Grounded on
// httpvalidator's own choice to operate directly on *http.Request and
// *http.Response rather than a bespoke wire type.
type HTTPTransport struct {
	base *http.Client
}

// NewHTTPTransport constructs an HTTPTransport. base may be nil, in which
// case a client is built per-send from the supplied tlsConfig.
func NewHTTPTransport(base *http.Client) *HTTPTransport {
	return &HTTPTransport{base: base}
}

// Send issues req with the given timeout, TLS policy, and redirect policy.
func (t *HTTPTransport) Send(ctx context.Context, req *http.Request, timeout time.Duration, tlsConfig *tls.Config, allowRedirects bool) (*http.Response, error) {
	client := t.base
	if client == nil || tlsConfig != nil || !allowRedirects {
		transport := &http.Transport{TLSClientConfig: tlsConfig}
		client = &http.Client{Transport: transport}
		if t.base != nil {
			client.Jar = t.base.Jar
		}
	}
	if !allowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		if ctx.Err() != nil {
			return nil, &httperrors.TimeoutError{URL: req.URL.String(), TimeoutSeconds: timeout.Seconds()}
		}
		return nil, &httperrors.TransportError{URL: req.URL.String(), Method: req.Method, Message: "sending request", Cause: err}
	}
	return resp, nil
}
