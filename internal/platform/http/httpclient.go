// Package http provides the outbound HTTP client shared by external integrations.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates a client for calls to third-party APIs such as the Google userinfo endpoint.
//
// http.DefaultClient has no timeout; callers always pass one here.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
