// Package client provides http clients of the collaborator services
// and the json-rpc client of the swaps server.
package client

import (
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout = 60 // seconds

	maxIdleConns        int = 100
	maxIdleConnsPerHost int = 10
	maxConnsPerHost     int = 50
	idleConnTimeout     int = 90

	maxReadContentLength int64 = 1024 * 1024 * 10 // 10M
)

var httpTransport = createHTTPTransport()

// createHTTPTransport for connection re-use
func createHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxConnsPerHost:     maxConnsPerHost,
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		IdleConnTimeout:     time.Duration(idleConnTimeout) * time.Second,
	}
}

// NewRestyClient new resty client sharing the connection pool
func NewRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout * time.Second
	}
	return resty.New().
		SetTransport(httpTransport).
		SetHostURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}
