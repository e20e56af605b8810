// Package attack looks up MITRE ATT&CK data sources in the enterprise STIX
// bundle so relationship pages can link to them.
package attack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	resty "github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/ekmixon/OSSEM"
)

const (
	RequestTimeout   = 45 * time.Second
	RetryCount       = 3
	RetryWaitTime    = 100 * time.Millisecond
	RetryWaitTimeMax = 3 * time.Second
)

// Options configures a Client. A zero Timeout means RequestTimeout and a
// negative Retries means RetryCount.
type Options struct {
	URL     string
	Timeout time.Duration
	Retries int
	Logger  *zap.SugaredLogger
}

// Client downloads the STIX bundle. It only ever issues GET requests.
type Client struct {
	url  string
	http *resty.Client
}

// NewClient creates a client for the bundle at opts.URL.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	retries := opts.Retries
	if retries < 0 {
		retries = RetryCount
	}

	c := resty.New()
	if opts.Logger != nil {
		c.SetLogger(opts.Logger)
	}
	c.SetHeader("User-Agent", fmt.Sprintf("ossemdoc/%s", ossem.Version))
	c.SetTimeout(timeout)
	c.SetRetryCount(retries)
	c.SetRetryWaitTime(RetryWaitTime)
	c.SetRetryMaxWaitTime(RetryWaitTimeMax)
	c.AddRetryCondition(func(response *resty.Response, err error) bool {
		switch response.StatusCode() {
		case
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	})

	return &Client{url: opts.URL, http: c}
}

// Fetch downloads and indexes the bundle.
func (c *Client) Fetch(ctx context.Context) (*Catalog, error) {
	if c.url == "" {
		return nil, errors.New("no ATT&CK bundle URL configured")
	}

	res, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", c.url)
	}
	if res.IsError() {
		return nil, errors.Newf("GET %s | %d", c.url, res.StatusCode())
	}

	catalog, err := ParseBundle(res.Body())
	if err != nil {
		return nil, errors.Wrapf(err, "decoding bundle from %s", c.url)
	}
	return catalog, nil
}
