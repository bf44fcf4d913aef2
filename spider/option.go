package spider

import (
	"net/http"
	"time"

	"github.com/izorzok/crawler/proxy"
	"go.uber.org/zap"
)

type options struct {
	Timeout   time.Duration // http超时时间
	Retries   int           // attempts per request, including the first one
	BaseDelay time.Duration // backoff unit, attempt n waits n*BaseDelay
	UserAgent string        // empty means a random browser agent per request
	Proxy     proxy.Func
	Client    *http.Client
	logger    *zap.Logger
}

var defaultOptions = options{
	logger:    zap.NewNop(),
	Timeout:   20 * time.Second,
	Retries:   3,
	BaseDelay: time.Second,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.Timeout = timeout
	}
}

func WithRetries(retries int) Option {
	return func(opts *options) {
		opts.Retries = retries
	}
}

func WithBaseDelay(delay time.Duration) Option {
	return func(opts *options) {
		opts.BaseDelay = delay
	}
}

func WithUserAgent(ua string) Option {
	return func(opts *options) {
		opts.UserAgent = ua
	}
}

func WithProxy(proxy proxy.Func) Option {
	return func(opts *options) {
		opts.Proxy = proxy
	}
}

// WithClient replaces the http client, Timeout and Proxy are then ignored.
func WithClient(c *http.Client) Option {
	return func(opts *options) {
		opts.Client = c
	}
}
