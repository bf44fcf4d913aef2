package embed

import (
	"net/http"
	"time"
)

type options struct {
	Model  string
	Dim    int
	URL    string
	Client *http.Client
}

var defaultOptions = options{
	Model: "all-minilm",
	Dim:   DefaultDim,
	URL:   "http://localhost:11434",
}

type Option func(opts *options)

func WithModel(model string) Option {
	return func(opts *options) {
		if model != "" {
			opts.Model = model
		}
	}
}

func WithDim(dim int) Option {
	return func(opts *options) {
		opts.Dim = dim
	}
}

func WithURL(url string) Option {
	return func(opts *options) {
		if url != "" {
			opts.URL = url
		}
	}
}

func WithClient(c *http.Client) Option {
	return func(opts *options) {
		opts.Client = c
	}
}

func defaultClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
