package sqlstorage

import (
	"github.com/izorzok/crawler/embed"
	"go.uber.org/zap"
)

type options struct {
	logger   *zap.Logger
	embedder embed.Embedder
}

var defaultOptions = options{
	logger: zap.NewNop(),
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithEmbedder enables the "RecipeEmbedding" rows; nil disables them.
func WithEmbedder(e embed.Embedder) Option {
	return func(opts *options) {
		opts.embedder = e
	}
}
