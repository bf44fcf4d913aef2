package engine

import (
	"github.com/izorzok/crawler/gazetteer"
	"github.com/izorzok/crawler/limiter"
	"github.com/izorzok/crawler/spider"
	"github.com/izorzok/crawler/storage"
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	Fetcher   spider.Fetcher
	Storages  []storage.Storage
	Logger    *zap.Logger
	Limiter   limiter.RateLimiter
	Gazetteer *gazetteer.Gazetteer
	History   spider.ReqHistoryRepository
	BaseURL   string
	StartPage int
	EndPage   int    // 0 means the last page
	SingleURL string // skips the listing when set
}

var defaultOptions = options{
	Logger:    zap.NewNop(),
	StartPage: 1,
}

func WithStorage(s ...storage.Storage) Option {
	return func(opts *options) {
		opts.Storages = append(opts.Storages, s...)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

func WithFetcher(fetcher spider.Fetcher) Option {
	return func(opts *options) {
		opts.Fetcher = fetcher
	}
}

// WithLimiter paces listing and recipe requests.
func WithLimiter(l limiter.RateLimiter) Option {
	return func(opts *options) {
		opts.Limiter = l
	}
}

func WithGazetteer(g *gazetteer.Gazetteer) Option {
	return func(opts *options) {
		opts.Gazetteer = g
	}
}

func WithReqRepository(h spider.ReqHistoryRepository) Option {
	return func(opts *options) {
		opts.History = h
	}
}

func WithBaseURL(base string) Option {
	return func(opts *options) {
		opts.BaseURL = base
	}
}

func WithPages(start, end int) Option {
	return func(opts *options) {
		opts.StartPage = start
		opts.EndPage = end
	}
}

func WithSingleURL(u string) Option {
	return func(opts *options) {
		opts.SingleURL = u
	}
}
