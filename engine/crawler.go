// Package engine drives a scraping run: collect the recipe links, fetch
// and parse every recipe page one after the other, then hand the results
// to the storages.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/izorzok/crawler/limiter"
	"github.com/izorzok/crawler/parse/izorzok"
	"github.com/izorzok/crawler/recipe"
	"github.com/izorzok/crawler/spider"
	"go.uber.org/zap"
)

var ErrNoFetcher = errors.New("fetcher is required")

type Crawler struct {
	options
}

func NewCrawler(opts ...Option) (*Crawler, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.Fetcher == nil {
		return nil, ErrNoFetcher
	}
	if options.BaseURL == "" {
		options.BaseURL = izorzok.BaseURL
	}
	options.BaseURL = strings.TrimRight(options.BaseURL, "/")
	if options.Limiter == nil {
		options.Limiter = limiter.Politeness(0)
	}
	if options.History == nil {
		options.History = spider.NewReqHistoryRepository()
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	return &Crawler{options: options}, nil
}

// Links returns the recipe requests of the run in listing order without
// duplicates.
func (c *Crawler) Links(ctx context.Context) ([]*spider.Request, error) {
	if c.SingleURL != "" {
		req := spider.NewRequest(spider.RuleRecipe, c.SingleURL)
		c.History.AddVisited(req)
		c.Logger.Info("single recipe", zap.String("url", c.SingleURL))
		return []*spider.Request{req}, nil
	}

	c.Logger.Info("reading listing", zap.String("url", izorzok.ListingURL(c.BaseURL, c.StartPage)))

	var reqs []*spider.Request
	p := &izorzok.Paginator{
		Fetcher: c.Fetcher,
		Base:    c.BaseURL,
		Limit:   c.Limiter,
		Logger:  c.Logger,
	}
	err := p.Pages(ctx, c.StartPage, c.EndPage, func(page int, body []byte) error {
		links, err := izorzok.ListingLinks(c.BaseURL, body)
		if err != nil {
			c.Logger.Warn("unreadable listing page", zap.Int("page", page), zap.Error(err))
			return nil
		}
		c.Logger.Info("listing page", zap.Int("page", page), zap.Int("links", len(links)))
		for _, l := range links {
			req := spider.NewRequest(spider.RuleRecipe, l)
			if c.History.HasVisited(req) {
				continue
			}
			c.History.AddVisited(req)
			reqs = append(reqs, req)
		}
		return nil
	})
	if err != nil {
		return reqs, err
	}

	c.Logger.Info("unique recipe links", zap.Int("count", len(reqs)))
	return reqs, nil
}

// Run scrapes every recipe of the run and flushes the storages. Recipes
// whose page cannot be downloaded are left out.
func (c *Crawler) Run(ctx context.Context) ([]*recipe.Recipe, error) {
	reqs, err := c.Links(ctx)
	if err != nil {
		return nil, err
	}

	recipes := make([]*recipe.Recipe, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Limiter.Wait(ctx); err != nil {
			return recipes, err
		}
		c.Logger.Info("recipe", zap.String("progress", fmt.Sprintf("%d/%d", i+1, len(reqs))), zap.String("url", req.URL))

		r, err := c.scrape(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return recipes, ctx.Err()
			}
			c.History.AddFailures(req, err)
			c.Logger.Warn("recipe skipped", zap.String("url", req.URL), zap.Error(err))
			continue
		}
		recipes = append(recipes, r)
	}

	if n := len(c.History.Failures()); n > 0 {
		c.Logger.Warn("failed recipes", zap.Int("count", n))
	}

	for _, s := range c.Storages {
		if err := s.Save(recipes...); err != nil {
			return recipes, err
		}
		if err := s.Flush(ctx); err != nil {
			return recipes, err
		}
	}

	return recipes, nil
}

func (c *Crawler) scrape(ctx context.Context, req *spider.Request) (*recipe.Recipe, error) {
	body, err := c.Fetcher.Get(ctx, req)
	if err != nil {
		return nil, err
	}
	return izorzok.ParseRecipe(req.URL, body, c.Gazetteer)
}
