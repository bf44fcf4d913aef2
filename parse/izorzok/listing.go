package izorzok

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/izorzok/crawler/limiter"
	"github.com/izorzok/crawler/spider"
	"github.com/izorzok/crawler/strutil"
	"go.uber.org/zap"
)

// ErrFirstPage means the first listing page could not be fetched, so the
// size of the listing is unknown.
var ErrFirstPage = errors.New("first listing page unavailable")

var (
	lastPageRe       = regexp.MustCompile(`page/(\d+)/?`)
	taxonomySegments = []string{"/kategoria/", "/cimke/", "/tag/", "/kategoriak/"}
)

const (
	paginationSelector = ".pagination a, .nav-links a, .page-numbers a, a.page-numbers"
	lastPageSelector   = "a[aria-label='Last'], a.last, a[rel='last']"
	mainSelector       = "main, .site-main, #main, .content-area, .primary, #content, .archive"
	articleLinkSelector = "h2.entry-title a[href], .entry-title a[href], a[rel='bookmark']"
	globalLinkSelector = "h2.entry-title a[href]"
)

// FindMaxPage returns the highest page number linked from the pagination,
// 1 when the listing is not paginated.
func FindMaxPage(doc *goquery.Document) int {
	max := 0
	doc.Find(paginationSelector).Each(func(_ int, s *goquery.Selection) {
		txt := strings.TrimSpace(nodeText(s, " "))
		if !isDigits(txt) {
			return
		}
		if n, err := strconv.Atoi(txt); err == nil && n > max {
			max = n
		}
	})
	if max > 0 {
		return max
	}

	page := 0
	doc.Find(lastPageSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := lastPageRe.FindStringSubmatch(s.AttrOr("href", ""))
		if m == nil {
			return true
		}
		page, _ = strconv.Atoi(m[1])
		return false
	})
	if page > 0 {
		return page
	}

	return 1
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// looksLikePost accepts "/{slug}/" permalinks outside the taxonomy archives.
func looksLikePost(u string) bool {
	for _, seg := range taxonomySegments {
		if strings.Contains(u, seg) {
			return false
		}
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	n := 0
	for _, s := range strings.Split(parsed.Path, "/") {
		if s != "" {
			n++
		}
	}
	return n == 1
}

// ListingLinks extracts the recipe permalinks of one listing page in
// document order without duplicates.
func ListingLinks(base string, body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return listingLinks(base, doc), nil
}

func listingLinks(base string, doc *goquery.Document) []string {
	var links []string

	container := doc.Find(mainSelector).First()
	if container.Length() == 0 {
		container = doc.Selection
	}

	container.Find("article").Each(func(_ int, article *goquery.Selection) {
		a := article.Find(articleLinkSelector).First()
		if a.Length() == 0 {
			return
		}
		if u := absolute(base, a.AttrOr("href", "")); u != "" && looksLikePost(u) {
			links = append(links, u)
		}
	})

	if len(links) == 0 {
		doc.Find(globalLinkSelector).Each(func(_ int, a *goquery.Selection) {
			if u := absolute(base, a.AttrOr("href", "")); u != "" && looksLikePost(u) {
				links = append(links, u)
			}
		})
	}

	return strutil.Unique(links)
}

type PageFunc func(page int, body []byte) error

// Paginator walks the recipe listing one page at a time.
type Paginator struct {
	Fetcher spider.Fetcher
	Base    string
	Limit   limiter.RateLimiter // optional, waited on before each page request
	Logger  *zap.Logger
}

// Pages fetches the start page, derives the last page from its pagination
// and calls fn for start..end in order. end <= 0 or beyond the last page
// means the last page. Pages that fail to download are logged and skipped.
func (p *Paginator) Pages(ctx context.Context, start, end int, fn PageFunc) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if start < 1 {
		start = 1
	}

	first, err := p.fetch(ctx, start)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrFirstPage, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(first))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFirstPage, err)
	}
	maxPage := FindMaxPage(doc)
	if end <= 0 || end > maxPage {
		end = maxPage
	}
	logger.Info("listing pagination", zap.Int("start", start), zap.Int("end", end), zap.Int("max", maxPage))

	if err := fn(start, first); err != nil {
		return err
	}

	for page := start + 1; page <= end; page++ {
		body, err := p.fetch(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("skip listing page", zap.Int("page", page), zap.Error(err))
			continue
		}
		if err := fn(page, body); err != nil {
			return err
		}
	}

	return nil
}

func (p *Paginator) fetch(ctx context.Context, page int) ([]byte, error) {
	if p.Limit != nil {
		if err := p.Limit.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req := spider.NewRequest(spider.RuleListing, ListingURL(p.Base, page))
	req.Page = page
	return p.Fetcher.Get(ctx, req)
}
