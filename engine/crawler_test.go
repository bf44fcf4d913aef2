package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/izorzok/crawler/gazetteer"
	"github.com/izorzok/crawler/parse/izorzok"
	"github.com/izorzok/crawler/recipe"
	"github.com/izorzok/crawler/spider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	saved   []*recipe.Recipe
	flushes int
}

func (m *memStorage) Save(rs ...*recipe.Recipe) error {
	m.saved = append(m.saved, rs...)
	return nil
}

func (m *memStorage) Flush(context.Context) error {
	m.flushes++
	return nil
}

const pagination = `<div class="nav-links"><a class="page-numbers" href="/kategoria/receptek/page/2/">2</a></div>`

func listing(links ...string) string {
	body := "<html><body><main>"
	for _, l := range links {
		body += fmt.Sprintf(`<article><h2 class="entry-title"><a href="%s">x</a></h2></article>`, l)
	}
	return body + "</main>" + pagination + "</body></html>"
}

func recipePage(title string) string {
	return fmt.Sprintf(`<html><body><article><h1 class="entry-title">%s</h1>
		<div class="entry-content"><p>Év: 2015</p><p><em>Hozzávalók: 2 tojás, 1 liter tej</em></p></div>
		<span class="cat-links"><a href="/kategoria/receptek/edes-tesztak/">Édes tészták</a></span>
	</article></body></html>`, title)
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/kategoria/receptek/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listing("/palacsinta/", "/gomboc/"))
	})
	mux.HandleFunc("/kategoria/receptek/page/2/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listing("/gomboc/", "/eltunt/", "/retes/"))
	})
	mux.HandleFunc("/palacsinta/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recipePage("Palacsinta Tiszafüredről"))
	})
	mux.HandleFunc("/gomboc/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recipePage("Szilvás gombóc"))
	})
	mux.HandleFunc("/retes/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, recipePage("Rétes"))
	})
	mux.HandleFunc("/eltunt/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testFetcher() spider.Fetcher {
	return spider.NewFetchService(spider.BaseFetchType, spider.WithRetries(1), spider.WithBaseDelay(time.Millisecond))
}

func TestCrawlerRun(t *testing.T) {
	srv := newSite(t)
	store := &memStorage{}
	history := spider.NewReqHistoryRepository()

	c, err := NewCrawler(
		WithFetcher(testFetcher()),
		WithBaseURL(srv.URL+"/"),
		WithGazetteer(gazetteer.New([]string{"Tiszafüred"})),
		WithStorage(store),
		WithReqRepository(history),
	)
	require.NoError(t, err)

	got, err := c.Run(context.Background())
	require.NoError(t, err)

	var urls []string
	for _, r := range got {
		urls = append(urls, r.URL)
	}
	assert.Equal(t, []string{srv.URL + "/palacsinta/", srv.URL + "/gomboc/", srv.URL + "/retes/"}, urls)

	first := got[0]
	assert.Equal(t, "Palacsinta Tiszafüredről", first.Title)
	assert.Equal(t, recipe.IntPtr(2015), first.Year)
	assert.Equal(t, recipe.StringPtr("Tiszafüred"), first.Settlement)
	assert.Equal(t, recipe.IntPtr(11), first.CategoryID)
	assert.Equal(t, []string{"2 tojás", "1 liter tej"}, first.Ingredients)
	assert.Nil(t, got[1].Settlement)

	assert.Equal(t, got, store.saved)
	assert.Equal(t, 1, store.flushes)

	failures := history.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, srv.URL+"/eltunt/", failures[0].Req.URL)
	assert.ErrorIs(t, failures[0].Err, spider.ErrPermanent)
}

func TestCrawlerSingleURL(t *testing.T) {
	srv := newSite(t)
	c, err := NewCrawler(WithFetcher(testFetcher()), WithBaseURL(srv.URL), WithSingleURL(srv.URL+"/retes/"))
	require.NoError(t, err)

	got, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rétes", got[0].Title)
}

func TestCrawlerEndPage(t *testing.T) {
	srv := newSite(t)
	c, err := NewCrawler(WithFetcher(testFetcher()), WithBaseURL(srv.URL), WithPages(1, 1))
	require.NoError(t, err)

	reqs, err := c.Links(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, spider.RuleRecipe, reqs[0].RuleName)
}

func TestCrawlerFirstPageUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	store := &memStorage{}
	c, err := NewCrawler(WithFetcher(testFetcher()), WithBaseURL(srv.URL), WithStorage(store))
	require.NoError(t, err)

	_, err = c.Run(context.Background())
	assert.ErrorIs(t, err, izorzok.ErrFirstPage)
	assert.Zero(t, store.flushes)
}

func TestCrawlerCanceled(t *testing.T) {
	srv := newSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := NewCrawler(WithFetcher(testFetcher()), WithBaseURL(srv.URL), WithSingleURL(srv.URL+"/retes/"))
	require.NoError(t, err)

	got, err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, got)
}

func TestNewCrawlerNeedsFetcher(t *testing.T) {
	_, err := NewCrawler()
	assert.ErrorIs(t, err, ErrNoFetcher)
}
