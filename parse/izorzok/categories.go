package izorzok

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/izorzok/crawler/recipe"
	"github.com/izorzok/crawler/strutil"
)

const categoryContainerSelector = "nav.category-nav, " +
	"ul.category-list, ul.categories, ul.cat-list, .categories-list, " +
	"div.categories, section.categories, .cat-links, .category-links, " +
	"aside .widget_categories, .widget .categories, " +
	"div.filter, .filters, .recipe-categories"

// catch-all entries such as "Összes recept" or "Minden kategória"
var catchAllWords = []string{"összes", "minden", "mind", "all", "össz"}

func categoryURL(base, href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return base + href
	}
	return base + "/" + href
}

// ExtractCategories collects the category archive links of the recipe
// index page, one per distinct name, in document order.
func ExtractCategories(base string, body []byte) ([]recipe.CategoryLink, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	roots := doc.Find(categoryContainerSelector)
	if roots.Length() == 0 {
		roots = doc.Selection
	}

	var out []recipe.CategoryLink
	seenNames := map[string]bool{}
	roots.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		name := strutil.Spaces(nodeText(a, " "))
		if href == "" || name == "" {
			return
		}
		u := categoryURL(base, href)
		path := strings.ToLower(u)
		if !strings.Contains(path, "kategori") || !strings.Contains(path, "/recep") {
			return
		}
		lower := strings.ToLower(name)
		for _, w := range catchAllWords {
			if strings.Contains(lower, w) {
				return
			}
		}
		if seenNames[name] {
			return
		}
		seenNames[name] = true
		out = append(out, recipe.CategoryLink{Name: name, URL: u})
	})
	return out, nil
}
