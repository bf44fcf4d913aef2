package recipe

import (
	"strings"

	"github.com/izorzok/crawler/strutil"
)

// Category is one of the 13 fixed recipe categories of the site.
type Category struct {
	ID   int
	Name string
	Slug string // URL path fragment of the category archive
}

// CategoryLink is a category as found on the site by the category scraper.
type CategoryLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ExpectedCategoryCount is the number of categories the site publishes.
const ExpectedCategoryCount = 13

// the order is the slug matching order
var categories = [...]Category{
	{ID: 1, Name: "Eloetelek, levesek", Slug: "elotelek-levesek"},
	{ID: 2, Name: "Konnyu etelek", Slug: "konnyu-etelek"},
	{ID: 3, Name: "Haletelek", Slug: "haletelek"},
	{ID: 4, Name: "Szarnyas etelek", Slug: "szarnyas-etelek"},
	{ID: 5, Name: "Serteshus etelek", Slug: "sertes"},
	{ID: 6, Name: "Egyeb husetelek", Slug: "egyeb-husetelek"},
	{ID: 7, Name: "Koretek", Slug: "koretek"},
	{ID: 8, Name: "Sos etelek", Slug: "sos-etelek"},
	{ID: 9, Name: "Sos tesztak", Slug: "sos-tesztak"},
	{ID: 10, Name: "Kukoricas etelek", Slug: "kukoricas-etelek"},
	{ID: 11, Name: "Edes tesztak", Slug: "edes-tesztak"},
	{ID: 12, Name: "Retesek, belesek", Slug: "retesek-belesek"},
	{ID: 13, Name: "Sutemenyek, tortak", Slug: "sutemenyek-tortak"},
}

var (
	categoryByID     = make(map[int]Category, len(categories))
	categoryByFolded = make(map[string]int, len(categories))
)

func init() {
	for _, c := range categories {
		categoryByID[c.ID] = c
		categoryByFolded[strutil.Fold(c.Name)] = c.ID
	}
}

// Categories returns a copy of the category table ordered by id.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

func CategoryName(id int) (string, bool) {
	c, ok := categoryByID[id]
	return c.Name, ok
}

func ValidCategory(id int) bool {
	_, ok := categoryByID[id]
	return ok
}

// CategoryBySlug reports the first category whose slug occurs in the URL path.
func CategoryBySlug(path string) (int, bool) {
	path = strings.ToLower(path)
	for _, c := range categories {
		if strings.Contains(path, c.Slug) {
			return c.ID, true
		}
	}
	return 0, false
}

// CategoryByName matches a folded text exactly against the folded category names.
func CategoryByName(text string) (int, bool) {
	id, ok := categoryByFolded[strutil.Fold(text)]
	return id, ok
}

// CategoryContaining matches when the folded text and a folded category name
// contain one another in either direction.
func CategoryContaining(text string) (int, bool) {
	nt := strutil.Fold(text)
	if nt == "" {
		return 0, false
	}
	for _, c := range categories {
		key := strutil.Fold(c.Name)
		if strings.Contains(nt, key) || strings.Contains(key, nt) {
			return c.ID, true
		}
	}
	return 0, false
}
