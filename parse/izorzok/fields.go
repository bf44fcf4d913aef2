package izorzok

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/izorzok/crawler/gazetteer"
	"github.com/izorzok/crawler/recipe"
	"github.com/izorzok/crawler/strutil"
)

const (
	titleSelector    = "h1.entry-title, .entry-title"
	timeSelector     = "time, meta[property='article:published_time']"
	crumbSelector    = "nav.breadcrumbs a, .cat-links a, .tags-links a, a[rel='category tag']"
	taxonomySelector = "nav.breadcrumbs a, .cat-links a, a[rel='category tag'], .categories a, .category a, .tags-links a"
	metaSelector     = ".entry-meta, .post-meta, .postinfo, .post-info, .meta, .entry-footer, .entry-taxonomies"

	settlementWindow = 5000
)

var (
	labeledYearRe = regexp.MustCompile(`(?i)(?:év|dátum)\s*[:–-]?\s*(20\d{2}|19\d{2})`)
	yearRe        = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)
)

func ExtractTitle(doc *goquery.Document) string {
	return strutil.Spaces(nodeText(doc.Find(titleSelector).First(), " "))
}

// ExtractYear looks for a labeled year ("Év: 2019") in the article text and
// the publication timestamps first, then for any year-like number.
func ExtractYear(doc *goquery.Document) (int, bool) {
	haystack := []string{nodeText(ContentRoot(doc), "\n")}
	doc.Find(timeSelector).Each(func(_ int, s *goquery.Selection) {
		v := s.AttrOr("datetime", "")
		if v == "" {
			v = s.AttrOr("content", "")
		}
		if v == "" {
			v = nodeText(s, " ")
		}
		if v != "" {
			haystack = append(haystack, v)
		}
	})
	blob := strings.Join(haystack, "\n")

	if m := labeledYearRe.FindStringSubmatch(blob); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y, true
	}
	if m := yearRe.FindStringSubmatch(blob); m != nil {
		y, _ := strconv.Atoi(m[1])
		return y, true
	}
	return 0, false
}

// ExtractSettlement matches the gazetteer against the title, the taxonomy
// links and the beginning of the article. Whole-word matches win over
// substring matches; among equals the earlier gazetteer entry wins.
func ExtractSettlement(doc *goquery.Document, g *gazetteer.Gazetteer) (string, bool) {
	if g.Len() == 0 {
		return "", false
	}

	var texts []string
	if t := doc.Find(titleSelector).First(); t.Length() > 0 {
		texts = append(texts, nodeText(t, " "))
	}
	doc.Find(crumbSelector).Each(func(_ int, a *goquery.Selection) {
		texts = append(texts, nodeText(a, " "))
	})
	texts = append(texts, strutil.Truncate(nodeText(ContentRoot(doc), " "), settlementWindow))
	blob := strutil.Fold(strings.Join(texts, " \n "))

	var found string
	g.Each(func(name, folded string) bool {
		if folded != "" && containsWord(blob, folded) {
			found = name
			return false
		}
		return true
	})
	if found != "" {
		return found, true
	}

	g.Each(func(name, folded string) bool {
		if folded != "" && strings.Contains(blob, folded) {
			found = name
			return false
		}
		return true
	})
	return found, found != ""
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// containsWord reports whether word occurs in s with no word character
// directly before or after it.
func containsWord(s, word string) bool {
	for off := 0; off <= len(s); {
		i := strings.Index(s[off:], word)
		if i < 0 {
			return false
		}
		start, end := off+i, off+i+len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		off = start + size
	}
	return false
}

type taxonomyLinks struct {
	texts []string
	paths []string
}

func collectTaxonomy(doc *goquery.Document) taxonomyLinks {
	var links taxonomyLinks
	doc.Find(taxonomySelector).Each(func(_ int, a *goquery.Selection) {
		if t := strutil.Spaces(nodeText(a, " ")); t != "" {
			links.texts = append(links.texts, t)
		}
		href := a.AttrOr("href", "")
		if href == "" {
			return
		}
		path := strings.ToLower(href)
		if u, err := url.Parse(href); err == nil {
			path = strings.ToLower(strings.Trim(u.Path, "/"))
		}
		links.paths = append(links.paths, path)
	})
	return links
}

func categoryBySlug(links taxonomyLinks) strategy[int] {
	return func(*goquery.Document, *goquery.Selection) (int, bool) {
		for _, p := range links.paths {
			if id, ok := recipe.CategoryBySlug(p); ok {
				return id, true
			}
		}
		return 0, false
	}
}

func categoryByName(links taxonomyLinks) strategy[int] {
	return func(*goquery.Document, *goquery.Selection) (int, bool) {
		for _, t := range links.texts {
			if id, ok := recipe.CategoryByName(t); ok {
				return id, true
			}
		}
		return 0, false
	}
}

func categoryContaining(links taxonomyLinks) strategy[int] {
	return func(*goquery.Document, *goquery.Selection) (int, bool) {
		for _, t := range links.texts {
			if id, ok := recipe.CategoryContaining(t); ok {
				return id, true
			}
		}
		return 0, false
	}
}

func categoryFromMeta(doc *goquery.Document, _ *goquery.Selection) (int, bool) {
	id, found := 0, false
	doc.Find(metaSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, part := range strings.Split(strutil.Spaces(nodeText(s, " ")), ",") {
			if id, found = recipe.CategoryContaining(part); found {
				return false
			}
		}
		return true
	})
	return id, found
}

// ExtractCategoryID maps the taxonomy links of a recipe page to one of the
// fixed categories.
func ExtractCategoryID(doc *goquery.Document) (int, bool) {
	links := collectTaxonomy(doc)
	return firstOf[int](doc, doc.Selection,
		categoryBySlug(links),
		categoryByName(links),
		categoryContaining(links),
		categoryFromMeta,
	)
}
