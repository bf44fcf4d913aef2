// Package izorzok holds the parsing rules for www.izorzok.hu: listing
// pagination, recipe permalinks, recipe fields and the category index.
//
// Every rule is a heuristic over WordPress theme markup. A redesign of the
// site will silently break them; a run that suddenly finds no links or no
// ingredients is the symptom to look for.
package izorzok

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const BaseURL = "https://www.izorzok.hu"

func ListingURL(base string, page int) string {
	if page <= 1 {
		return base + "/kategoria/receptek/"
	}
	return fmt.Sprintf("%s/kategoria/receptek/page/%d/", base, page)
}

func CategoriesURL(base string) string {
	return base + "/receptek/"
}

func SettlementsURL(base string) string {
	return base + "/helyszinek/"
}

// strategy is one way of finding a value; strategies are tried in order
// until one reports ok.
type strategy[T any] func(doc *goquery.Document, root *goquery.Selection) (T, bool)

func firstOf[T any](doc *goquery.Document, root *goquery.Selection, strategies ...strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(doc, root); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// nodeText joins the trimmed, non-empty text nodes below sel with sep.
// Script and style contents are skipped.
func nodeText(sel *goquery.Selection, sep string) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}

// ContentRoot is the element believed to hold the article body.
func ContentRoot(doc *goquery.Document) *goquery.Selection {
	if s := doc.Find(".entry-content, .post-content, article").First(); s.Length() > 0 {
		return s
	}
	return doc.Selection
}

// absolute resolves a listing href against the site; foreign hosts and
// fragments resolve to "".
func absolute(base, href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "", strings.HasPrefix(href, "#"), strings.HasPrefix(href, "//"):
		return ""
	case strings.HasPrefix(href, "/"):
		return base + href
	case strings.HasPrefix(href, base):
		return href
	}
	return ""
}
