package izorzok

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/izorzok/crawler/gazetteer"
	"github.com/izorzok/crawler/recipe"
)

// ParseRecipe builds a Recipe from a downloaded recipe page. Missing fields
// are left empty; only unreadable HTML is an error.
func ParseRecipe(pageURL string, body []byte, g *gazetteer.Gazetteer) (*recipe.Recipe, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return ExtractRecipe(pageURL, doc, g), nil
}

func ExtractRecipe(pageURL string, doc *goquery.Document, g *gazetteer.Gazetteer) *recipe.Recipe {
	r := &recipe.Recipe{
		URL:         pageURL,
		Title:       ExtractTitle(doc),
		Ingredients: ExtractIngredients(doc),
	}
	if y, ok := ExtractYear(doc); ok {
		r.Year = recipe.IntPtr(y)
	}
	if s, ok := ExtractSettlement(doc, g); ok {
		r.Settlement = recipe.StringPtr(s)
	}
	if id, ok := ExtractCategoryID(doc); ok {
		r.CategoryID = recipe.IntPtr(id)
	}
	r.Normalize()
	return r
}
