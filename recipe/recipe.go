package recipe

import (
	"strings"

	"github.com/izorzok/crawler/strutil"
)

// IngredientSeparator joins ingredients in flat text form (CSV column, database text).
const IngredientSeparator = " | "

// Recipe is one scraped recipe page.
type Recipe struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Year        *int     `json:"year"`
	Settlement  *string  `json:"settlement"`
	Ingredients []string `json:"ingredients"`
	CategoryID  *int     `json:"category_id"`
}

// IngredientsText is the " | " joined, whitespace normalised ingredient list.
func (r *Recipe) IngredientsText() string {
	return strutil.Spaces(strings.Join(r.Ingredients, IngredientSeparator))
}

// SplitIngredients is the inverse of IngredientsText.
func SplitIngredients(text string) []string {
	out := []string{}
	for _, p := range strings.Split(text, "|") {
		if p = strutil.Spaces(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Normalize collapses whitespace in every text field and drops empty ingredients.
func (r *Recipe) Normalize() {
	r.URL = strutil.Spaces(r.URL)
	r.Title = strutil.Spaces(r.Title)
	if r.Settlement != nil {
		s := strutil.Spaces(*r.Settlement)
		if s == "" {
			r.Settlement = nil
		} else {
			r.Settlement = &s
		}
	}
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		if i = strutil.Spaces(i); i != "" {
			ingredients = append(ingredients, i)
		}
	}
	r.Ingredients = ingredients
}

func IntPtr(i int) *int {
	return &i
}

func StringPtr(s string) *string {
	return &s
}
