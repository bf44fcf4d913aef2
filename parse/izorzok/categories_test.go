package izorzok

import (
	"testing"

	"github.com/izorzok/crawler/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCategories(t *testing.T) {
	page := `<html><body>
	<header><a href="/kategoria/receptek/hirek/">Menü</a></header>
	<ul class="categories">
		<li><a href="/kategoria/receptek/haletelek/">Halételek</a></li>
		<li><a href="/kategoria/receptek/">Összes recept</a></li>
		<li><a href="https://www.izorzok.hu/kategoria/receptek/koretek/">Köretek</a></li>
		<li><a href="/kategoria/receptek/haletelek/?rend=uj">Halételek</a></li>
		<li><a href="/rolunk/">Rólunk</a></li>
		<li><a href="/kategoria/receptek/ures/"> </a></li>
	</ul>
	</body></html>`

	got, err := ExtractCategories(BaseURL, []byte(page))
	require.NoError(t, err)
	assert.Equal(t, []recipe.CategoryLink{
		{Name: "Halételek", URL: "https://www.izorzok.hu/kategoria/receptek/haletelek/"},
		{Name: "Köretek", URL: "https://www.izorzok.hu/kategoria/receptek/koretek/"},
	}, got)
}

func TestExtractCategoriesWholePage(t *testing.T) {
	page := `<html><body><p>
		<a href="kategoria/receptek/sos-tesztak/">Sós tészták</a>
		<a href="/kategoria/hirek/">Hírek</a>
	</p></body></html>`

	got, err := ExtractCategories(BaseURL, []byte(page))
	require.NoError(t, err)
	assert.Equal(t, []recipe.CategoryLink{
		{Name: "Sós tészták", URL: "https://www.izorzok.hu/kategoria/receptek/sos-tesztak/"},
	}, got)
}
