package izorzok

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseIngredients(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "comma list",
			text: "Hozzávalók: 2 tojás, 1 liter tej, 20 dkg liszt",
			want: []string{"2 tojás", "1 liter tej", "20 dkg liszt"},
		},
		{
			name: "sub labels",
			text: "Hozzávalók: A töltelékhez: 3 alma. A tésztához: 2 tojás.",
			want: []string{"3 alma", "2 tojás."},
		},
		{
			name: "unaccented upper case label with dash",
			text: "HOZZAVALOK – 2 tojás; 1 liter tej",
			want: []string{"2 tojás", "1 liter tej"},
		},
		{
			name: "no delimiter after label",
			text: "Hozzávalók 4 személyre: 2 tojás, 1 liter tej",
			want: []string{"2 tojás", "1 liter tej"},
		},
		{
			name: "parenthetical remark",
			text: "Hozzávalók: 50 dkg liszt (finomliszt), 2 tojás",
			want: []string{"50 dkg liszt", "2 tojás"},
		},
		{
			name: "instructions after the list",
			text: "Hozzávalók: 2 tojás, 1 liter tej. A sütés 180 fokon 40 perc",
			want: []string{"2 tojás", "1 liter tej"},
		},
		{
			name: "bulleted lines",
			text: "Hozzávalók:\n- 2 tojás\n\n- 1 liter tej\n• 1 csipet só",
			want: []string{"2 tojás", "1 liter tej", "1 csipet só"},
		},
		{
			name: "decimal comma",
			text: "Hozzávalók: 1,5 kg liszt, 2 tojás, 0,5 l tej",
			want: []string{"1,5 kg liszt", "2 tojás", "0,5 l tej"},
		},
		{
			name: "comma without space between items",
			text: "Hozzávalók: 2 tojás,1 liter tej",
			want: []string{"2 tojás", "1 liter tej"},
		},
		{
			name: "no label",
			text: "2 tojás, 1 liter tej",
		},
		{
			name: "label only",
			text: "Hozzávalók:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIngredients(tt.text))
		})
	}
}

func TestParseIngredientsDeterministic(t *testing.T) {
	texts := []string{
		"Hozzávalók: 2 tojás,\t1 liter   tej,\n20 dkg liszt",
		"Hozzávalók: A töltelékhez: 3 alma. A tésztához: 2 tojás.",
		"hozzavalok:\r\n1 kg krumpli\r\n\t2 fej hagyma | só, bors",
	}
	for _, text := range texts {
		first := ParseIngredients(text)
		assert.Equal(t, first, ParseIngredients(text))
		require.NotEmpty(t, first, text)
		for _, item := range first {
			assert.NotEmpty(t, item)
			assert.NotContains(t, item, "\n")
			assert.NotContains(t, item, "\t")
			assert.NotContains(t, item, "\r")
		}
	}
}

func TestExtractIngredientsItalic(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="entry-content">
		<p>Nagymamám receptje.</p>
		<p><em>Hozzávalók: 2 tojás, 1 liter tej</em></p>
		<p>A tojást felverjük.</p>
	</div></body></html>`)
	assert.Equal(t, []string{"2 tojás", "1 liter tej"}, ExtractIngredients(doc))
}

func TestExtractIngredientsItalicClass(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="entry-content">
		<span style="font-style: italic">Hozzávalók: 1 kg krumpli; 2 fej hagyma</span>
	</div></body></html>`)
	assert.Equal(t, []string{"1 kg krumpli", "2 fej hagyma"}, ExtractIngredients(doc))
}

func TestExtractIngredientsHeadingList(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="entry-content">
		<h3>Hozzávalók</h3>
		<ul><li>2 tojás</li><li> 1 liter
			tej</li></ul>
		<h3>Elkészítés</h3>
		<p>Keverjük össze, majd süssük meg.</p>
	</div></body></html>`)
	assert.Equal(t, []string{"2 tojás", "1 liter tej"}, ExtractIngredients(doc))
}

func TestExtractIngredientsHeadingParagraph(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="entry-content">
		<h2>Hozzávalók</h2>
		<p>2 tojás<br>1 liter tej<br>20 dkg liszt</p>
		<h2>Elkészítés</h2>
	</div></body></html>`)
	assert.Equal(t, []string{"2 tojás", "1 liter tej", "20 dkg liszt"}, ExtractIngredients(doc))
}

func TestExtractIngredientsMissing(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="entry-content">
		<h2>Elkészítés</h2><p>Keverjük össze, majd süssük meg.</p>
	</div></body></html>`)
	got := ExtractIngredients(doc)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
