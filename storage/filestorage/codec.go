package filestorage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/izorzok/crawler/recipe"
	"github.com/izorzok/crawler/strutil"
)

var csvHeader = []string{"url", "title", "year", "settlement", "ingredients", "category_id"}

var ErrHeader = errors.New("unexpected csv header")

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func parseOptInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// WriteCSV writes the header and one whitespace normalised row per recipe.
func WriteCSV(w io.Writer, rs []*recipe.Recipe) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rs {
		settlement := ""
		if r.Settlement != nil {
			settlement = strutil.Spaces(*r.Settlement)
		}
		row := []string{
			strutil.Spaces(r.URL),
			strutil.Spaces(r.Title),
			optInt(r.Year),
			settlement,
			r.IngredientsText(),
			optInt(r.CategoryID),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads rows written by WriteCSV. Columns are matched by header name,
// so files without category_id load as well.
func ReadCSV(r io.Reader) ([]*recipe.Recipe, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))] = i
	}
	if _, ok := col["url"]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrHeader, header)
	}
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var out []*recipe.Recipe
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		r := &recipe.Recipe{
			URL:         get(rec, "url"),
			Title:       get(rec, "title"),
			Year:        parseOptInt(get(rec, "year")),
			Settlement:  recipe.StringPtr(get(rec, "settlement")),
			Ingredients: recipe.SplitIngredients(get(rec, "ingredients")),
			CategoryID:  parseOptInt(get(rec, "category_id")),
		}
		r.Normalize()
		out = append(out, r)
	}
	return out, nil
}

// WriteJSONL writes one JSON object per line, absent values as null.
func WriteJSONL(w io.Writer, rs []*recipe.Recipe) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, r := range rs {
		row := *r
		if row.Ingredients == nil {
			row.Ingredients = []string{}
		}
		if err := enc.Encode(&row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func ReadJSONL(r io.Reader) ([]*recipe.Recipe, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var out []*recipe.Recipe
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec recipe.Recipe
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec.Normalize()
		out = append(out, &rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
