// Package gazetteer loads the list of known settlement names used to place
// a recipe on the map, and scrapes that list from the site.
package gazetteer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/izorzok/crawler/strutil"
)

// Some entries carry an occasion after a dash, e.g. "Kisgyőr – Karácsony".
var (
	enDashSuffix  = regexp.MustCompile(`\s+–\s+.*$`)
	hyphenSuffix  = regexp.MustCompile(`\s+-\s+.*$`)
	counterSuffix = regexp.MustCompile(`\s*\(\d+\)$`)
)

// Gazetteer is an ordered, duplicate free list of settlement names.
// Matching iterates in file order, so the first listed entry wins ties.
type Gazetteer struct {
	names  []string
	folded []string
}

// Clean strips the occasion suffix and surrounding whitespace of one line.
func Clean(name string) string {
	name = strings.TrimSpace(name)
	name = enDashSuffix.ReplaceAllString(name, "")
	name = hyphenSuffix.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

func New(names []string) *Gazetteer {
	g := &Gazetteer{}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = Clean(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		g.names = append(g.names, n)
		g.folded = append(g.folded, strutil.Fold(n))
	}
	return g
}

func Parse(r io.Reader) (*Gazetteer, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}
	return New(lines), nil
}

// Load reads a gazetteer file. The error wraps fs.ErrNotExist when the file is missing.
func Load(path string) (*Gazetteer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

func (g *Gazetteer) Len() int {
	if g == nil {
		return 0
	}
	return len(g.names)
}

func (g *Gazetteer) Names() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Each calls fn with every name and its folded form in file order until fn returns false.
func (g *Gazetteer) Each(fn func(name, folded string) bool) {
	if g == nil {
		return
	}
	for i := range g.names {
		if !fn(g.names[i], g.folded[i]) {
			return
		}
	}
}

// Write stores the names one per line.
func Write(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, n := range names {
		if _, err := bw.WriteString(n + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Scrape collects the settlement names from the first <select> of the
// locations page. Options look like "Abasár (6)", the episode counter is dropped.
func Scrape(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	sel := doc.Find("select").First()
	if sel.Length() == 0 {
		return nil, nil
	}

	var names []string
	sel.Find("option").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" || text == "Települések" {
			return
		}
		if name := strings.TrimSpace(counterSuffix.ReplaceAllString(text, "")); name != "" {
			names = append(names, name)
		}
	})

	return names, nil
}
