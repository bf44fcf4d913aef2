package izorzok

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/izorzok/crawler/strutil"
	"golang.org/x/text/unicode/norm"
)

const ingredientsLabel = "hozzavalok"

var (
	subLabelRe    = regexp.MustCompile(`(^|[\s,.;])[^:]{1,40}?:\s*`)
	parenRe       = regexp.MustCompile(`\([^()]*\)`)
	instructionRe = regexp.MustCompile(`(?i)^(a\s+(f[oő]z[eé]s|s[uü]t[eé]s)|elk[eé]sz[ií]t)`)
	legacyLabelRe = regexp.MustCompile(`(?i)hozz[aá]val[oó]k\s*[:：]?`)
)

const hungarianUpper = "AÁBCDEÉFGHIÍJKLMNOÓÖŐPQRSTUÚÜŰVWXYZ"

func isLabelDelim(r rune) bool {
	switch r {
	case ':', '：', '-', '–', '—':
		return true
	}
	return false
}

func isListSep(r rune) bool {
	switch r {
	case '\n', '•', '·', ';', '|':
		return true
	}
	return false
}

// ParseIngredients extracts the ingredient list from a text holding the
// "Hozzávalók" label. It returns nil when the label is missing.
func ParseIngredients(text string) []string {
	items := parseLabeled(text)
	if len(items) == 0 {
		items = parseLegacy(text)
	}
	return finish(items)
}

// labelIndex returns the rune offset of the label and the offset right
// after it, matching accent and case insensitively.
func labelIndex(rs []rune) (int, int) {
	label := []rune(ingredientsLabel)
	folded := make([]rune, len(rs))
	for i, r := range rs {
		folded[i] = foldRune(r)
	}
	for i := 0; i+len(label) <= len(folded); i++ {
		match := true
		for j, l := range label {
			if folded[i+j] != l {
				match = false
				break
			}
		}
		if match {
			return i, i + len(label)
		}
	}
	return -1, -1
}

func foldRune(r rune) rune {
	if r < unicode.MaxASCII {
		return unicode.ToLower(r)
	}
	f := []rune(strutil.StripAccents(string(r)))
	if len(f) == 0 {
		return r
	}
	return unicode.ToLower(f[0])
}

func parseLabeled(text string) []string {
	rs := []rune(norm.NFC.String(text))
	_, end := labelIndex(rs)
	if end < 0 {
		return nil
	}

	// the tail starts after a delimiter only when it directly follows the label
	i := end
	for i < len(rs) && unicode.IsSpace(rs[i]) {
		i++
	}
	if i < len(rs) && isLabelDelim(rs[i]) {
		end = i + 1
	}

	tail := strings.TrimSpace(string(rs[end:]))
	if tail == "" {
		return nil
	}

	var parts []string
	if strings.IndexFunc(tail, isListSep) >= 0 {
		parts = strings.FieldsFunc(tail, isListSep)
	} else {
		parts = splitProse(tail, false)
	}

	var items []string
	for _, p := range parts {
		p = strutil.Spaces(cleanSubLabels(p))
		if p == "" || instructionRe.MatchString(p) {
			continue
		}
		items = append(items, p)
	}
	return items
}

// splitProse splits on commas and on periods that end a sentence, that is a
// period followed by optional spaces and an uppercase letter. A comma between
// two digits is a decimal comma ("1,5 kg") and does not split. With lines
// set, newlines and semicolons split as well.
func splitProse(s string, lines bool) []string {
	rs := []rune(s)
	var parts []string
	start := 0
	for i, r := range rs {
		cut := false
		switch {
		case r == ',':
			cut = !(i > 0 && i+1 < len(rs) && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1]))
		case lines && (r == '\n' || r == ';'):
			cut = true
		case r == '.':
			j := i + 1
			for j < len(rs) && unicode.IsSpace(rs[j]) {
				j++
			}
			cut = j < len(rs) && strings.ContainsRune(hungarianUpper, rs[j])
		}
		if cut {
			parts = append(parts, string(rs[start:i]))
			start = i + 1
		}
	}
	return append(parts, string(rs[start:]))
}

func cleanSubLabels(s string) string {
	for {
		next := subLabelRe.ReplaceAllString(s, "${1}")
		if next == s {
			break
		}
		s = next
	}
	s = parenRe.ReplaceAllString(s, "")
	return strings.Trim(strutil.Spaces(s), " ;|,")
}

// parseLegacy is the older, stricter rule: the whole tail is one item
// unless it holds newlines, bullets or semicolons.
func parseLegacy(text string) []string {
	loc := legacyLabelRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	tail := strings.TrimSpace(text[loc[1]:])
	if tail == "" {
		return nil
	}

	parts := []string{tail}
	if strings.ContainsAny(tail, "\n•;") {
		parts = strings.FieldsFunc(tail, func(r rune) bool {
			return r == '\n' || r == '•' || r == ';'
		})
	}

	var items []string
	for _, p := range parts {
		p = strutil.Spaces(cutLegacyLabels(strutil.Spaces(p)))
		if p == "" || instructionRe.MatchString(p) {
			continue
		}
		items = append(items, p)
	}
	return items
}

// cutLegacyLabels removes every "label:" run back to the previous period
// or comma, then the parenthetical remarks.
func cutLegacyLabels(t string) string {
	for {
		idx := strings.IndexByte(t, ':')
		if idx < 0 {
			break
		}
		from := strings.LastIndexAny(t[:idx], ".,")
		if from < 0 {
			t = t[idx+1:]
		} else {
			t = t[:from+1] + t[idx+1:]
		}
	}
	for {
		next := parenRe.ReplaceAllString(t, "")
		if next == t {
			break
		}
		t = next
	}
	return strings.Trim(strutil.Spaces(t), " ;|·•")
}

func finish(items []string) []string {
	var out []string
	for _, it := range items {
		if it = strings.Trim(it, "-• "); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func isItalic(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "em", "i":
		return true
	}
	cls := strings.ToLower(s.AttrOr("class", ""))
	if strings.Contains(cls, "italic") || strings.Contains(cls, "emphasis") {
		return true
	}
	return strings.Contains(strings.ToLower(s.AttrOr("style", "")), "font-style: italic")
}

// italicIngredients prefers italic blocks, the site usually sets the whole
// "Hozzávalók: ..." line in italics. Any paragraph is the second choice.
func italicIngredients(_ *goquery.Document, root *goquery.Selection) ([]string, bool) {
	var items []string
	root.Find("em, i, span, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !isItalic(s) {
			return true
		}
		text := strutil.Spaces(nodeText(s, " "))
		if text == "" {
			return true
		}
		items = ParseIngredients(text)
		return len(items) == 0
	})
	if len(items) > 0 {
		return items, true
	}

	root.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		items = ParseIngredients(strutil.Spaces(nodeText(s, " ")))
		return len(items) == 0
	})
	return items, len(items) > 0
}

func isHeading(name string) bool {
	return len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6'
}

// headingIngredients looks for the first label element and reads the
// ingredients from it or from the block that follows it.
func headingIngredients(_ *goquery.Document, root *goquery.Selection) ([]string, bool) {
	var label *goquery.Selection
	root.Find("h1, h2, h3, h4, h5, h6, strong, b, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strutil.Fold(nodeText(s, " ")), ingredientsLabel) {
			label = s
			return false
		}
		return true
	})
	if label == nil {
		return nil, false
	}

	if items := ParseIngredients(nodeText(label, " ")); len(items) > 0 {
		return items, true
	}

	var items []string
	for cur := label.Next(); cur.Length() > 0; cur = cur.Next() {
		name := goquery.NodeName(cur)
		if isHeading(name) {
			break
		}
		cur.Find("li").Each(func(_ int, li *goquery.Selection) {
			if t := strutil.Spaces(nodeText(li, " ")); t != "" {
				items = append(items, t)
			}
		})
		if (name == "p" || name == "div") && len(items) == 0 {
			raw := nodeText(cur, "\n")
			if parsed := ParseIngredients(raw); len(parsed) > 0 {
				return parsed, true
			}
			for _, part := range splitProse(raw, true) {
				if t := strutil.Spaces(part); len([]rune(t)) > 2 {
					items = append(items, t)
				}
			}
		}
		if len(items) > 0 {
			break
		}
	}

	items = finish(items)
	return items, len(items) > 0
}

// ExtractIngredients runs the ingredient strategies over the content root.
// A page without an ingredient block yields an empty list.
func ExtractIngredients(doc *goquery.Document) []string {
	items, ok := firstOf[[]string](doc, ContentRoot(doc), italicIngredients, headingIngredients)
	if !ok {
		return []string{}
	}
	return items
}
