// Package textfold normalizes free text for case- and diacritic-insensitive matching.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Vietnamese "đ" has no combining-mark decomposition.
var replacer = strings.NewReplacer("đ", "d", "Đ", "d")

// Fold lowercases s and strips combining marks, so "Điện Thoại" becomes "dien thoai".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, replacer.Replace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Terms splits s into folded, de-duplicated search terms.
func Terms(s string) []string {
	fields := strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

// Document builds the folded text a record is matched against.
func Document(parts ...string) string {
	return " " + strings.Join(Terms(strings.Join(parts, " ")), " ") + " "
}
