package menu

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxKeyWords = 3

var (
	// A leading quantity must start with a digit or fraction glyph, optionally
	// followed by one unit token.
	quantityPattern = regexp.MustCompile(`^[\d½¼¾⅓⅔][\d\s/½¼¾⅓⅔,.x×]*\s*` +
		`(?:kg|grs?|g|ml|cc|litros?|lts?|l|cdas?|cditas?|cucharadas?|cucharaditas?|` +
		`tazas?|unidad(?:es)?|u|paquetes?|latas?|sobres?|frascos?|dientes?|atados?|` +
		`planchas?|potes?|botellas?)?\b\s*`)
	numberWordPattern = regexp.MustCompile(`^(?:(?:un|una|uno|dos|tres|cuatro|cinco|medio|media|pizca|chorro|poco|mucho)\s+)+`)
	asidePattern      = regexp.MustCompile(`\([^)]*\)`)
	qualifierPattern  = regexp.MustCompile(`(?:\s*(?:c/n|a gusto|cantidad necesaria|opcional))+\s*$`)
	ofPattern         = regexp.MustCompile(`^(?:de\s+)+`)
	nonLetterPattern  = regexp.MustCompile(`[^a-z\s]`)
	spacePattern      = regexp.MustCompile(`\s+`)
)

// Fold lower-cases s and removes diacritics ("Miércoles" -> "miercoles").
func Fold(s string) string {
	// transform.Chain is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// NormalizeIngredient reduces a raw ingredient phrase to its lookup key:
// quantities, units, number words, asides, qualifiers and accents are dropped
// and at most the first three meaningful words are kept.
//
// The empty key means the phrase carries nothing to match on.
func NormalizeIngredient(raw string) string {
	key := normalizeOnce(raw)
	// Stripping can expose another strippable prefix; repeat until stable so
	// that normalizing a key is a no-op.
	for range 4 {
		next := normalizeOnce(key)
		if next == key {
			break
		}
		key = next
	}
	return key
}

func normalizeOnce(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = quantityPattern.ReplaceAllString(s, "")
	s = numberWordPattern.ReplaceAllString(s, "")
	s = asidePattern.ReplaceAllString(s, "")
	s = qualifierPattern.ReplaceAllString(s, "")
	s = Fold(s)
	s = ofPattern.ReplaceAllString(strings.TrimSpace(s), "")
	s = nonLetterPattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))

	words := make([]string, 0, maxKeyWords)
	for _, w := range strings.Fields(s) {
		if len(w) <= 1 {
			continue
		}
		words = append(words, w)
		if len(words) == maxKeyWords {
			break
		}
	}
	return strings.Join(words, " ")
}
