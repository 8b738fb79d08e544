package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

// isLowercase reports whether s has at least one cased rune and no uppercase runes.
func isLowercase(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

// isCapWords reports whether s, ignoring leading underscores, starts with an
// uppercase rune and contains no further underscores.
func isCapWords(s string) bool {
	stripped := strings.TrimLeft(s, "_")
	first, _ := utf8.DecodeRuneInString(stripped)
	if stripped == "" || !unicode.IsUpper(first) {
		return false
	}
	return !strings.Contains(stripped, "_")
}

// hasCamelSuffix reports whether s is prefix immediately followed by an uppercase rune.
func hasCamelSuffix(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(first)
}

// definedElsewhere reports whether the decorators mark the definition as an
// override or overload, whose name is dictated by another definition.
func definedElsewhere(decorators []syntax.Decorator, sem semantic.Model) bool {
	return semantic.IsOverride(decorators, sem) || semantic.IsOverload(decorators, sem)
}
