package methods

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/focusup-app/focusup-backend/internal/normalization"
)

var repeatedUnderscores = regexp.MustCompile(`_+`)

// Normalize lowercases a method name, strips diacritics, and collapses
// whitespace runs into single underscores. Idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	s := normalization.ParseInputString(name)
	s = normalization.StripDiacritics(s)
	s = strings.Join(strings.Fields(s), "_")
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return s
}

// Resolve maps a free-text method name to its registry key. Lookup order:
// normalized form as a registry key, raw input in the alias table, normalized
// input in the alias table.
func Resolve(name string) (MethodType, error) {
	normalized := Normalize(name)

	if _, ok := registry[MethodType(normalized)]; ok {
		return MethodType(normalized), nil
	}
	if mt, ok := aliases[name]; ok {
		return mt, nil
	}
	if mt, ok := aliases[normalized]; ok {
		return mt, nil
	}
	return "", fmt.Errorf("method type not recognized: %q (normalized %q)", name, normalized)
}
