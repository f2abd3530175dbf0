package transform

import (
	"strings"
	"unicode"
)

// CacheName derives the cache identifier from a function name: "_", the name
// in upper snake case, "_CACHE". FibTree becomes _FIB_TREE_CACHE.
func CacheName(funcName string) string {
	return "_" + upperSnake(funcName) + "_CACHE"
}

// InnerName derives the identifier the uncached function body is renamed to.
// The leading underscore keeps it unexported.
func InnerName(funcName string) string {
	return "_" + funcName + "_aux"
}

// KeyTypeName derives the struct type that holds a key of two or more
// parameters.
func KeyTypeName(funcName string) string {
	return "_" + funcName + "_key"
}

// ResultTypeName derives the struct type that holds the results of a function
// with more than one.
func ResultTypeName(funcName string) string {
	return "_" + funcName + "_result"
}

func upperSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
