package datamap

import (
	"strings"
	"unicode"
)

// IsIdentifier reports whether name is syntactically a Go identifier. Keywords
// pass this check; NormalizeIdentifier handles them separately.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// NormalizeIdentifier converts an arbitrary name into a valid snake_case Go
// identifier. Names that are already identifiers keep their characters; anything
// else has each non-ASCII-word rune replaced by '_' and a leading digit prefixed
// with '_'. Keyword collisions are suffixed with '_'.
//
// The empty string normalizes to "_".
func NormalizeIdentifier(name string) string {
	if name == "" {
		return "_"
	}
	if !IsIdentifier(name) {
		name = sanitize(name)
	}

	name = strings.ToLower(snakeCase(name))

	for IsKeyword(name) {
		name += "_"
	}
	return name
}

// sanitize replaces every rune outside [A-Za-z0-9_] with '_' and puts a '_' in
// front of a leading digit.
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, r := range name {
		if i == 0 && isASCIIDigit(r) {
			b.WriteByte('_')
		}
		if isASCIIWord(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

// snakeCase inserts '_' before an ASCII uppercase letter when either
//   - the previous rune is [a-z0-9], or
//   - it is not the first rune, the previous rune is not '_', and the next rune
//     is [a-z].
//
// Runs of uppercase letters are therefore kept together ("ABCJobs" -> "ABC_Jobs").
// Lowercasing is left to the caller.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + len(runes)/2)

	for i, r := range runes {
		if isASCIIUpper(r) && i > 0 {
			prev := runes[i-1]
			afterLowerOrDigit := isASCIILower(prev) || isASCIIDigit(prev)
			beforeLower := prev != '_' && i+1 < len(runes) && isASCIILower(runes[i+1])
			if afterLowerOrDigit || beforeLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func isASCIIWord(r rune) bool {
	return isASCIIUpper(r) || isASCIILower(r) || isASCIIDigit(r) || r == '_'
}
