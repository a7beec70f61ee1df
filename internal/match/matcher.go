package match

import (
	"strings"
)

// Matcher decides whether a source member name feeds a destination member name.
// Its Name takes part in configuration identity, so two matchers with the same
// name must accept the same pairs.
type Matcher struct {
	name string
	fn   func(src, dst string) bool
}

// Func wraps an arbitrary predicate. The name must be unique per behavior.
func Func(name string, fn func(src, dst string) bool) Matcher {
	if fn == nil {
		panic("matcher predicate cannot be nil")
	}

	return Matcher{name: name, fn: fn}
}

// Exact matches case-sensitive equal names. It is the default matcher.
func Exact() Matcher {
	return Matcher{name: "exact", fn: func(src, dst string) bool { return src == dst }}
}

// CaseInsensitive matches names equal under Unicode case folding.
func CaseInsensitive() Matcher {
	return Matcher{name: "ci", fn: strings.EqualFold}
}

// Prefix matches when prefix+src equals dst, e.g. Prefix("M") pairs Field with MField.
func Prefix(prefix string) Matcher {
	return Matcher{
		name: "prefix:" + prefix,
		fn:   func(src, dst string) bool { return prefix+src == dst },
	}
}

// Normalized matches names equal after NormalizeIdent.
func Normalized() Matcher {
	return Matcher{
		name: "normalized",
		fn:   func(src, dst string) bool { return NormalizeIdent(src) == NormalizeIdent(dst) },
	}
}

// Match reports whether src feeds dst. The zero Matcher behaves as Exact.
func (m Matcher) Match(src, dst string) bool {
	if m.fn == nil {
		return src == dst
	}

	return m.fn(src, dst)
}

// Name identifies the matcher.
func (m Matcher) Name() string {
	if m.fn == nil {
		return "exact"
	}

	return m.name
}

// IsZero reports whether the matcher was never set.
func (m Matcher) IsZero() bool {
	return m.fn == nil
}

// LongestPrefix returns the longest candidate that name starts with.
// Equal lengths keep the earliest candidate, so declaration order breaks ties.
func LongestPrefix(name string, candidates []string) (string, bool) {
	best, found := "", false

	for _, c := range candidates {
		if c == "" || !strings.HasPrefix(name, c) {
			continue
		}

		if !found || len(c) > len(best) {
			best, found = c, true
		}
	}

	return best, found
}
