package getnext

import (
	"iter"
	"sort"
)

// Least returns the smallest element of seq that is strictly greater than
// *cur, or the smallest element overall when cur is nil. It is the usual
// body of a level function over an unsorted source.
func Least[K any](seq iter.Seq[K], cur *K, cmp func(a, b K) int) (K, bool) {
	var best K
	found := false
	for v := range seq {
		if cur != nil && cmp(v, *cur) <= 0 {
			continue
		}
		if !found || cmp(v, best) < 0 {
			best, found = v, true
		}
	}
	return best, found
}

// After returns the first element of the ascending slice s that is strictly
// greater than *cur, or s[0] when cur is nil.
func After[S ~[]E, E any](s S, cur *E, cmp func(a, b E) int) (E, bool) {
	var zero E
	i := 0
	if cur != nil {
		i = sort.Search(len(s), func(j int) bool { return cmp(s[j], *cur) > 0 })
	}
	if i >= len(s) {
		return zero, false
	}
	return s[i], true
}
