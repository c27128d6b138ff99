package ospf6

import (
	"cmp"
	"iter"
	"net/netip"
)

// comparePrefix orders networks by address, then by prefix length.
func comparePrefix(a, b netip.Prefix) int {
	return cmp.Or(a.Addr().Compare(b.Addr()), cmp.Compare(a.Bits(), b.Bits()))
}

func compareAddr(a, b netip.Addr) int { return a.Compare(b) }

// keysOf yields the keys of an ID-keyed daemon map.
func keysOf[V any](m map[uint32]V) iter.Seq[ID] {
	return func(yield func(ID) bool) {
		for k := range m {
			if !yield(ID(k)) {
				return
			}
		}
	}
}

// column yields key(e) for every element of s that passes keep. A nil keep
// passes everything.
func column[E, K any](s []E, keep func(E) bool, key func(E) K) iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, e := range s {
			if keep != nil && !keep(e) {
				continue
			}
			if !yield(key(e)) {
				return
			}
		}
	}
}
