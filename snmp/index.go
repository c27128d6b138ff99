package snmp

import (
	"net/netip"
	"sort"
)

// Index builds a row index from key components.
type Index Oid

// Uint32 appends v as one arc. Instance IDs, ifindexes and enums use it.
func (x Index) Uint32(v uint32) Index {
	return append(x, v)
}

// ID appends a dotted-quad identifier as four arcs, most significant
// first.
func (x Index) ID(v uint32) Index {
	return append(x, v>>24, v>>16&0xff, v>>8&0xff, v&0xff)
}

// Addr appends an IPv6 address as sixteen arcs. IPv4 addresses are
// appended in their IPv4-mapped form.
func (x Index) Addr(a netip.Addr) Index {
	b := a.As16()
	for _, v := range b {
		x = append(x, uint32(v))
	}
	return x
}

// Prefix appends a network as its sixteen address arcs followed by the
// prefix length.
func (x Index) Prefix(p netip.Prefix) Index {
	return x.Addr(p.Addr()).Uint32(uint32(p.Bits()))
}

// Oid returns the index arcs.
func (x Index) Oid() Oid { return Oid(x) }

// Table describes where a table lives under a MIB root.
type Table struct {
	Arc     uint32
	Columns int
}

// Instance returns the OID of one cell: root.table.1.column.index.
func (t Table) Instance(root Oid, column uint32, index Index) Oid {
	return root.Child(t.Arc, 1, column).Child(index...)
}

// Next returns the first (column, row) pair whose instance OID follows
// after under root, given the table's row indexes in ascending order. Columns
// are numbered from 1. ok is false if no cell of the table follows after.
func (t Table) Next(root, after Oid, rows []Index) (column uint32, row int, ok bool) {
	if len(rows) == 0 {
		return 0, 0, false
	}
	for c := uint32(1); c <= uint32(t.Columns); c++ {
		base := root.Child(t.Arc, 1, c)
		switch {
		case after.HasPrefix(base):
			suffix := after[len(base):]
			i := firstAfter(rows, suffix)
			if i < len(rows) {
				return c, i, true
			}
		case base.Compare(after) > 0:
			return c, 0, true
		}
	}
	return 0, 0, false
}

// Lookup returns the (column, row) pair addressed exactly by oid.
func (t Table) Lookup(root, oid Oid, rows []Index) (column uint32, row int, ok bool) {
	prefix := root.Child(t.Arc, 1)
	if !oid.HasPrefix(prefix) || len(oid) <= len(prefix) {
		return 0, 0, false
	}
	column = oid[len(prefix)]
	if column < 1 || column > uint32(t.Columns) {
		return 0, 0, false
	}
	suffix := oid[len(prefix)+1:]
	i := firstAfter(rows, suffix) - 1
	if i >= 0 && Oid(rows[i]).Equal(suffix) {
		return column, i, true
	}
	return 0, 0, false
}

// firstAfter returns the position of the first row whose index is greater
// than suffix.
func firstAfter(rows []Index, suffix Oid) int {
	return sort.Search(len(rows), func(i int) bool {
		return Oid(rows[i]).Compare(suffix) > 0
	})
}
