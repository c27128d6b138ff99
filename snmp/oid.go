// Package snmp maps OSPF6 table keys to and from SNMP object identifiers.
//
// A table row is addressed as <root>.<table>.1.<column>.<index>, where the
// index is the concatenation of the row's key components. Every component
// has a fixed arc width, so OID order within a column equals key order.
package snmp

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Oid is a sequence of arc values representing an SNMP Object Identifier.
type Oid []uint32

// ParseOID parses an OID from a dotted string (e.g., "1.3.6.1.2.1"). A
// leading dot is accepted.
func ParseOID(s string) (Oid, error) {
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return nil, errors.New("empty OID")
	}

	var arcs Oid
	for part := range strings.SplitSeq(s, ".") {
		if part == "" {
			return nil, fmt.Errorf("empty arc in OID: %s", s)
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid arc %q in OID: %s", part, s)
		}
		arcs = append(arcs, uint32(v))
	}
	return arcs, nil
}

// MustParseOID is like ParseOID but panics on error. Use for constants.
func MustParseOID(s string) Oid {
	o, err := ParseOID(s)
	if err != nil {
		panic(err)
	}
	return o
}

// String returns the dotted string representation (e.g., "1.3.6.1.2.1").
func (o Oid) String() string {
	if len(o) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(o[0]), 10))
	for _, arc := range o[1:] {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(uint64(arc), 10))
	}
	return b.String()
}

// Child returns a new OID with the given arcs appended.
func (o Oid) Child(arcs ...uint32) Oid {
	result := make(Oid, len(o), len(o)+len(arcs))
	copy(result, o)
	return append(result, arcs...)
}

// HasPrefix returns true if this OID starts with the given prefix.
func (o Oid) HasPrefix(prefix Oid) bool {
	return len(prefix) <= len(o) && slices.Equal(o[:len(prefix)], prefix)
}

// Equal returns true if the OIDs are identical.
func (o Oid) Equal(other Oid) bool {
	return slices.Equal(o, other)
}

// Compare returns -1 if o < other, 0 if equal, 1 if o > other.
// Comparison is lexicographic by arc value.
func (o Oid) Compare(other Oid) int {
	return slices.Compare(o, other)
}
