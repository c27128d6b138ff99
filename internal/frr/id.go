package frr

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// ParseID parses a dotted-quad router, area or link-state ID.
func ParseID(s string) (uint32, error) {
	a, err := netip.ParseAddr(s)
	if err != nil || !a.Is4() {
		return 0, fmt.Errorf("invalid dotted ID %q", s)
	}
	b := a.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// FormatID formats id as a dotted quad.
func FormatID(id uint32) string {
	return netip.AddrFrom4([4]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}).String()
}

// dottedID decodes a JSON dotted-quad string.
type dottedID uint32

func (d *dottedID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = 0
		return nil
	}
	id, err := ParseID(s)
	if err != nil {
		return err
	}
	*d = dottedID(id)
	return nil
}

// hexNumber decodes a JSON number, or a string holding a hex number with
// or without a 0x prefix.
type hexNumber uint32

func (h *hexNumber) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] != '"' {
		var n uint32
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*h = hexNumber(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid hex number %q", s)
	}
	*h = hexNumber(n)
	return nil
}
