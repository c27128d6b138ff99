package frr

import (
	"strconv"
	"strings"
)

// Interface index ranges. VLAN interfaces use their VLAN ID offset by
// VLANIfIndexBase; OSPF6 virtual links use their one-based ID offset by
// VLinkIfIndexBase.
const (
	VLANIfIndexBase  uint32 = 0
	VLANMax          uint32 = 4095
	VLinkIfIndexBase uint32 = 800000000
	VLinkMax         uint32 = 100000000 - 1
)

const (
	vlanPrefix  = "vlan"
	vlinkPrefix = "VLINK"
)

// IfIndex maps a daemon interface name to an interface index.
func IfIndex(name string) (uint32, bool) {
	switch {
	case strings.HasPrefix(name, vlanPrefix):
		n, ok := number(name[len(vlanPrefix):], 1, VLANMax)
		return VLANIfIndexBase + n, ok
	case strings.HasPrefix(name, vlinkPrefix):
		n, ok := number(name[len(vlinkPrefix):], 1, VLinkMax)
		return VLinkIfIndexBase + n, ok
	}
	return 0, false
}

// IfName maps an interface index to the daemon's interface name.
func IfName(ifx uint32) (string, bool) {
	switch {
	case IsVLink(ifx):
		return vlinkPrefix + strconv.FormatUint(uint64(ifx-VLinkIfIndexBase), 10), true
	case ifx > VLANIfIndexBase && ifx <= VLANIfIndexBase+VLANMax:
		return vlanPrefix + strconv.FormatUint(uint64(ifx-VLANIfIndexBase), 10), true
	}
	return "", false
}

// IsVLink reports whether ifx is a virtual link.
func IsVLink(ifx uint32) bool {
	return ifx > VLinkIfIndexBase && ifx <= VLinkIfIndexBase+VLinkMax
}

func number(s string, lo, hi uint32) (uint32, bool) {
	if s == "" || s[0] == '0' {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || uint32(n) < lo || uint32(n) > hi {
		return 0, false
	}
	return uint32(n), true
}
