package frr

import (
	"encoding/json"
	"fmt"
	"net/netip"
)

// Interface is one interface from CmdInterfaces.
type Interface struct {
	Name          string
	IfIndex       uint32
	Up            bool
	Enabled       bool
	Addr          netip.Prefix
	Area          uint32
	RouterID      uint32
	Cost          uint32
	State         string
	Hello         uint32
	Dead          uint32
	Retransmit    uint32
	TransmitDelay uint32
	Priority      uint8
	DR            uint32
	BDR           uint32
}

type interfaceJSON struct {
	IfUp          bool     `json:"ifUp"`
	Enabled       bool     `json:"ospf6Enabled"`
	Inet6         string   `json:"inet6"`
	Area          dottedID `json:"area"`
	RouterID      dottedID `json:"router_id"`
	Cost          uint32   `json:"cost"`
	State         string   `json:"state"`
	Hello         uint32   `json:"helloInterval"`
	Dead          uint32   `json:"deadInterval"`
	Retransmit    uint32   `json:"retransmitInterval"`
	TransmitDelay uint32   `json:"transmitDelay"`
	Priority      uint8    `json:"priority"`
	DR            dottedID `json:"drId"`
	BDR           dottedID `json:"bdrId"`
}

// ParseInterfaces parses the output of CmdInterfaces into a map keyed by
// interface index. Interfaces whose names do not map to an index are
// dropped.
//
// Both layouts the daemon has used are accepted: an object keyed by
// interface name, and a single-key wrapper holding an array of one-entry
// objects.
func ParseInterfaces(data []byte) (map[uint32]Interface, error) {
	entries, err := namedEntries(data)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", CmdInterfaces, err)
	}

	res := make(map[uint32]Interface, len(entries))
	for _, e := range entries {
		ifx, ok := IfIndex(e.name)
		if !ok {
			continue
		}
		var raw interfaceJSON
		if err := json.Unmarshal(e.value, &raw); err != nil {
			return nil, fmt.Errorf("parse %q: %s: %w", CmdInterfaces, e.name, err)
		}
		ifc := Interface{
			Name:          e.name,
			IfIndex:       ifx,
			Up:            raw.IfUp,
			Enabled:       raw.Enabled,
			Area:          uint32(raw.Area),
			RouterID:      uint32(raw.RouterID),
			Cost:          raw.Cost,
			State:         raw.State,
			Hello:         raw.Hello,
			Dead:          raw.Dead,
			Retransmit:    raw.Retransmit,
			TransmitDelay: raw.TransmitDelay,
			Priority:      raw.Priority,
			DR:            uint32(raw.DR),
			BDR:           uint32(raw.BDR),
		}
		if raw.Inet6 != "" {
			if p, err := netip.ParsePrefix(raw.Inet6); err == nil {
				ifc.Addr = p
			} else if a, err := netip.ParseAddr(raw.Inet6); err == nil {
				ifc.Addr = netip.PrefixFrom(a, a.BitLen())
			}
		}
		res[ifx] = ifc
	}
	return res, nil
}

type namedEntry struct {
	name  string
	value json.RawMessage
}

// namedEntries flattens {"name": {...}} and {"wrapper": [{"name": {...}}]}
// into a list of name/value pairs.
func namedEntries(data []byte) ([]namedEntry, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	var res []namedEntry
	for name, v := range top {
		if len(v) == 0 || v[0] != '[' {
			res = append(res, namedEntry{name, v})
			continue
		}
		var list []map[string]json.RawMessage
		if err := json.Unmarshal(v, &list); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for _, m := range list {
			for n, inner := range m {
				res = append(res, namedEntry{n, inner})
			}
		}
	}
	return res, nil
}
