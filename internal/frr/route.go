package frr

import (
	"encoding/json"
	"fmt"
	"net/netip"
)

// Route is one (prefix, path, next hop) triple from CmdRoutes. A path with
// several next hops yields one Route per next hop.
type Route struct {
	Prefix     netip.Prefix
	Type       string
	Cost       uint32
	ExtCost    uint32
	Area       uint32
	InterArea  bool
	RouterType string
	NextHop    netip.Addr
	Ifname     string
	IfIndex    uint32
	Connected  bool
}

type routeJSON struct {
	RouteType  string        `json:"routeType"`
	Cost       uint32        `json:"cost"`
	ExtCost    uint32        `json:"ext_cost"`
	Area       dottedID      `json:"area"`
	IA         bool          `json:"IA"`
	RouterType string        `json:"routerType"`
	NextHops   []nextHopJSON `json:"nexthops"`
}

type nextHopJSON struct {
	IP       string `json:"ip"`
	Via      string `json:"via"`
	Attached string `json:"directly attached to"`
}

// ParseRoutes parses the output of CmdRoutes, an object keyed by prefix
// whose values are arrays of paths. A top-level "routes" wrapper is
// accepted. Border router entries keyed by a dotted router ID are returned
// as the IPv4-mapped /128 of that ID.
func ParseRoutes(data []byte) ([]Route, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parse %q: %w", CmdRoutes, err)
	}
	if inner, ok := top["routes"]; ok && len(top) == 1 {
		top = nil
		if err := json.Unmarshal(inner, &top); err != nil {
			return nil, fmt.Errorf("parse %q: %w", CmdRoutes, err)
		}
	}

	var res []Route
	for key, v := range top {
		prefix, err := parseRoutePrefix(key)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", CmdRoutes, err)
		}
		var paths []routeJSON
		if err := json.Unmarshal(v, &paths); err != nil {
			return nil, fmt.Errorf("parse %q: %s: %w", CmdRoutes, key, err)
		}
		for _, p := range paths {
			base := Route{
				Prefix:     prefix,
				Type:       p.RouteType,
				Cost:       p.Cost,
				ExtCost:    p.ExtCost,
				Area:       uint32(p.Area),
				InterArea:  p.IA,
				RouterType: p.RouterType,
			}
			for _, nh := range p.NextHops {
				r := base
				switch {
				case nh.Via != "":
					r.Ifname = nh.Via
					if a, err := netip.ParseAddr(nh.IP); err == nil {
						r.NextHop = a
					}
				case nh.Attached != "":
					r.Ifname = nh.Attached
					r.Connected = true
				default:
					continue
				}
				if !r.NextHop.IsValid() {
					r.NextHop = netip.IPv6Unspecified()
				}
				r.IfIndex, _ = IfIndex(r.Ifname)
				res = append(res, r)
			}
		}
	}
	return res, nil
}

func parseRoutePrefix(s string) (netip.Prefix, error) {
	if p, err := netip.ParsePrefix(s); err == nil {
		return p.Masked(), nil
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid route key %q", s)
	}
	if a.Is4() {
		a = netip.AddrFrom16(a.As16())
	}
	return netip.PrefixFrom(a, 128), nil
}
