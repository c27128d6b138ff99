package frr

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"strings"
)

// LSA types as numbered by the link-state database surface.
const (
	LSANone            uint8 = 0
	LSALink            uint8 = 1
	LSARouter          uint8 = 2
	LSANetwork         uint8 = 3
	LSAInterAreaPrefix uint8 = 4
	LSAInterAreaRouter uint8 = 5
	LSANSSAExternal    uint8 = 6
	LSAIntraAreaPrefix uint8 = 7
	LSAExternal        uint8 = 8
)

var lsaTypeNames = map[string]uint8{
	"link":          LSALink,
	"router":        LSARouter,
	"network":       LSANetwork,
	"inter-prefix":  LSAInterAreaPrefix,
	"inter-router":  LSAInterAreaRouter,
	"nssa":          LSANSSAExternal,
	"nssa-external": LSANSSAExternal,
	"intra-prefix":  LSAIntraAreaPrefix,
	"as-external":   LSAExternal,
}

// LSA option bits.
const (
	LSAOptionV6 uint8 = 1 << iota
	LSAOptionE
	LSAOptionMC
	LSAOptionN
	LSAOptionR
	LSAOptionDC
)

var lsaOptionNames = map[string]uint8{
	"V6": LSAOptionV6,
	"E":  LSAOptionE,
	"MC": LSAOptionMC,
	"N":  LSAOptionN,
	"R":  LSAOptionR,
	"DC": LSAOptionDC,
}

// Prefix option bits.
const (
	PrefixOptionNU uint8 = 1 << iota
	PrefixOptionLA
	PrefixOptionMC
	PrefixOptionP
	PrefixOptionDN
)

var prefixOptionNames = map[string]uint8{
	"NU": PrefixOptionNU,
	"LA": PrefixOptionLA,
	"MC": PrefixOptionMC,
	"P":  PrefixOptionP,
	"DN": PrefixOptionDN,
}

// Router LSA link types.
const (
	RouterLinkPointToPoint uint8 = 1
	RouterLinkTransit      uint8 = 2
	RouterLinkVirtual      uint8 = 4
)

var routerLinkTypeNames = map[string]uint8{
	"point-to-point": RouterLinkPointToPoint,
	"transit":        RouterLinkTransit,
	"transit-net":    RouterLinkTransit,
	"virtual-link":   RouterLinkVirtual,
	"virtual":        RouterLinkVirtual,
}

// LSA is one link-state advertisement from CmdDatabase. Which detail fields
// are set depends on Type.
type LSA struct {
	Area        uint32
	Type        uint8
	LinkID      uint32
	AdvRouter   uint32
	Age         uint32
	Seq         uint32
	Checksum    uint32
	RouterLinks uint32

	Options uint8
	Length  uint32

	// Router LSAs.
	Links []RouterLink
	// Link and intra-area-prefix LSAs.
	Prefixes []LSAPrefix
	// Network LSAs.
	AttachedRouters []uint32
	// Inter-area-prefix and external LSAs.
	Prefix netip.Prefix
	Metric uint32
	// External LSAs.
	MetricType  uint8
	ForwardAddr netip.Addr
	// Inter-area-router LSAs.
	Destination uint32
}

// RouterLink is one link described by a router LSA.
type RouterLink struct {
	Type                uint8
	Metric              uint32
	InterfaceID         uint32
	NeighborInterfaceID uint32
	NeighborRouterID    uint32
}

// LSAPrefix is one prefix carried by a link or intra-area-prefix LSA.
type LSAPrefix struct {
	Prefix  netip.Prefix
	Options uint8
}

// Database is the parsed output of CmdDatabase. AS-scope LSAs carry area
// 0.0.0.0.
type Database struct {
	RouterID uint32
	LSAs     []LSA
}

type lsaType uint8

func (t *lsaType) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] != '"' {
		var n uint8
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*t = lsaType(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n, ok := lsaTypeNames[strings.ToLower(s)]
	if !ok {
		return fmt.Errorf("unknown LSA type %q", s)
	}
	*t = lsaType(n)
	return nil
}

// flagSet decodes an option string such as "--|R|-|--|E|V6".
type flagSet string

func (f flagSet) bits(names map[string]uint8) uint8 {
	var res uint8
	for tok := range strings.SplitSeq(string(f), "|") {
		res |= names[strings.TrimSpace(tok)]
	}
	return res
}

type routerLinkJSON struct {
	Type                string   `json:"type"`
	Metric              uint32   `json:"metric"`
	InterfaceID         uint32   `json:"interfaceId"`
	NeighborInterfaceID uint32   `json:"neighborInterfaceId"`
	NeighborRouterID    dottedID `json:"neighborRouterId"`
}

type prefixJSON struct {
	Prefix  netip.Prefix `json:"prefix"`
	Options flagSet      `json:"options"`
}

type lsaJSON struct {
	ID       dottedID  `json:"id"`
	Router   dottedID  `json:"router"`
	Age      uint32    `json:"age"`
	Seq      hexNumber `json:"seq"`
	Checksum hexNumber `json:"checksum"`
	Link     uint32    `json:"link"`

	Options         flagSet          `json:"options"`
	Length          uint32           `json:"length"`
	RouterLinks     []routerLinkJSON `json:"routerLinks"`
	Prefixes        []prefixJSON     `json:"prefixes"`
	AttachedRouters []dottedID       `json:"attachedRouters"`
	Prefix          netip.Prefix     `json:"prefix"`
	Metric          uint32           `json:"metric"`
	MetricType      uint8            `json:"metricType"`
	ForwardAddress  netip.Addr       `json:"forwardAddress"`
	Destination     dottedID         `json:"destination"`
}

func (l *lsaJSON) lsa(area uint32, typ uint8) (LSA, error) {
	res := LSA{
		Area:        area,
		Type:        typ,
		LinkID:      uint32(l.ID),
		AdvRouter:   uint32(l.Router),
		Age:         l.Age,
		Seq:         uint32(l.Seq),
		Checksum:    uint32(l.Checksum),
		RouterLinks: l.Link,
		Options:     l.Options.bits(lsaOptionNames),
		Length:      l.Length,
		Prefix:      l.Prefix,
		Metric:      l.Metric,
		MetricType:  l.MetricType,
		ForwardAddr: l.ForwardAddress,
		Destination: uint32(l.Destination),
	}
	for _, rl := range l.RouterLinks {
		t, ok := routerLinkTypeNames[strings.ToLower(rl.Type)]
		if !ok {
			return LSA{}, fmt.Errorf("unknown router link type %q", rl.Type)
		}
		res.Links = append(res.Links, RouterLink{
			Type:                t,
			Metric:              rl.Metric,
			InterfaceID:         rl.InterfaceID,
			NeighborInterfaceID: rl.NeighborInterfaceID,
			NeighborRouterID:    uint32(rl.NeighborRouterID),
		})
	}
	if len(res.Links) > 0 {
		res.RouterLinks = uint32(len(res.Links))
	}
	for _, p := range l.Prefixes {
		res.Prefixes = append(res.Prefixes, LSAPrefix{Prefix: p.Prefix, Options: p.Options.bits(prefixOptionNames)})
	}
	for _, r := range l.AttachedRouters {
		res.AttachedRouters = append(res.AttachedRouters, uint32(r))
	}
	return res, nil
}

type lsaGroupJSON struct {
	Type  lsaType   `json:"type"`
	Desc  string    `json:"desc"`
	Area  dottedID  `json:"area"`
	Links []lsaJSON `json:"links"`
}

type databaseJSON struct {
	RouterID dottedID       `json:"routerId"`
	Areas    []lsaGroupJSON `json:"areas"`
	External *lsaGroupJSON  `json:"AS External Link States"`
	NSSA     *lsaGroupJSON  `json:"NSSA-external Link States"`
}

// ParseDatabase parses the output of CmdDatabase.
func ParseDatabase(data []byte) (Database, error) {
	var raw databaseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Database{}, fmt.Errorf("parse %q: %w", CmdDatabase, err)
	}

	db := Database{RouterID: uint32(raw.RouterID)}
	add := func(g *lsaGroupJSON, area uint32, typ uint8) error {
		for i := range g.Links {
			l, err := g.Links[i].lsa(area, typ)
			if err != nil {
				return fmt.Errorf("parse %q: %w", CmdDatabase, err)
			}
			db.LSAs = append(db.LSAs, l)
		}
		return nil
	}
	for i := range raw.Areas {
		g := &raw.Areas[i]
		if err := add(g, uint32(g.Area), uint8(g.Type)); err != nil {
			return Database{}, err
		}
	}
	if raw.External != nil {
		if err := add(raw.External, 0, LSAExternal); err != nil {
			return Database{}, err
		}
	}
	if raw.NSSA != nil {
		if err := add(raw.NSSA, 0, LSANSSAExternal); err != nil {
			return Database{}, err
		}
	}
	return db, nil
}
