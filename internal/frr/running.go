package frr

import (
	"bufio"
	"net/netip"
	"strconv"
	"strings"
)

// Interface defaults applied when the running configuration omits a field.
const (
	DefaultPriority      = 1
	DefaultHello         = 10
	DefaultDead          = 40
	DefaultRetransmit    = 5
	DefaultTransmitDelay = 1
	DefaultDistance      = 110
)

// RouterConf is the "router ospf6" block.
type RouterConf struct {
	Present               bool
	RouterID              uint32
	RedistributeConnected bool
	RedistributeStatic    bool
	Distance              uint8
}

// AreaRange is an "area A range P" line.
type AreaRange struct {
	Area         uint32
	Prefix       netip.Prefix
	NotAdvertise bool
	Cost         uint32
	HasCost      bool
}

// StubArea is an "area A stub" line.
type StubArea struct {
	Area      uint32
	NoSummary bool
}

// InterfaceArea is an "interface IF area A" line.
type InterfaceArea struct {
	Ifname  string
	IfIndex uint32
	Area    uint32
}

// InterfaceConf is the OSPF6 part of an "interface IF" block.
type InterfaceConf struct {
	Ifname        string
	IfIndex       uint32
	Priority      uint8
	Cost          uint32
	MTUIgnore     bool
	Dead          uint32
	Hello         uint32
	Retransmit    uint32
	TransmitDelay uint32
	Passive       bool
}

// DefaultInterfaceConf returns the daemon defaults for an interface.
func DefaultInterfaceConf(name string, ifx uint32) InterfaceConf {
	return InterfaceConf{
		Ifname:        name,
		IfIndex:       ifx,
		Priority:      DefaultPriority,
		Dead:          DefaultDead,
		Hello:         DefaultHello,
		Retransmit:    DefaultRetransmit,
		TransmitDelay: DefaultTransmitDelay,
	}
}

// RunningConfig is the OSPF6-relevant part of "show running-config".
type RunningConfig struct {
	Router         RouterConf
	Ranges         []AreaRange
	Stubs          []StubArea
	InterfaceAreas []InterfaceArea
	Interfaces     map[uint32]InterfaceConf
}

// ParseRunningConfig extracts the OSPF6 configuration from running-config
// text. Lines it does not recognize are ignored.
func ParseRunningConfig(text string) *RunningConfig {
	rc := &RunningConfig{
		Router:     RouterConf{Distance: DefaultDistance},
		Interfaces: make(map[uint32]InterfaceConf),
	}

	var (
		inRouter bool
		ifc      *InterfaceConf
	)
	flush := func() {
		if ifc != nil {
			rc.Interfaces[ifc.IfIndex] = *ifc
			ifc = nil
		}
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		if line[0] != ' ' {
			flush()
			inRouter = false
			switch {
			case len(f) == 2 && f[0] == "router" && f[1] == "ospf6":
				inRouter = true
				rc.Router.Present = true
			case len(f) == 2 && f[0] == "interface":
				if ifx, ok := IfIndex(f[1]); ok {
					c := DefaultInterfaceConf(f[1], ifx)
					ifc = &c
				}
			}
			continue
		}
		switch {
		case inRouter:
			rc.routerLine(f)
		case ifc != nil:
			interfaceLine(ifc, f)
		}
	}
	flush()
	return rc
}

func (rc *RunningConfig) routerLine(f []string) {
	switch {
	case len(f) == 3 && f[0] == "ospf6" && f[1] == "router-id":
		if id, err := ParseID(f[2]); err == nil {
			rc.Router.RouterID = id
		}
	case len(f) >= 2 && f[0] == "redistribute":
		switch f[1] {
		case "connected":
			rc.Router.RedistributeConnected = true
		case "static":
			rc.Router.RedistributeStatic = true
		}
	case len(f) == 2 && f[0] == "distance":
		if n, err := strconv.ParseUint(f[1], 10, 8); err == nil {
			rc.Router.Distance = uint8(n)
		}
	case len(f) >= 4 && f[0] == "interface" && f[2] == "area":
		ifx, ok := IfIndex(f[1])
		area, err := ParseID(f[3])
		if ok && err == nil {
			rc.InterfaceAreas = append(rc.InterfaceAreas, InterfaceArea{Ifname: f[1], IfIndex: ifx, Area: area})
		}
	case len(f) >= 3 && f[0] == "area":
		area, err := ParseID(f[1])
		if err != nil {
			return
		}
		switch f[2] {
		case "range":
			rc.rangeLine(area, f[3:])
		case "stub":
			rc.Stubs = append(rc.Stubs, StubArea{
				Area:      area,
				NoSummary: len(f) > 3 && f[3] == "no-summary",
			})
		}
	}
}

func (rc *RunningConfig) rangeLine(area uint32, f []string) {
	if len(f) == 0 {
		return
	}
	p, err := netip.ParsePrefix(f[0])
	if err != nil {
		return
	}
	r := AreaRange{Area: area, Prefix: p.Masked()}
	for i := 1; i < len(f); i++ {
		switch f[i] {
		case "advertise":
		case "not-advertise":
			r.NotAdvertise = true
		case "cost":
			if i+1 < len(f) {
				if n, err := strconv.ParseUint(f[i+1], 10, 32); err == nil {
					r.Cost, r.HasCost = uint32(n), true
				}
				i++
			}
		}
	}
	rc.Ranges = append(rc.Ranges, r)
}

func interfaceLine(c *InterfaceConf, f []string) {
	if len(f) < 3 || f[0] != "ipv6" || f[1] != "ospf6" {
		return
	}
	field := f[2]
	switch field {
	case "mtu-ignore":
		c.MTUIgnore = true
		return
	case "passive":
		c.Passive = true
		return
	}
	if len(f) < 4 {
		return
	}
	if field == "priority" {
		p, err := strconv.ParseUint(f[3], 10, 8)
		if err != nil {
			return
		}
		c.Priority = uint8(p)
		return
	}
	n, err := strconv.ParseUint(f[3], 10, 32)
	if err != nil {
		return
	}
	v := uint32(n)
	switch field {
	case "cost":
		c.Cost = v
	case "dead-interval":
		c.Dead = v
	case "hello-interval":
		c.Hello = v
	case "retransmit-interval":
		c.Retransmit = v
	case "transmit-delay":
		c.TransmitDelay = v
	}
}
