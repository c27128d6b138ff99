package frr

import (
	"fmt"
	"net/netip"
)

// Router returns lines that enter the "router ospf6" node followed by lines.
// Pass the result to Client.Configure.
func Router(lines ...string) []string {
	return append([]string{"router ospf6"}, lines...)
}

// NoRouter removes the OSPF6 process.
func NoRouter() []string {
	return []string{"no router ospf6"}
}

// InterfaceBlock returns lines that enter the interface node for ifname
// followed by lines.
func InterfaceBlock(ifname string, lines ...string) []string {
	return append([]string{"interface " + ifname}, lines...)
}

// RouterID sets or, for id 0, clears the configured router ID.
func RouterID(id uint32) string {
	if id == 0 {
		return "no ospf6 router-id"
	}
	return "ospf6 router-id " + FormatID(id)
}

// Redistribute enables or disables redistribution of proto.
func Redistribute(proto string, on bool) string {
	if on {
		return "redistribute " + proto
	}
	return "no redistribute " + proto
}

// Distance sets the administrative distance.
func Distance(d uint8) string {
	return fmt.Sprintf("distance %d", d)
}

// AreaRangeLine configures a summary range.
func AreaRangeLine(r AreaRange) string {
	s := fmt.Sprintf("area %s range %s", FormatID(r.Area), r.Prefix)
	switch {
	case r.NotAdvertise:
		s += " not-advertise"
	case r.HasCost:
		s += fmt.Sprintf(" cost %d", r.Cost)
	}
	return s
}

// NoAreaRange removes a summary range.
func NoAreaRange(area uint32, p netip.Prefix) string {
	return fmt.Sprintf("no area %s range %s", FormatID(area), p)
}

// Stub makes area a stub area.
func Stub(s StubArea) string {
	if s.NoSummary {
		return fmt.Sprintf("area %s stub no-summary", FormatID(s.Area))
	}
	return fmt.Sprintf("area %s stub", FormatID(s.Area))
}

// NoStub returns area to a normal area.
func NoStub(area uint32) string {
	return fmt.Sprintf("no area %s stub", FormatID(area))
}

// InterfaceAreaLine binds an interface to an area.
func InterfaceAreaLine(ifname string, area uint32) string {
	return fmt.Sprintf("interface %s area %s", ifname, FormatID(area))
}

// NoInterfaceArea removes an interface binding.
func NoInterfaceArea(ifname string, area uint32) string {
	return fmt.Sprintf("no interface %s area %s", ifname, FormatID(area))
}

// IfField sets a numeric "ipv6 ospf6" interface field.
func IfField(field string, v uint32) string {
	return fmt.Sprintf("ipv6 ospf6 %s %d", field, v)
}

// NoIfField resets an "ipv6 ospf6" interface field to its default.
func NoIfField(field string) string {
	return "no ipv6 ospf6 " + field
}

// IfFlag sets or clears a boolean "ipv6 ospf6" interface field.
func IfFlag(field string, on bool) string {
	if on {
		return "ipv6 ospf6 " + field
	}
	return NoIfField(field)
}

// InterfaceConfLines returns the interface-node lines that move the
// daemon's configuration to c. Fields equal to the defaults are reset
// with "no" so the running configuration stays minimal.
func InterfaceConfLines(c InterfaceConf) []string {
	num := func(field string, v, def uint32) string {
		if v == def {
			return NoIfField(field)
		}
		return IfField(field, v)
	}
	return []string{
		num("priority", uint32(c.Priority), DefaultPriority),
		num("cost", c.Cost, 0),
		IfFlag("mtu-ignore", c.MTUIgnore),
		num("dead-interval", c.Dead, DefaultDead),
		num("hello-interval", c.Hello, DefaultHello),
		num("retransmit-interval", c.Retransmit, DefaultRetransmit),
		num("transmit-delay", c.TransmitDelay, DefaultTransmitDelay),
		IfFlag("passive", c.Passive),
	}
}
