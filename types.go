package ospf6

import (
	"net/netip"
	"strconv"
	"time"

	"github.com/golangsnmp/ospf6/internal/frr"
)

// InstanceID identifies an OSPF6 process instance.
type InstanceID uint32

// ID is a 32-bit OSPF identifier (router ID, area ID, link-state ID),
// printed in dotted-quad form.
type ID uint32

func (id ID) String() string { return frr.FormatID(uint32(id)) }

// ParseID parses a dotted-quad or decimal identifier.
func ParseID(s string) (ID, error) {
	v, err := frr.ParseID(s)
	return ID(v), err
}

// IfIndex is an interface index. VLAN interfaces use their VLAN ID and
// virtual links start above VLinkIfIndexBase.
type IfIndex uint32

// VLinkIfIndexBase is the index of virtual link 0.
const VLinkIfIndexBase = IfIndex(frr.VLinkIfIndexBase)

// IsVLink reports whether ifx is a virtual link.
func (ifx IfIndex) IsVLink() bool { return frr.IsVLink(uint32(ifx)) }

func (ifx IfIndex) String() string {
	if name, ok := frr.IfName(uint32(ifx)); ok {
		return name
	}
	return strconv.FormatUint(uint64(ifx), 10)
}

// ParseIfIndex maps an interface name such as "vlan10" or "VLINK1" to its
// index.
func ParseIfIndex(name string) (IfIndex, bool) {
	ifx, ok := frr.IfIndex(name)
	return IfIndex(ifx), ok
}

// DontCareNID matches any neighbor router ID in NeighborStatus.
const DontCareNID ID = 0

// Instance and value ranges.
const (
	DefaultInstanceMax InstanceID = 1

	RouterIDMin = 1
	RouterIDMax = 4294967294

	PriorityMin = 0
	PriorityMax = 255

	GeneralCostMin = 0
	GeneralCostMax = 16777215

	InterfaceCostMin = 1
	InterfaceCostMax = 65535

	HelloMin = 1
	HelloMax = 65535

	RetransmitMin = 3
	RetransmitMax = 65535

	TransmitDelayMin = 1
	TransmitDelayMax = 3600

	DeadMin = 1
	DeadMax = 65535

	DistanceMin = 1
	DistanceMax = 255

	DefaultDistance = frr.DefaultDistance
)

// Capabilities describes the limits of the running system.
type Capabilities struct {
	InstanceMax      InstanceID
	RouterIDMin      uint32
	RouterIDMax      uint32
	PriorityMin      uint32
	PriorityMax      uint32
	GeneralCostMin   uint32
	GeneralCostMax   uint32
	InterfaceCostMin uint32
	InterfaceCostMax uint32
	HelloMin         uint32
	HelloMax         uint32
	RetransmitMin    uint32
	RetransmitMax    uint32
	TransmitDelayMin uint32
	TransmitDelayMax uint32
	DeadMin          uint32
	DeadMax          uint32
	DistanceMin      uint32
	DistanceMax      uint32
}

// InterfaceState is the interface state machine state.
type InterfaceState uint8

const (
	InterfaceStateDown InterfaceState = iota + 1
	InterfaceStateLoopback
	InterfaceStateWaiting
	InterfaceStatePointToPoint
	InterfaceStateDROther
	InterfaceStateBDR
	InterfaceStateDR
	InterfaceStateUnknown
)

var interfaceStateNames = [...]string{
	InterfaceStateDown:         "Down",
	InterfaceStateLoopback:     "LoopBack",
	InterfaceStateWaiting:      "Waiting",
	InterfaceStatePointToPoint: "Point-To-Point",
	InterfaceStateDROther:      "DROther",
	InterfaceStateBDR:          "BDR",
	InterfaceStateDR:           "DR",
	InterfaceStateUnknown:      "Unknown",
}

func (s InterfaceState) String() string {
	if int(s) < len(interfaceStateNames) && interfaceStateNames[s] != "" {
		return interfaceStateNames[s]
	}
	return "Unknown"
}

func parseInterfaceState(s string) InterfaceState {
	for i, name := range interfaceStateNames {
		if name != "" && name == s {
			return InterfaceState(i)
		}
	}
	if s == "None" {
		return InterfaceStateDown
	}
	return InterfaceStateUnknown
}

// NeighborState is the neighbor state machine state.
type NeighborState uint8

const (
	NeighborStateDependUpon NeighborState = iota
	NeighborStateDeleted
	NeighborStateDown
	NeighborStateAttempt
	NeighborStateInit
	NeighborStateTwoWay
	NeighborStateExStart
	NeighborStateExchange
	NeighborStateLoading
	NeighborStateFull
	NeighborStateUnknown
)

var neighborStateNames = [...]string{
	"DependUpon", "Deleted", "Down", "Attempt", "Init",
	"Twoway", "ExStart", "ExChange", "Loading", "Full", "Unknown",
}

func (s NeighborState) String() string {
	if int(s) < len(neighborStateNames) {
		return neighborStateNames[s]
	}
	return "Unknown"
}

func parseNeighborState(s string) NeighborState {
	for i, name := range neighborStateNames {
		if name == s {
			return NeighborState(i)
		}
	}
	return NeighborStateUnknown
}

// AreaType classifies an area by its stub configuration.
type AreaType uint8

const (
	AreaNormal AreaType = iota
	AreaStub
	AreaTotallyStub
	AreaTypeUnknown
)

func (t AreaType) String() string {
	switch t {
	case AreaNormal:
		return "normal"
	case AreaStub:
		return "stub"
	case AreaTotallyStub:
		return "totally-stub"
	}
	return "unknown"
}

// RouteType is the routing table path type. RouteTypeUnknown also serves as
// the "skip to the next instance" marker in RouteNext.
type RouteType uint8

const (
	RouteIntraArea RouteType = iota
	RouteInterArea
	RouteBorderRouter
	RouteExternalType1
	RouteExternalType2
	RouteTypeUnknown
)

func (t RouteType) String() string {
	switch t {
	case RouteIntraArea:
		return "intra-area"
	case RouteInterArea:
		return "inter-area"
	case RouteBorderRouter:
		return "border-router"
	case RouteExternalType1:
		return "external-1"
	case RouteExternalType2:
		return "external-2"
	}
	return "unknown"
}

// parseRouteType maps the daemon's two-letter route codes. Discard routes
// ("D IE") are not exposed and map to RouteTypeUnknown.
func parseRouteType(s string) RouteType {
	switch s {
	case "N IA":
		return RouteIntraArea
	case "N IE":
		return RouteInterArea
	case "R IA":
		return RouteBorderRouter
	case "N E1":
		return RouteExternalType1
	case "N E2":
		return RouteExternalType2
	}
	return RouteTypeUnknown
}

// BorderRouterType describes what kind of border router a route leads to.
type BorderRouterType uint8

const (
	BorderABR BorderRouterType = iota
	BorderIntraAreaASBR
	BorderInterAreaASBR
	BorderABRASBR
	BorderNone
)

func (t BorderRouterType) String() string {
	switch t {
	case BorderABR:
		return "abr"
	case BorderIntraAreaASBR:
		return "intra-area-asbr"
	case BorderInterAreaASBR:
		return "inter-area-asbr"
	case BorderABRASBR:
		return "abr-asbr"
	}
	return "none"
}

func parseBorderRouterType(s string, interArea bool) BorderRouterType {
	switch s {
	case "abr":
		return BorderABR
	case "asbr":
		if interArea {
			return BorderInterAreaASBR
		}
		return BorderIntraAreaASBR
	case "abr asbr":
		return BorderABRASBR
	}
	return BorderNone
}

// LSDBType is a link-state database entry type.
type LSDBType uint8

const (
	LSDBNone            = LSDBType(frr.LSANone)
	LSDBLink            = LSDBType(frr.LSALink)
	LSDBRouter          = LSDBType(frr.LSARouter)
	LSDBNetwork         = LSDBType(frr.LSANetwork)
	LSDBInterAreaPrefix = LSDBType(frr.LSAInterAreaPrefix)
	LSDBInterAreaRouter = LSDBType(frr.LSAInterAreaRouter)
	LSDBNSSAExternal    = LSDBType(frr.LSANSSAExternal)
	LSDBIntraAreaPrefix = LSDBType(frr.LSAIntraAreaPrefix)
	LSDBExternal        = LSDBType(frr.LSAExternal)
	LSDBUnknown         = LSDBExternal + 1
)

func (t LSDBType) String() string {
	switch t {
	case LSDBNone:
		return "none"
	case LSDBLink:
		return "link"
	case LSDBRouter:
		return "router"
	case LSDBNetwork:
		return "network"
	case LSDBInterAreaPrefix:
		return "inter-area-prefix"
	case LSDBInterAreaRouter:
		return "inter-area-router"
	case LSDBNSSAExternal:
		return "nssa-external"
	case LSDBIntraAreaPrefix:
		return "intra-area-prefix"
	case LSDBExternal:
		return "external"
	}
	return "unknown"
}

// RouterConf is the per-instance router configuration. RouterID 0 means no
// router ID is configured and the daemon picks one.
type RouterConf struct {
	RouterID              ID
	RedistributeConnected bool
	RedistributeStatic    bool
	Distance              uint8
}

// RouterStatus is the per-instance router status.
type RouterStatus struct {
	RouterID      ID
	SPFDelay      time.Duration
	HoldtimeMin   time.Duration
	HoldtimeMax   time.Duration
	SPFLastExec   time.Duration
	LSAMinArrival time.Duration
	AttachedAreas uint32
}

// RouterIntfConf binds an interface to an area. Enabled is false when the
// interface is not attached to any area.
type RouterIntfConf struct {
	Enabled bool
	Area    ID
}

// AreaStatus describes one attached area.
type AreaStatus struct {
	Backbone       bool
	Type           AreaType
	InterfaceCount uint32
	SPFExecuted    uint32
	LSACount       uint32
}

// AreaRangeConf configures a summary range. A range that is not advertised
// cannot carry a specific cost.
type AreaRangeConf struct {
	Advertised   bool
	SpecificCost bool
	Cost         uint32
}

// StubAreaConf configures a stub area.
type StubAreaConf struct {
	NoSummary bool
}

// IntfConf is the OSPF6 configuration of one VLAN interface. Cost 0 means
// the daemon computes the cost.
type IntfConf struct {
	Priority      uint8
	Cost          uint32
	MTUIgnore     bool
	Dead          uint32
	Hello         uint32
	Retransmit    uint32
	TransmitDelay uint32
	Passive       bool
}

// InterfaceStatus is the status of one OSPF6 interface.
type InterfaceStatus struct {
	Up            bool
	Addr          netip.Prefix
	Area          ID
	RouterID      ID
	Cost          uint32
	State         InterfaceState
	Priority      uint8
	DR            ID
	BDR           ID
	Hello         uint32
	Dead          uint32
	Retransmit    uint32
	TransmitDelay uint32
	Passive       bool
	VLink         bool
}

// NeighborStatus is the status of one adjacency.
type NeighborStatus struct {
	RouterID    ID
	Addr        netip.Addr
	IfIndex     IfIndex
	Area        ID
	TransitArea ID
	Priority    uint8
	State       NeighborState
	DR          ID
	BDR         ID
	DeadTime    time.Duration
}

// RouteStatus is the status of one routing table path.
type RouteStatus struct {
	Cost       uint32
	ASCost     uint32
	BorderType BorderRouterType
	IfIndex    IfIndex
	Connected  bool
}

// DBStatus is the header of one link-state database entry.
type DBStatus struct {
	Age         uint32
	Seq         uint32
	Checksum    uint32
	RouterLinks uint32
}
