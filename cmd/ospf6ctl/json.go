package main

import (
	"encoding/json"
	"io"

	"github.com/golangsnmp/ospf6"
)

// DumpOutput is the top-level JSON output for the dump command.
type DumpOutput struct {
	Instances  []uint32        `json:"instances"`
	Routers    []RouterJSON    `json:"routers,omitempty"`
	Areas      []AreaJSON      `json:"areas,omitempty"`
	Ranges     []RangeJSON     `json:"ranges,omitempty"`
	Stubs      []StubJSON      `json:"stubs,omitempty"`
	IntfConfs  []IntfConfJSON  `json:"intfConfs,omitempty"`
	Interfaces []InterfaceJSON `json:"interfaces,omitempty"`
	Neighbors  []NeighborJSON  `json:"neighbors,omitempty"`
	Routes     []RouteJSON     `json:"routes,omitempty"`
	Database   []DBJSON        `json:"database,omitempty"`
}

// RouterJSON holds one instance's router configuration and status.
type RouterJSON struct {
	Instance              uint32 `json:"instance"`
	RouterID              string `json:"routerId"`
	RedistributeConnected bool   `json:"redistributeConnected,omitempty"`
	RedistributeStatic    bool   `json:"redistributeStatic,omitempty"`
	Distance              uint8  `json:"distance"`
	ActiveRouterID        string `json:"activeRouterId"`
	SPFLastExecMs         int64  `json:"spfLastExecMs"`
	AttachedAreas         uint32 `json:"attachedAreas"`
}

// AreaJSON holds the status of one attached area.
type AreaJSON struct {
	Instance       uint32 `json:"instance"`
	Area           string `json:"area"`
	Type           string `json:"type"`
	SPFExecuted    uint32 `json:"spfExecuted"`
	LSACount       uint32 `json:"lsaCount"`
	InterfaceCount uint32 `json:"interfaceCount"`
}

// RangeJSON holds one area range.
type RangeJSON struct {
	Instance   uint32  `json:"instance"`
	Area       string  `json:"area"`
	Network    string  `json:"network"`
	Advertised bool    `json:"advertised"`
	Cost       *uint32 `json:"cost,omitempty"`
}

// StubJSON holds one stub area.
type StubJSON struct {
	Instance  uint32 `json:"instance"`
	Area      string `json:"area"`
	NoSummary bool   `json:"noSummary,omitempty"`
}

// IntfConfJSON holds the configuration of one VLAN interface.
type IntfConfJSON struct {
	Interface     string `json:"interface"`
	Area          string `json:"area,omitempty"`
	Priority      uint8  `json:"priority"`
	Cost          uint32 `json:"cost,omitempty"`
	MTUIgnore     bool   `json:"mtuIgnore,omitempty"`
	Dead          uint32 `json:"dead"`
	Hello         uint32 `json:"hello"`
	Retransmit    uint32 `json:"retransmit"`
	TransmitDelay uint32 `json:"transmitDelay"`
	Passive       bool   `json:"passive,omitempty"`
}

// InterfaceJSON holds the status of one OSPF6 interface.
type InterfaceJSON struct {
	Interface string `json:"interface"`
	Up        bool   `json:"up"`
	Address   string `json:"address,omitempty"`
	Area      string `json:"area"`
	State     string `json:"state"`
	Cost      uint32 `json:"cost"`
	Priority  uint8  `json:"priority"`
	DR        string `json:"dr"`
	BDR       string `json:"bdr"`
}

// NeighborJSON holds the status of one adjacency.
type NeighborJSON struct {
	Instance  uint32 `json:"instance"`
	RouterID  string `json:"routerId"`
	Address   string `json:"address"`
	Interface string `json:"interface"`
	State     string `json:"state"`
	Priority  uint8  `json:"priority"`
	DeadTime  string `json:"deadTime"`
}

// RouteJSON holds one routing table path.
type RouteJSON struct {
	Instance    uint32 `json:"instance"`
	Type        string `json:"type"`
	Destination string `json:"destination"`
	Area        string `json:"area"`
	NextHop     string `json:"nextHop"`
	Interface   string `json:"interface,omitempty"`
	Cost        uint32 `json:"cost"`
	ASCost      uint32 `json:"asCost,omitempty"`
}

// DBJSON holds one link-state database header.
type DBJSON struct {
	Instance  uint32 `json:"instance"`
	Area      string `json:"area"`
	Type      string `json:"type"`
	LinkID    string `json:"linkId"`
	AdvRouter string `json:"advRouter"`
	Age       uint32 `json:"age"`
	Seq       string `json:"seq"`
	Checksum  string `json:"checksum"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func neighborJSON(d ospf6.NeighborData) NeighborJSON {
	return NeighborJSON{
		Instance:  uint32(d.Key.ID),
		RouterID:  d.Key.RouterID.String(),
		Address:   d.Key.Addr.String(),
		Interface: d.Key.IfIndex.String(),
		State:     d.Status.State.String(),
		Priority:  d.Status.Priority,
		DeadTime:  d.Status.DeadTime.String(),
	}
}

func routeJSON(d ospf6.RouteData) RouteJSON {
	r := RouteJSON{
		Instance:    uint32(d.Key.ID),
		Type:        d.Key.Type.String(),
		Destination: d.Key.Dest.String(),
		Area:        d.Key.Area.String(),
		NextHop:     d.Key.NextHop.String(),
		Cost:        d.Status.Cost,
		ASCost:      d.Status.ASCost,
	}
	if d.Status.IfIndex != 0 {
		r.Interface = d.Status.IfIndex.String()
	}
	return r
}

func dbJSON(d ospf6.DBData) DBJSON {
	return DBJSON{
		Instance:  uint32(d.Key.ID),
		Area:      d.Key.Area.String(),
		Type:      d.Key.Type.String(),
		LinkID:    d.Key.LinkID.String(),
		AdvRouter: d.Key.AdvRouter.String(),
		Age:       d.Status.Age,
		Seq:       hex32(d.Status.Seq),
		Checksum:  hex32(d.Status.Checksum),
	}
}

func interfaceJSON(ifx ospf6.IfIndex, st ospf6.InterfaceStatus) InterfaceJSON {
	j := InterfaceJSON{
		Interface: ifx.String(),
		Up:        st.Up,
		Area:      st.Area.String(),
		State:     st.State.String(),
		Cost:      st.Cost,
		Priority:  st.Priority,
		DR:        st.DR.String(),
		BDR:       st.BDR.String(),
	}
	if st.Addr.IsValid() {
		j.Address = st.Addr.String()
	}
	return j
}
