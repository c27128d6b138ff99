package frr

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"time"
)

// Neighbor is one adjacency from CmdNeighbors.
type Neighbor struct {
	RouterID uint32
	Addr     netip.Addr
	Area     uint32
	// TransitArea is set for virtual-link neighbors only.
	TransitArea uint32
	Ifname      string
	IfIndex     uint32
	Priority    uint8
	State       string
	DR          uint32
	BDR         uint32
	DeadTimer   time.Duration
}

type neighborJSON struct {
	IfaceAddress string   `json:"ifaceAddress"`
	AreaID       dottedID `json:"areaId"`
	TransitArea  dottedID `json:"transitAreaId"`
	IfaceName    string   `json:"ifaceName"`
	Priority     uint8    `json:"nbrPriority"`
	State        string   `json:"nbrState"`
	DR           dottedID `json:"routerDesignatedId"`
	BDR          dottedID `json:"routerDesignatedBackupId"`
	DeadDueMsec  int64    `json:"routerDeadIntervalTimerDueMsec"`
}

// ParseNeighbors parses the output of CmdNeighbors, an object keyed by
// neighbor router ID whose values are arrays of adjacencies. A top-level
// "neighbors" wrapper is accepted.
func ParseNeighbors(data []byte) ([]Neighbor, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parse %q: %w", CmdNeighbors, err)
	}
	if inner, ok := top["neighbors"]; ok && len(top) == 1 {
		top = nil
		if err := json.Unmarshal(inner, &top); err != nil {
			return nil, fmt.Errorf("parse %q: %w", CmdNeighbors, err)
		}
	}

	var res []Neighbor
	for key, v := range top {
		rid, err := ParseID(key)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", CmdNeighbors, err)
		}
		var list []neighborJSON
		if err := json.Unmarshal(v, &list); err != nil {
			return nil, fmt.Errorf("parse %q: %s: %w", CmdNeighbors, key, err)
		}
		for _, raw := range list {
			n := Neighbor{
				RouterID:    rid,
				Area:        uint32(raw.AreaID),
				TransitArea: uint32(raw.TransitArea),
				Ifname:      raw.IfaceName,
				Priority:    raw.Priority,
				State:       raw.State,
				DR:          uint32(raw.DR),
				BDR:         uint32(raw.BDR),
				DeadTimer:   time.Duration(raw.DeadDueMsec) * time.Millisecond,
			}
			if a, err := netip.ParseAddr(raw.IfaceAddress); err == nil {
				n.Addr = a
			}
			n.IfIndex, _ = IfIndex(raw.IfaceName)
			res = append(res, n)
		}
	}
	return res, nil
}
