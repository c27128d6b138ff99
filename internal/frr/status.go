package frr

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Show commands.
const (
	CmdStatus     = "show ipv6 ospf6 json"
	CmdInterfaces = "show ipv6 ospf6 interface json"
	CmdNeighbors  = "show ipv6 ospf6 neighbor detail json"
	CmdRoutes     = "show ipv6 ospf6 route detail json"
	CmdDatabase   = "show ipv6 ospf6 database detail json"
)

// RouterStatus is the process-wide part of "show ipv6 ospf6 json".
type RouterStatus struct {
	RouterID      uint32
	SPFDelay      time.Duration
	HoldtimeMin   time.Duration
	HoldtimeMax   time.Duration
	SPFLastExec   time.Duration
	LSAMinArrival time.Duration
	AttachedAreas uint32
	Areas         map[uint32]AreaStatus
}

// AreaStatus is one entry of the "areas" object.
type AreaStatus struct {
	Backbone       bool
	Stub           bool
	StubNoSummary  bool
	NSSA           bool
	InterfaceCount uint32
	SPFExecuted    uint32
	LSACount       uint32
}

type statusJSON struct {
	RouterID         dottedID                  `json:"routerId"`
	SPFScheduleDelay uint32                    `json:"spfScheduleDelayMsecs"`
	HoldtimeMin      uint32                    `json:"holdtimeMinMsecs"`
	HoldtimeMax      uint32                    `json:"holdtimeMaxMsecs"`
	SPFLastExecuted  uint64                    `json:"spfLastExecutedMsecs"`
	LSAMinArrival    uint32                    `json:"lsaMinArrivalMsecs"`
	AttachedAreas    uint32                    `json:"attachedAreaCounter"`
	Areas            map[string]areaStatusJSON `json:"areas"`
}

type areaStatusJSON struct {
	Backbone      bool   `json:"backbone"`
	StubNoSummary bool   `json:"stubNoSummary"`
	IfTotal       uint32 `json:"areaIfTotalCounter"`
	SPFExecuted   uint32 `json:"spfExecutedCounter"`
	LSANumber     uint32 `json:"lsaNumber"`
}

// ParseStatus parses the output of CmdStatus. Area keys may carry a
// "[Stub]" or "[NSSA]" suffix.
func ParseStatus(data []byte) (RouterStatus, error) {
	var raw statusJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return RouterStatus{}, fmt.Errorf("parse %q: %w", CmdStatus, err)
	}

	st := RouterStatus{
		RouterID:      uint32(raw.RouterID),
		SPFDelay:      msec(uint64(raw.SPFScheduleDelay)),
		HoldtimeMin:   msec(uint64(raw.HoldtimeMin)),
		HoldtimeMax:   msec(uint64(raw.HoldtimeMax)),
		SPFLastExec:   msec(raw.SPFLastExecuted),
		LSAMinArrival: msec(uint64(raw.LSAMinArrival)),
		AttachedAreas: raw.AttachedAreas,
		Areas:         make(map[uint32]AreaStatus, len(raw.Areas)),
	}
	for key, a := range raw.Areas {
		fields := strings.Fields(key)
		if len(fields) == 0 {
			continue
		}
		id, err := ParseID(fields[0])
		if err != nil {
			return RouterStatus{}, fmt.Errorf("parse %q: area %q: %w", CmdStatus, key, err)
		}
		as := AreaStatus{
			Backbone:       a.Backbone || id == 0,
			StubNoSummary:  a.StubNoSummary,
			InterfaceCount: a.IfTotal,
			SPFExecuted:    a.SPFExecuted,
			LSACount:       a.LSANumber,
		}
		for _, f := range fields[1:] {
			switch f {
			case "[Stub]":
				as.Stub = true
			case "[NSSA]":
				as.NSSA = true
			}
		}
		if as.StubNoSummary {
			as.Stub = true
		}
		st.Areas[id] = as
	}
	return st, nil
}

func msec(n uint64) time.Duration {
	return time.Duration(n) * time.Millisecond
}
