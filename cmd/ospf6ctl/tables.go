package main

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/golangsnmp/ospf6"
)

// Each collector walks one table with its Next operation, so the CLI sees
// exactly the rows an SNMP walk would.

func collectInstances(m *ospf6.Manager) []uint32 {
	var (
		res []uint32
		cur *ospf6.InstanceID
	)
	for {
		id, ok := m.InstanceNext(cur)
		if !ok {
			return res
		}
		res = append(res, uint32(id))
		cur = &id
	}
}

func collectRouters(ctx context.Context, m *ospf6.Manager) ([]RouterJSON, error) {
	var res []RouterJSON
	for _, id := range collectInstances(m) {
		conf, err := m.RouterConf(ctx, ospf6.InstanceID(id))
		if err != nil {
			return nil, err
		}
		st, err := m.RouterStatus(ctx, ospf6.InstanceID(id))
		if err != nil {
			return nil, err
		}
		res = append(res, RouterJSON{
			Instance:              id,
			RouterID:              conf.RouterID.String(),
			RedistributeConnected: conf.RedistributeConnected,
			RedistributeStatic:    conf.RedistributeStatic,
			Distance:              conf.Distance,
			ActiveRouterID:        st.RouterID.String(),
			SPFLastExecMs:         st.SPFLastExec.Milliseconds(),
			AttachedAreas:         st.AttachedAreas,
		})
	}
	return res, nil
}

func collectAreas(ctx context.Context, m *ospf6.Manager) ([]AreaJSON, error) {
	var (
		res  []AreaJSON
		id   *ospf6.InstanceID
		area *ospf6.ID
	)
	for {
		k, ok, err := m.AreaStatusNext(ctx, id, area)
		if err != nil || !ok {
			return res, err
		}
		st, err := m.AreaStatus(ctx, k.ID, k.Area)
		if err != nil {
			return nil, err
		}
		res = append(res, AreaJSON{
			Instance:       uint32(k.ID),
			Area:           k.Area.String(),
			Type:           st.Type.String(),
			SPFExecuted:    st.SPFExecuted,
			LSACount:       st.LSACount,
			InterfaceCount: st.InterfaceCount,
		})
		id, area = &k.ID, &k.Area
	}
}

func collectRanges(ctx context.Context, m *ospf6.Manager) ([]RangeJSON, error) {
	var (
		res  []RangeJSON
		id   *ospf6.InstanceID
		area *ospf6.ID
		net  *netip.Prefix
	)
	for {
		k, ok, err := m.AreaRangeConfNext(ctx, id, area, net)
		if err != nil || !ok {
			return res, err
		}
		conf, err := m.AreaRangeConf(ctx, k.ID, k.Area, k.Network)
		if err != nil {
			return nil, err
		}
		r := RangeJSON{
			Instance:   uint32(k.ID),
			Area:       k.Area.String(),
			Network:    k.Network.String(),
			Advertised: conf.Advertised,
		}
		if conf.SpecificCost {
			r.Cost = &conf.Cost
		}
		res = append(res, r)
		id, area, net = &k.ID, &k.Area, &k.Network
	}
}

func collectStubs(ctx context.Context, m *ospf6.Manager) ([]StubJSON, error) {
	var (
		res  []StubJSON
		id   *ospf6.InstanceID
		area *ospf6.ID
	)
	for {
		k, ok, err := m.StubAreaNext(ctx, id, area)
		if err != nil || !ok {
			return res, err
		}
		conf, err := m.StubArea(ctx, k.ID, k.Area)
		if err != nil {
			return nil, err
		}
		res = append(res, StubJSON{Instance: uint32(k.ID), Area: k.Area.String(), NoSummary: conf.NoSummary})
		id, area = &k.ID, &k.Area
	}
}

func collectIntfConfs(ctx context.Context, m *ospf6.Manager) ([]IntfConfJSON, error) {
	var (
		res []IntfConfJSON
		cur *ospf6.IfIndex
	)
	bound := m.Exists(1)
	for {
		ifx, ok, err := m.IntfConfNext(ctx, cur)
		if err != nil || !ok {
			return res, err
		}
		conf, err := m.IntfConf(ctx, ifx)
		if err != nil {
			return nil, err
		}
		j := IntfConfJSON{
			Interface:     ifx.String(),
			Priority:      conf.Priority,
			Cost:          conf.Cost,
			MTUIgnore:     conf.MTUIgnore,
			Dead:          conf.Dead,
			Hello:         conf.Hello,
			Retransmit:    conf.Retransmit,
			TransmitDelay: conf.TransmitDelay,
			Passive:       conf.Passive,
		}
		if bound {
			b, err := m.RouterIntfConf(ctx, 1, ifx)
			if err != nil {
				return nil, err
			}
			if b.Enabled {
				j.Area = b.Area.String()
			}
		}
		res = append(res, j)
		cur = &ifx
	}
}

func collectInterfaces(ctx context.Context, m *ospf6.Manager) ([]InterfaceJSON, error) {
	var (
		res []InterfaceJSON
		cur *ospf6.IfIndex
	)
	for {
		ifx, ok, err := m.InterfaceNext(ctx, cur)
		if err != nil || !ok {
			return res, err
		}
		cur = &ifx
		st, err := m.InterfaceStatus(ctx, ifx)
		if err != nil {
			// Down interfaces without an area binding have no status.
			continue
		}
		res = append(res, interfaceJSON(ifx, st))
	}
}

func collectNeighbors(ctx context.Context, m *ospf6.Manager) ([]NeighborJSON, error) {
	all, err := m.NeighborStatusAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]NeighborJSON, len(all))
	for i, d := range all {
		res[i] = neighborJSON(d)
	}
	return res, nil
}

func collectRoutes(ctx context.Context, m *ospf6.Manager) ([]RouteJSON, error) {
	all, err := m.RouteAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]RouteJSON, len(all))
	for i, d := range all {
		res[i] = routeJSON(d)
	}
	return res, nil
}

func collectDatabase(ctx context.Context, m *ospf6.Manager) ([]DBJSON, error) {
	all, err := m.DBAll(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]DBJSON, len(all))
	for i, d := range all {
		res[i] = dbJSON(d)
	}
	return res, nil
}

func hex32(v uint32) string { return fmt.Sprintf("0x%08x", v) }
