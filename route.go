package ospf6

import (
	"cmp"
	"context"
	"fmt"
	"net/netip"
	"slices"

	"github.com/golangsnmp/ospf6/getnext"
	"github.com/golangsnmp/ospf6/internal/frr"
)

// RouteKey identifies one routing table path.
type RouteKey struct {
	ID      InstanceID
	Type    RouteType
	Dest    netip.Prefix
	Area    ID
	NextHop netip.Addr
}

// RouteData is one row of RouteAll.
type RouteData struct {
	Key    RouteKey
	Status RouteStatus
}

type routeEntry struct {
	typ     RouteType
	dest    netip.Prefix
	area    ID
	nextHop netip.Addr
	status  RouteStatus
}

func compareRoute(a, b routeEntry) int {
	return cmp.Or(
		cmp.Compare(a.typ, b.typ),
		comparePrefix(a.dest, b.dest),
		cmp.Compare(a.area, b.area),
		a.nextHop.Compare(b.nextHop),
	)
}

// fetchRoutes reads the routing table, drops path types that are not
// exposed and sorts the rest by key.
func (m *Manager) fetchRoutes(ctx context.Context) ([]routeEntry, error) {
	data, err := m.client.Show(ctx, frr.CmdRoutes)
	if err != nil {
		return nil, m.fetchFailed(frr.CmdRoutes, err)
	}
	routes, err := frr.ParseRoutes(data)
	if err != nil {
		return nil, m.fetchFailed(frr.CmdRoutes, err)
	}

	res := make([]routeEntry, 0, len(routes))
	for _, r := range routes {
		typ := parseRouteType(r.Type)
		if typ == RouteTypeUnknown {
			continue
		}
		e := routeEntry{
			typ:     typ,
			dest:    r.Prefix,
			area:    ID(r.Area),
			nextHop: r.NextHop,
			status: RouteStatus{
				Cost:       r.Cost,
				ASCost:     GeneralCostMin,
				BorderType: parseBorderRouterType(r.RouterType, r.InterArea),
				IfIndex:    IfIndex(r.IfIndex),
				Connected:  r.Connected,
			},
		}
		if typ == RouteExternalType2 {
			e.status.Cost, e.status.ASCost = r.ExtCost, r.Cost
		}
		res = append(res, e)
	}
	slices.SortFunc(res, compareRoute)
	return res, nil
}

func (m *Manager) routeLevel(ctx context.Context, keep func(routeEntry) bool) ([]routeEntry, error) {
	routes, err := m.routes.Result(ctx)
	if err != nil {
		return nil, err
	}
	if keep == nil {
		return routes, nil
	}
	var res []routeEntry
	for _, r := range routes {
		if keep(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

func (m *Manager) routeWalker(ctx context.Context) *getnext.Walker5[InstanceID, RouteType, netip.Prefix, ID, netip.Addr] {
	return getnext.Dependent5(m.instanceLevel,
		created(m, func(cur *RouteType, _ InstanceID) (RouteType, bool, error) {
			rs, err := m.routeLevel(ctx, nil)
			if err != nil {
				return 0, false, err
			}
			v, ok := getnext.Least(column(rs, nil, func(r routeEntry) RouteType { return r.typ }), cur, cmp.Compare[RouteType])
			return v, ok, nil
		}),
		func(cur *netip.Prefix, _ InstanceID, t RouteType) (netip.Prefix, bool, error) {
			rs, err := m.routeLevel(ctx, func(r routeEntry) bool { return r.typ == t })
			if err != nil {
				return netip.Prefix{}, false, err
			}
			v, ok := getnext.Least(column(rs, nil, func(r routeEntry) netip.Prefix { return r.dest }), cur, comparePrefix)
			return v, ok, nil
		},
		func(cur *ID, _ InstanceID, t RouteType, d netip.Prefix) (ID, bool, error) {
			rs, err := m.routeLevel(ctx, func(r routeEntry) bool { return r.typ == t && r.dest == d })
			if err != nil {
				return 0, false, err
			}
			v, ok := getnext.Least(column(rs, nil, func(r routeEntry) ID { return r.area }), cur, cmp.Compare[ID])
			return v, ok, nil
		},
		func(cur *netip.Addr, _ InstanceID, t RouteType, d netip.Prefix, a ID) (netip.Addr, bool, error) {
			rs, err := m.routeLevel(ctx, func(r routeEntry) bool { return r.typ == t && r.dest == d && r.area == a })
			if err != nil {
				return netip.Addr{}, false, err
			}
			v, ok := getnext.Least(column(rs, nil, func(r routeEntry) netip.Addr { return r.nextHop }), cur, compareAddr)
			return v, ok, nil
		},
	).WithLogger(m.logger)
}

// RouteNext walks the routing table by (instance, type, destination, area,
// next hop).
//
// A type of RouteTypeUnknown or above with an instance given skips the
// rest of that instance: the walk resumes at the first row of a later
// instance, and reports no row when the instance is the last one. An
// instance above the maximum reports no row.
func (m *Manager) RouteNext(ctx context.Context, id *InstanceID, rt *RouteType, dest *netip.Prefix, area *ID, nextHop *netip.Addr) (RouteKey, bool, error) {
	defer m.lock()()

	if id != nil && *id > m.instanceMax {
		return RouteKey{}, false, nil
	}
	if id != nil && rt != nil && *rt >= RouteTypeUnknown {
		if *id == m.instanceMax {
			return RouteKey{}, false, nil
		}
		next := *id + 1
		id, rt, dest, area, nextHop = &next, nil, nil, nil, nil
	}

	r, ok, err := m.routeWalker(ctx).Next(id, rt, dest, area, nextHop)
	return RouteKey{ID: r.K1, Type: r.K2, Dest: r.K3, Area: r.K4, NextHop: r.K5}, ok, err
}

// Route returns the status of one routing table path.
func (m *Manager) Route(ctx context.Context, key RouteKey) (RouteStatus, error) {
	defer m.lock()()

	if !m.exists(key.ID) {
		return RouteStatus{}, fmt.Errorf("%w: instance %d", ErrNotFound, key.ID)
	}
	routes, err := m.routes.Result(ctx)
	if err != nil {
		return RouteStatus{}, err
	}
	want := routeEntry{typ: key.Type, dest: key.Dest, area: key.Area, nextHop: key.NextHop}
	i, found := slices.BinarySearchFunc(routes, want, compareRoute)
	if !found {
		return RouteStatus{}, fmt.Errorf("%w: %s route %s via %s", ErrNotFound, key.Type, key.Dest, key.NextHop)
	}
	return routes[i].status, nil
}

// RouteAll returns every path of every instance in key order.
func (m *Manager) RouteAll(ctx context.Context) ([]RouteData, error) {
	defer m.lock()()

	routes, err := m.routes.Result(ctx)
	if err != nil {
		return nil, err
	}
	var res []RouteData
	for id := range m.instances() {
		for _, r := range routes {
			res = append(res, RouteData{
				Key:    RouteKey{ID: id, Type: r.typ, Dest: r.dest, Area: r.area, NextHop: r.nextHop},
				Status: r.status,
			})
		}
	}
	return res, nil
}
