package ospf6

import (
	"cmp"
	"context"
	"fmt"
	"net/netip"

	"github.com/golangsnmp/ospf6/getnext"
	"github.com/golangsnmp/ospf6/internal/frr"
)

// NeighborKey identifies a neighbor row. Which fields are meaningful
// depends on the walk that produced it: NeighborNext fills ID, Addr and
// IfIndex; NeighborNext2 adds RouterID; NeighborNext3 adds TransitArea.
type NeighborKey struct {
	ID          InstanceID
	TransitArea ID
	RouterID    ID
	Addr        netip.Addr
	IfIndex     IfIndex
}

// NeighborData is one row of NeighborStatusAll.
type NeighborData struct {
	Key    NeighborKey
	Status NeighborStatus
}

type neighborFilter func(n frr.Neighbor) bool

func anyNeighbor(frr.Neighbor) bool { return true }

// neighborLevel enumerates one column of the neighbor cache among the
// neighbors that pass keep.
func neighborLevel[K any](ctx context.Context, m *Manager, cur *K, keep neighborFilter, key func(frr.Neighbor) K, compare func(a, b K) int) (K, bool, error) {
	var zero K
	nbrs, err := m.neighbors.Result(ctx)
	if err != nil {
		return zero, false, err
	}
	v, ok := getnext.Least(column(nbrs, keep, key), cur, compare)
	return v, ok, nil
}

func nbrAddr(n frr.Neighbor) netip.Addr { return n.Addr }

func nbrIfIndex(n frr.Neighbor) IfIndex { return IfIndex(n.IfIndex) }

func nbrRouterID(n frr.Neighbor) ID { return ID(n.RouterID) }

func nbrTransit(n frr.Neighbor) ID { return ID(n.TransitArea) }

func nbrVLink(n frr.Neighbor) bool { return frr.IsVLink(n.IfIndex) }

func sameAddr(a netip.Addr) neighborFilter {
	return func(n frr.Neighbor) bool { return n.Addr == a }
}

// NeighborNext walks neighbors by (instance, address, ifindex).
func (m *Manager) NeighborNext(ctx context.Context, id *InstanceID, nip *netip.Addr, ifx *IfIndex) (NeighborKey, bool, error) {
	defer m.lock()()

	if id != nil && *id > m.instanceMax {
		return NeighborKey{}, false, nil
	}
	if _, err := m.neighbors.Update(ctx); err != nil {
		return NeighborKey{}, false, err
	}

	w := getnext.Dependent3(m.instanceLevel,
		created(m, func(cur *netip.Addr, _ InstanceID) (netip.Addr, bool, error) {
			return neighborLevel(ctx, m, cur, anyNeighbor, nbrAddr, compareAddr)
		}),
		func(cur *IfIndex, _ InstanceID, a netip.Addr) (IfIndex, bool, error) {
			return neighborLevel(ctx, m, cur, sameAddr(a), nbrIfIndex, cmp.Compare[IfIndex])
		},
	).WithLogger(m.logger)

	r, ok, err := w.Next(id, nip, ifx)
	return NeighborKey{ID: r.K1, Addr: r.K2, IfIndex: r.K3}, ok, err
}

// NeighborNext2 walks neighbors by (instance, router ID, address, ifindex).
func (m *Manager) NeighborNext2(ctx context.Context, id *InstanceID, nid *ID, nip *netip.Addr, ifx *IfIndex) (NeighborKey, bool, error) {
	defer m.lock()()

	if id != nil && *id > m.instanceMax {
		return NeighborKey{}, false, nil
	}
	if _, err := m.neighbors.Update(ctx); err != nil {
		return NeighborKey{}, false, err
	}
	r, ok, err := m.neighborWalker2(ctx).Next(id, nid, nip, ifx)
	return NeighborKey{ID: r.K1, RouterID: r.K2, Addr: r.K3, IfIndex: r.K4}, ok, err
}

func (m *Manager) neighborWalker2(ctx context.Context) *getnext.Walker4[InstanceID, ID, netip.Addr, IfIndex] {
	return getnext.Dependent4(m.instanceLevel,
		created(m, func(cur *ID, _ InstanceID) (ID, bool, error) {
			return neighborLevel(ctx, m, cur, anyNeighbor, nbrRouterID, cmp.Compare[ID])
		}),
		func(cur *netip.Addr, _ InstanceID, nid ID) (netip.Addr, bool, error) {
			keep := func(n frr.Neighbor) bool { return ID(n.RouterID) == nid }
			return neighborLevel(ctx, m, cur, keep, nbrAddr, compareAddr)
		},
		func(cur *IfIndex, _ InstanceID, nid ID, a netip.Addr) (IfIndex, bool, error) {
			keep := func(n frr.Neighbor) bool { return ID(n.RouterID) == nid && n.Addr == a }
			return neighborLevel(ctx, m, cur, keep, nbrIfIndex, cmp.Compare[IfIndex])
		},
	).WithLogger(m.logger)
}

// NeighborNext3 walks virtual-link neighbors by (instance, transit area,
// router ID, address, ifindex).
func (m *Manager) NeighborNext3(ctx context.Context, id *InstanceID, transit *ID, nid *ID, nip *netip.Addr, ifx *IfIndex) (NeighborKey, bool, error) {
	defer m.lock()()

	if id != nil && *id > m.instanceMax {
		return NeighborKey{}, false, nil
	}
	if _, err := m.neighbors.Update(ctx); err != nil {
		return NeighborKey{}, false, err
	}

	w := getnext.Dependent5(m.instanceLevel,
		created(m, func(cur *ID, _ InstanceID) (ID, bool, error) {
			return neighborLevel(ctx, m, cur, nbrVLink, nbrTransit, cmp.Compare[ID])
		}),
		func(cur *ID, _ InstanceID, t ID) (ID, bool, error) {
			keep := func(n frr.Neighbor) bool { return nbrVLink(n) && ID(n.TransitArea) == t }
			return neighborLevel(ctx, m, cur, keep, nbrRouterID, cmp.Compare[ID])
		},
		func(cur *netip.Addr, _ InstanceID, t, nid ID) (netip.Addr, bool, error) {
			keep := func(n frr.Neighbor) bool {
				return nbrVLink(n) && ID(n.TransitArea) == t && ID(n.RouterID) == nid
			}
			return neighborLevel(ctx, m, cur, keep, nbrAddr, compareAddr)
		},
		func(cur *IfIndex, _ InstanceID, t, nid ID, a netip.Addr) (IfIndex, bool, error) {
			keep := func(n frr.Neighbor) bool {
				return nbrVLink(n) && ID(n.TransitArea) == t && ID(n.RouterID) == nid && n.Addr == a
			}
			return neighborLevel(ctx, m, cur, keep, nbrIfIndex, cmp.Compare[IfIndex])
		},
	).WithLogger(m.logger)

	r, ok, err := w.Next(id, transit, nid, nip, ifx)
	return NeighborKey{ID: r.K1, TransitArea: r.K2, RouterID: r.K3, Addr: r.K4, IfIndex: r.K5}, ok, err
}

// NeighborStatus returns the status of the neighbor at (nip, ifx). nid
// DontCareNID matches any router ID.
func (m *Manager) NeighborStatus(ctx context.Context, id InstanceID, nid ID, nip netip.Addr, ifx IfIndex) (NeighborStatus, error) {
	defer m.lock()()

	if !m.exists(id) {
		return NeighborStatus{}, fmt.Errorf("%w: instance %d", ErrNotFound, id)
	}
	nbrs, err := m.neighbors.Update(ctx)
	if err != nil {
		return NeighborStatus{}, err
	}
	for _, n := range nbrs {
		if nid != DontCareNID && ID(n.RouterID) != nid {
			continue
		}
		if n.Addr == nip && IfIndex(n.IfIndex) == ifx {
			return neighborStatus(n), nil
		}
	}
	return NeighborStatus{}, fmt.Errorf("%w: neighbor %s on %s", ErrNotFound, nip, ifx)
}

// NeighborStatusAll returns every neighbor in (instance, router ID,
// address, ifindex) order.
func (m *Manager) NeighborStatusAll(ctx context.Context) ([]NeighborData, error) {
	defer m.lock()()

	nbrs, err := m.neighbors.Update(ctx)
	if err != nil {
		return nil, err
	}
	w := m.neighborWalker2(ctx)

	var (
		res []NeighborData
		id  *InstanceID
		nid *ID
		nip *netip.Addr
		ifx *IfIndex
	)
	for {
		r, ok, err := w.Next(id, nid, nip, ifx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		d := NeighborData{Key: NeighborKey{ID: r.K1, RouterID: r.K2, Addr: r.K3, IfIndex: r.K4}}
		for _, n := range nbrs {
			if ID(n.RouterID) == r.K2 && n.Addr == r.K3 && IfIndex(n.IfIndex) == r.K4 {
				d.Status = neighborStatus(n)
				break
			}
		}
		res = append(res, d)
		id, nid, nip, ifx = &r.K1, &r.K2, &r.K3, &r.K4
	}
	return res, nil
}

// NeighborIDByAddr returns the router ID of the neighbor using addr.
func (m *Manager) NeighborIDByAddr(ctx context.Context, addr netip.Addr) (ID, bool, error) {
	defer m.lock()()

	nbrs, err := m.neighbors.Result(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, n := range nbrs {
		if n.Addr == addr {
			return ID(n.RouterID), true, nil
		}
	}
	return 0, false, nil
}

func neighborStatus(n frr.Neighbor) NeighborStatus {
	return NeighborStatus{
		RouterID:    ID(n.RouterID),
		Addr:        n.Addr,
		IfIndex:     IfIndex(n.IfIndex),
		Area:        ID(n.Area),
		TransitArea: ID(n.TransitArea),
		Priority:    n.Priority,
		State:       parseNeighborState(n.State),
		DR:          ID(n.DR),
		BDR:         ID(n.BDR),
		DeadTime:    n.DeadTimer,
	}
}
