package ospf6

import (
	"context"
	"fmt"
	"maps"
	"net/netip"
	"slices"

	"github.com/golangsnmp/ospf6/snmp"
)

// DefaultMIBRoot is the OID the OSPF6 tables are laid out under unless
// WithMIBRoot says otherwise.
var DefaultMIBRoot = snmp.Oid{1, 3, 6, 1, 3, 191}

// SNMP table arcs under the MIB root. Each table's entry is arc 1 and its
// columns are numbered from 1 in the order listed.
const (
	// AreaTable is indexed by (instance, area).
	// Columns: type, SPF runs, LSA count, interface count.
	AreaTable = 1
	// InterfaceTable is indexed by ifindex.
	// Columns: state, area, cost, priority, hello, dead.
	InterfaceTable = 2
	// NeighborTable is indexed by (instance, router ID, address, ifindex).
	// Columns: state, priority, dead time in seconds.
	NeighborTable = 3
	// RouteTable is indexed by (instance, type, destination, area, next hop).
	// Columns: cost, AS cost, ifindex.
	RouteTable = 4
	// DBTable is indexed by (instance, area, type, link state ID,
	// advertising router). Columns: age, sequence, checksum.
	DBTable = 5
)

// VarBind is one instantiated SNMP object.
type VarBind struct {
	OID   snmp.Oid
	Value uint32
}

// snmpRows is a table's content in index order. values[i] holds the
// column values of rows[i].
type snmpRows struct {
	rows   []snmp.Index
	values [][]uint32
}

func (r *snmpRows) add(index snmp.Index, values ...uint32) {
	r.rows = append(r.rows, index)
	r.values = append(r.values, values)
}

type snmpTable struct {
	snmp.Table
	load func(m *Manager, ctx context.Context) (snmpRows, error)
}

var snmpTables = []snmpTable{
	{snmp.Table{Arc: AreaTable, Columns: 4}, (*Manager).areaRows},
	{snmp.Table{Arc: InterfaceTable, Columns: 6}, (*Manager).interfaceRows},
	{snmp.Table{Arc: NeighborTable, Columns: 3}, (*Manager).neighborRows},
	{snmp.Table{Arc: RouteTable, Columns: 3}, (*Manager).routeRows},
	{snmp.Table{Arc: DBTable, Columns: 3}, (*Manager).dbRows},
}

// SNMPNext returns the first instantiated object after oid. ok is false
// when no object under the MIB root follows oid.
func (m *Manager) SNMPNext(ctx context.Context, oid snmp.Oid) (VarBind, bool, error) {
	defer m.lock()()

	for _, t := range snmpTables {
		base := m.mibRoot.Child(t.Arc)
		if !oid.HasPrefix(base) && base.Compare(oid) < 0 {
			continue
		}
		rows, err := t.load(m, ctx)
		if err != nil {
			return VarBind{}, false, err
		}
		col, row, ok := t.Next(m.mibRoot, oid, rows.rows)
		if !ok {
			continue
		}
		return VarBind{
			OID:   t.Instance(m.mibRoot, col, rows.rows[row]),
			Value: rows.values[row][col-1],
		}, true, nil
	}
	return VarBind{}, false, nil
}

// SNMPGet returns the value of the object at oid.
func (m *Manager) SNMPGet(ctx context.Context, oid snmp.Oid) (uint32, error) {
	defer m.lock()()

	for _, t := range snmpTables {
		if !oid.HasPrefix(m.mibRoot.Child(t.Arc)) {
			continue
		}
		rows, err := t.load(m, ctx)
		if err != nil {
			return 0, err
		}
		col, row, ok := t.Lookup(m.mibRoot, oid, rows.rows)
		if !ok {
			break
		}
		return rows.values[row][col-1], nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNotFound, oid)
}

func (m *Manager) areaRows(ctx context.Context) (snmpRows, error) {
	var res snmpRows
	w := m.areaWalker(ctx)
	var (
		id   *InstanceID
		area *ID
	)
	for {
		r, ok, err := w.Next(id, area)
		if err != nil {
			return snmpRows{}, err
		}
		if !ok {
			return res, nil
		}
		st, err := m.areaStatus(ctx, r.K2)
		if err != nil {
			return snmpRows{}, err
		}
		res.add(snmp.Index(nil).Uint32(uint32(r.K1)).ID(uint32(r.K2)),
			uint32(st.Type), st.SPFExecuted, st.LSACount, st.InterfaceCount)
		id, area = &r.K1, &r.K2
	}
}

func (m *Manager) interfaceRows(ctx context.Context) (snmpRows, error) {
	var res snmpRows
	if !m.exists(1) {
		return res, nil
	}
	intfs, err := m.interfaces.Result(ctx)
	if err != nil {
		return snmpRows{}, err
	}
	for _, k := range slices.Sorted(maps.Keys(intfs)) {
		st, err := m.interfaceStatus(ctx, IfIndex(k), intfs[k])
		if err != nil {
			continue
		}
		res.add(snmp.Index(nil).Uint32(k),
			uint32(st.State), uint32(st.Area), st.Cost, uint32(st.Priority), st.Hello, st.Dead)
	}
	return res, nil
}

func (m *Manager) neighborRows(ctx context.Context) (snmpRows, error) {
	nbrs, err := m.neighbors.Result(ctx)
	if err != nil {
		return snmpRows{}, err
	}
	var res snmpRows
	w := m.neighborWalker2(ctx)
	var (
		id  *InstanceID
		nid *ID
		nip *netip.Addr
		ifx *IfIndex
	)
	for {
		r, ok, err := w.Next(id, nid, nip, ifx)
		if err != nil {
			return snmpRows{}, err
		}
		if !ok {
			return res, nil
		}
		for _, n := range nbrs {
			if ID(n.RouterID) == r.K2 && n.Addr == r.K3 && IfIndex(n.IfIndex) == r.K4 {
				st := neighborStatus(n)
				res.add(snmp.Index(nil).Uint32(uint32(r.K1)).ID(uint32(r.K2)).Addr(r.K3).Uint32(uint32(r.K4)),
					uint32(st.State), uint32(st.Priority), uint32(st.DeadTime.Seconds()))
				break
			}
		}
		id, nid, nip, ifx = &r.K1, &r.K2, &r.K3, &r.K4
	}
}

func (m *Manager) routeRows(ctx context.Context) (snmpRows, error) {
	routes, err := m.routes.Result(ctx)
	if err != nil {
		return snmpRows{}, err
	}
	var res snmpRows
	for id := range m.instances() {
		for _, r := range routes {
			res.add(snmp.Index(nil).Uint32(uint32(id)).Uint32(uint32(r.typ)).Prefix(r.dest).ID(uint32(r.area)).Addr(r.nextHop),
				r.status.Cost, r.status.ASCost, uint32(r.status.IfIndex))
		}
	}
	return res, nil
}

func (m *Manager) dbRows(ctx context.Context) (snmpRows, error) {
	entries, err := m.database.Result(ctx)
	if err != nil {
		return snmpRows{}, err
	}
	var res snmpRows
	for id := range m.instances() {
		for _, e := range entries {
			res.add(snmp.Index(nil).Uint32(uint32(id)).ID(uint32(e.area)).Uint32(uint32(e.typ)).ID(uint32(e.linkID)).ID(uint32(e.advRouter)),
				e.status.Age, e.status.Seq, e.status.Checksum)
		}
	}
	return res, nil
}
