package ospf6

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/golangsnmp/ospf6/getnext"
	"github.com/golangsnmp/ospf6/internal/frr"
)

// DBKey identifies one link-state database entry. AS-scope entries use
// area 0.0.0.0.
type DBKey struct {
	ID        InstanceID
	Area      ID
	Type      LSDBType
	LinkID    ID
	AdvRouter ID
}

// DBData is one row of DBAll.
type DBData struct {
	Key    DBKey
	Status DBStatus
}

type dbEntry struct {
	area      ID
	typ       LSDBType
	linkID    ID
	advRouter ID
	status    DBStatus
	lsa       frr.LSA
}

func compareDB(a, b dbEntry) int {
	return cmp.Or(
		cmp.Compare(a.area, b.area),
		cmp.Compare(a.typ, b.typ),
		cmp.Compare(a.linkID, b.linkID),
		cmp.Compare(a.advRouter, b.advRouter),
	)
}

func (m *Manager) fetchDatabase(ctx context.Context) ([]dbEntry, error) {
	data, err := m.client.Show(ctx, frr.CmdDatabase)
	if err != nil {
		return nil, m.fetchFailed(frr.CmdDatabase, err)
	}
	db, err := frr.ParseDatabase(data)
	if err != nil {
		return nil, m.fetchFailed(frr.CmdDatabase, err)
	}

	res := make([]dbEntry, 0, len(db.LSAs))
	for _, l := range db.LSAs {
		res = append(res, dbEntry{
			area:      ID(l.Area),
			typ:       LSDBType(l.Type),
			linkID:    ID(l.LinkID),
			advRouter: ID(l.AdvRouter),
			status: DBStatus{
				Age:         l.Age,
				Seq:         l.Seq,
				Checksum:    l.Checksum,
				RouterLinks: l.RouterLinks,
			},
			lsa: l,
		})
	}
	slices.SortFunc(res, compareDB)
	return slices.CompactFunc(res, func(a, b dbEntry) bool { return compareDB(a, b) == 0 }), nil
}

// dbLevel enumerates one key column among the entries that pass keep.
func dbLevel[K any](ctx context.Context, m *Manager, cur *K, keep func(dbEntry) bool, key func(dbEntry) K, compare func(a, b K) int) (K, bool, error) {
	var zero K
	entries, err := m.database.Result(ctx)
	if err != nil {
		return zero, false, err
	}
	v, ok := getnext.Least(column(entries, keep, key), cur, compare)
	return v, ok, nil
}

// dbWalker walks the database entries that pass scope, or all of them when
// scope is nil.
func (m *Manager) dbWalker(ctx context.Context, scope func(dbEntry) bool) *getnext.Walker5[InstanceID, ID, LSDBType, ID, ID] {
	in := func(keep func(dbEntry) bool) func(dbEntry) bool {
		if scope == nil {
			return keep
		}
		if keep == nil {
			return scope
		}
		return func(e dbEntry) bool { return scope(e) && keep(e) }
	}
	return getnext.Dependent5(m.instanceLevel,
		created(m, func(cur *ID, _ InstanceID) (ID, bool, error) {
			return dbLevel(ctx, m, cur, in(nil), func(e dbEntry) ID { return e.area }, cmp.Compare[ID])
		}),
		func(cur *LSDBType, _ InstanceID, a ID) (LSDBType, bool, error) {
			keep := in(func(e dbEntry) bool { return e.area == a })
			return dbLevel(ctx, m, cur, keep, func(e dbEntry) LSDBType { return e.typ }, cmp.Compare[LSDBType])
		},
		func(cur *ID, _ InstanceID, a ID, t LSDBType) (ID, bool, error) {
			keep := in(func(e dbEntry) bool { return e.area == a && e.typ == t })
			return dbLevel(ctx, m, cur, keep, func(e dbEntry) ID { return e.linkID }, cmp.Compare[ID])
		},
		func(cur *ID, _ InstanceID, a ID, t LSDBType, lsid ID) (ID, bool, error) {
			keep := in(func(e dbEntry) bool { return e.area == a && e.typ == t && e.linkID == lsid })
			return dbLevel(ctx, m, cur, keep, func(e dbEntry) ID { return e.advRouter }, cmp.Compare[ID])
		},
	).WithLogger(m.logger)
}

func dbKeyOf(r getnext.Row5[InstanceID, ID, LSDBType, ID, ID]) DBKey {
	return DBKey{ID: r.K1, Area: r.K2, Type: r.K3, LinkID: r.K4, AdvRouter: r.K5}
}

// DBNext walks the link-state database by (instance, area, type, link
// state ID, advertising router).
func (m *Manager) DBNext(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	defer m.lock()()

	if id != nil && *id > m.instanceMax {
		return DBKey{}, false, nil
	}
	r, ok, err := m.dbWalker(ctx, nil).Next(id, area, typ, lsid, adv)
	return dbKeyOf(r), ok, err
}

// DB returns the header of one link-state database entry.
func (m *Manager) DB(ctx context.Context, key DBKey) (DBStatus, error) {
	defer m.lock()()

	e, err := m.lookupDB(ctx, key)
	if err != nil {
		return DBStatus{}, err
	}
	return e.status, nil
}

func (m *Manager) lookupDB(ctx context.Context, key DBKey) (dbEntry, error) {
	if !m.exists(key.ID) {
		return dbEntry{}, fmt.Errorf("%w: instance %d", ErrNotFound, key.ID)
	}
	entries, err := m.database.Result(ctx)
	if err != nil {
		return dbEntry{}, err
	}
	want := dbEntry{area: key.Area, typ: key.Type, linkID: key.LinkID, advRouter: key.AdvRouter}
	i, found := slices.BinarySearchFunc(entries, want, compareDB)
	if !found {
		return dbEntry{}, fmt.Errorf("%w: %s LSA %s from %s in area %s", ErrNotFound, key.Type, key.LinkID, key.AdvRouter, key.Area)
	}
	return entries[i], nil
}

// DBAll returns every link-state database entry of every instance in key
// order.
func (m *Manager) DBAll(ctx context.Context) ([]DBData, error) {
	defer m.lock()()

	entries, err := m.database.Result(ctx)
	if err != nil {
		return nil, err
	}
	var res []DBData
	for id := range m.instances() {
		for _, e := range entries {
			res = append(res, DBData{
				Key:    DBKey{ID: id, Area: e.area, Type: e.typ, LinkID: e.linkID, AdvRouter: e.advRouter},
				Status: e.status,
			})
		}
	}
	return res, nil
}
