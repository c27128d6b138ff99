package ospf6

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"github.com/golangsnmp/ospf6/internal/frr"
)

// LSAOptions is the options field of an LSA.
type LSAOptions uint8

const (
	LSAOptionV6 = LSAOptions(frr.LSAOptionV6)
	LSAOptionE  = LSAOptions(frr.LSAOptionE)
	LSAOptionMC = LSAOptions(frr.LSAOptionMC)
	LSAOptionN  = LSAOptions(frr.LSAOptionN)
	LSAOptionR  = LSAOptions(frr.LSAOptionR)
	LSAOptionDC = LSAOptions(frr.LSAOptionDC)
)

func (o LSAOptions) String() string {
	return optionString(uint8(o), []string{"V6", "E", "MC", "N", "R", "DC"})
}

// PrefixOptions is the options field of an advertised prefix.
type PrefixOptions uint8

const (
	PrefixOptionNU = PrefixOptions(frr.PrefixOptionNU)
	PrefixOptionLA = PrefixOptions(frr.PrefixOptionLA)
	PrefixOptionMC = PrefixOptions(frr.PrefixOptionMC)
	PrefixOptionP  = PrefixOptions(frr.PrefixOptionP)
	PrefixOptionDN = PrefixOptions(frr.PrefixOptionDN)
)

func (o PrefixOptions) String() string {
	return optionString(uint8(o), []string{"NU", "LA", "MC", "P", "DN"})
}

// optionString lists the names of the bits set in v, lowest bit first.
func optionString(v uint8, names []string) string {
	var set []string
	for i, n := range names {
		if v&(1<<i) != 0 {
			set = append(set, n)
		}
	}
	if len(set) == 0 {
		return "-"
	}
	return strings.Join(set, "|")
}

// RouterLinkType is the kind of link a router LSA describes.
type RouterLinkType uint8

const (
	RouterLinkPointToPoint = RouterLinkType(frr.RouterLinkPointToPoint)
	RouterLinkTransit      = RouterLinkType(frr.RouterLinkTransit)
	RouterLinkVirtual      = RouterLinkType(frr.RouterLinkVirtual)
)

func (t RouterLinkType) String() string {
	switch t {
	case RouterLinkPointToPoint:
		return "point-to-point"
	case RouterLinkTransit:
		return "transit"
	case RouterLinkVirtual:
		return "virtual-link"
	}
	return "unknown"
}

// DBHeader holds the LSA header fields every detail table reports.
type DBHeader struct {
	Age      uint32
	Options  LSAOptions
	Seq      uint32
	Checksum uint32
	Length   uint32
}

// DBRouterData is a router LSA.
type DBRouterData struct {
	DBHeader
	LinkCount uint32
}

// DBRouterLink is one link of a router LSA.
type DBRouterLink struct {
	Type                RouterLinkType
	Metric              uint32
	InterfaceID         uint32
	NeighborInterfaceID uint32
	NeighborRouterID    ID
}

// DBLinkData is a link LSA.
type DBLinkData struct {
	DBHeader
	PrefixCount uint32
}

// DBPrefix is one prefix of a link or intra-area-prefix LSA.
type DBPrefix struct {
	Prefix  netip.Prefix
	Options PrefixOptions
}

// DBIntraAreaPrefixData is an intra-area-prefix LSA.
type DBIntraAreaPrefixData struct {
	DBHeader
	PrefixCount uint32
}

// DBNetworkData is a network LSA.
type DBNetworkData struct {
	DBHeader
	AttachedRouterCount uint32
}

// DBInterAreaPrefixData is an inter-area-prefix LSA.
type DBInterAreaPrefixData struct {
	DBHeader
	Prefix netip.Prefix
	Metric uint32
}

// DBInterAreaRouterData is an inter-area-router LSA.
type DBInterAreaRouterData struct {
	DBHeader
	Destination ID
	Metric      uint32
}

// DBExternalData is an AS-external LSA.
type DBExternalData struct {
	DBHeader
	Prefix      netip.Prefix
	MetricType  uint8
	Metric      uint32
	ForwardAddr netip.Addr
}

// DBDetail is one row of a detail table listing.
type DBDetail[T any] struct {
	Key  DBKey
	Data T
}

// dbTable is the view of the link-state database holding one LSA type.
type dbTable[T any] struct {
	typ  LSDBType
	data func(frr.LSA) T
}

func header(l frr.LSA) DBHeader {
	return DBHeader{
		Age:      l.Age,
		Options:  LSAOptions(l.Options),
		Seq:      l.Seq,
		Checksum: l.Checksum,
		Length:   l.Length,
	}
}

var (
	dbRouterTable = dbTable[DBRouterData]{LSDBRouter, func(l frr.LSA) DBRouterData {
		return DBRouterData{DBHeader: header(l), LinkCount: uint32(len(l.Links))}
	}}
	dbLinkTable = dbTable[DBLinkData]{LSDBLink, func(l frr.LSA) DBLinkData {
		return DBLinkData{DBHeader: header(l), PrefixCount: uint32(len(l.Prefixes))}
	}}
	dbIntraAreaPrefixTable = dbTable[DBIntraAreaPrefixData]{LSDBIntraAreaPrefix, func(l frr.LSA) DBIntraAreaPrefixData {
		return DBIntraAreaPrefixData{DBHeader: header(l), PrefixCount: uint32(len(l.Prefixes))}
	}}
	dbNetworkTable = dbTable[DBNetworkData]{LSDBNetwork, func(l frr.LSA) DBNetworkData {
		return DBNetworkData{DBHeader: header(l), AttachedRouterCount: uint32(len(l.AttachedRouters))}
	}}
	dbInterAreaPrefixTable = dbTable[DBInterAreaPrefixData]{LSDBInterAreaPrefix, func(l frr.LSA) DBInterAreaPrefixData {
		return DBInterAreaPrefixData{DBHeader: header(l), Prefix: l.Prefix, Metric: l.Metric}
	}}
	dbInterAreaRouterTable = dbTable[DBInterAreaRouterData]{LSDBInterAreaRouter, func(l frr.LSA) DBInterAreaRouterData {
		return DBInterAreaRouterData{DBHeader: header(l), Destination: ID(l.Destination), Metric: l.Metric}
	}}
	dbExternalTable = dbTable[DBExternalData]{LSDBExternal, func(l frr.LSA) DBExternalData {
		return DBExternalData{
			DBHeader:    header(l),
			Prefix:      l.Prefix,
			MetricType:  l.MetricType,
			Metric:      l.Metric,
			ForwardAddr: l.ForwardAddr,
		}
	}}
)

func (t dbTable[T]) holds(e dbEntry) bool { return e.typ == t.typ }

// next walks the table by (instance, area, type, link state ID,
// advertising router). A type above the table's own with an instance and
// area given skips the rest of that instance, as RouteNext does for its
// type sentinel.
func (t dbTable[T]) next(ctx context.Context, m *Manager, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	m.guard.AssertHeld()
	if id != nil && *id > m.instanceMax {
		return DBKey{}, false, nil
	}
	if id != nil && area != nil && typ != nil && *typ > t.typ {
		if *id == m.instanceMax {
			return DBKey{}, false, nil
		}
		next := *id + 1
		id, area, typ, lsid, adv = &next, nil, nil, nil, nil
	}
	r, ok, err := m.dbWalker(ctx, t.holds).Next(id, area, typ, lsid, adv)
	return dbKeyOf(r), ok, err
}

func (t dbTable[T]) lsa(ctx context.Context, m *Manager, key DBKey) (frr.LSA, error) {
	m.guard.AssertHeld()
	if key.Type != t.typ {
		return frr.LSA{}, fmt.Errorf("%w: %s LSA in the %s table", ErrNotFound, key.Type, t.typ)
	}
	e, err := m.lookupDB(ctx, key)
	if err != nil {
		return frr.LSA{}, err
	}
	return e.lsa, nil
}

func (t dbTable[T]) get(ctx context.Context, m *Manager, key DBKey) (T, error) {
	l, err := t.lsa(ctx, m, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.data(l), nil
}

func (t dbTable[T]) all(ctx context.Context, m *Manager) ([]DBDetail[T], error) {
	m.guard.AssertHeld()
	entries, err := m.database.Result(ctx)
	if err != nil {
		return nil, err
	}
	var res []DBDetail[T]
	for id := range m.instances() {
		for _, e := range entries {
			if !t.holds(e) {
				continue
			}
			res = append(res, DBDetail[T]{
				Key:  DBKey{ID: id, Area: e.area, Type: e.typ, LinkID: e.linkID, AdvRouter: e.advRouter},
				Data: t.data(e.lsa),
			})
		}
	}
	return res, nil
}

// entryAt returns conv(s[index]) for one element of an LSA's list.
func entryAt[E, T any](s []E, index uint32, key DBKey, conv func(E) T) (T, error) {
	if int(index) >= len(s) {
		var zero T
		return zero, fmt.Errorf("%w: entry %d of %s LSA %s from %s (has %d)", ErrNotFound, index, key.Type, key.LinkID, key.AdvRouter, len(s))
	}
	return conv(s[index]), nil
}

func dbPrefix(p frr.LSAPrefix) DBPrefix {
	return DBPrefix{Prefix: p.Prefix, Options: PrefixOptions(p.Options)}
}

// DBDetailRouterNext walks the router LSAs.
func (m *Manager) DBDetailRouterNext(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	defer m.lock()()
	return dbRouterTable.next(ctx, m, id, area, typ, lsid, adv)
}

// DBDetailRouter returns one router LSA.
func (m *Manager) DBDetailRouter(ctx context.Context, key DBKey) (DBRouterData, error) {
	defer m.lock()()
	return dbRouterTable.get(ctx, m, key)
}

// DBDetailRouterEntry returns link index of a router LSA.
func (m *Manager) DBDetailRouterEntry(ctx context.Context, key DBKey, index uint32) (DBRouterLink, error) {
	defer m.lock()()

	l, err := dbRouterTable.lsa(ctx, m, key)
	if err != nil {
		return DBRouterLink{}, err
	}
	return entryAt(l.Links, index, key, func(rl frr.RouterLink) DBRouterLink {
		return DBRouterLink{
			Type:                RouterLinkType(rl.Type),
			Metric:              rl.Metric,
			InterfaceID:         rl.InterfaceID,
			NeighborInterfaceID: rl.NeighborInterfaceID,
			NeighborRouterID:    ID(rl.NeighborRouterID),
		}
	})
}

// DBDetailRouterAll returns every router LSA of every instance.
func (m *Manager) DBDetailRouterAll(ctx context.Context) ([]DBDetail[DBRouterData], error) {
	defer m.lock()()
	return dbRouterTable.all(ctx, m)
}

// DBDetailLinkNext walks the link LSAs.
func (m *Manager) DBDetailLinkNext(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	defer m.lock()()
	return dbLinkTable.next(ctx, m, id, area, typ, lsid, adv)
}

// DBDetailLink returns one link LSA.
func (m *Manager) DBDetailLink(ctx context.Context, key DBKey) (DBLinkData, error) {
	defer m.lock()()
	return dbLinkTable.get(ctx, m, key)
}

// DBDetailLinkEntry returns prefix index of a link LSA.
func (m *Manager) DBDetailLinkEntry(ctx context.Context, key DBKey, index uint32) (DBPrefix, error) {
	defer m.lock()()

	l, err := dbLinkTable.lsa(ctx, m, key)
	if err != nil {
		return DBPrefix{}, err
	}
	return entryAt(l.Prefixes, index, key, dbPrefix)
}

// DBDetailLinkAll returns every link LSA of every instance.
func (m *Manager) DBDetailLinkAll(ctx context.Context) ([]DBDetail[DBLinkData], error) {
	defer m.lock()()
	return dbLinkTable.all(ctx, m)
}

// DBDetailIntraAreaPrefixNext walks the intra-area-prefix LSAs.
func (m *Manager) DBDetailIntraAreaPrefixNext(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	defer m.lock()()
	return dbIntraAreaPrefixTable.next(ctx, m, id, area, typ, lsid, adv)
}

// DBDetailIntraAreaPrefix returns one intra-area-prefix LSA.
func (m *Manager) DBDetailIntraAreaPrefix(ctx context.Context, key DBKey) (DBIntraAreaPrefixData, error) {
	defer m.lock()()
	return dbIntraAreaPrefixTable.get(ctx, m, key)
}

// DBDetailIntraAreaPrefixEntry returns prefix index of an intra-area-prefix
// LSA.
func (m *Manager) DBDetailIntraAreaPrefixEntry(ctx context.Context, key DBKey, index uint32) (DBPrefix, error) {
	defer m.lock()()

	l, err := dbIntraAreaPrefixTable.lsa(ctx, m, key)
	if err != nil {
		return DBPrefix{}, err
	}
	return entryAt(l.Prefixes, index, key, dbPrefix)
}

// DBDetailIntraAreaPrefixAll returns every intra-area-prefix LSA of every
// instance.
func (m *Manager) DBDetailIntraAreaPrefixAll(ctx context.Context) ([]DBDetail[DBIntraAreaPrefixData], error) {
	defer m.lock()()
	return dbIntraAreaPrefixTable.all(ctx, m)
}

// DBDetailNetworkNext walks the network LSAs.
func (m *Manager) DBDetailNetworkNext(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	defer m.lock()()
	return dbNetworkTable.next(ctx, m, id, area, typ, lsid, adv)
}

// DBDetailNetwork returns one network LSA.
func (m *Manager) DBDetailNetwork(ctx context.Context, key DBKey) (DBNetworkData, error) {
	defer m.lock()()
	return dbNetworkTable.get(ctx, m, key)
}

// DBDetailNetworkEntry returns attached router index of a network LSA.
func (m *Manager) DBDetailNetworkEntry(ctx context.Context, key DBKey, index uint32) (ID, error) {
	defer m.lock()()

	l, err := dbNetworkTable.lsa(ctx, m, key)
	if err != nil {
		return 0, err
	}
	return entryAt(l.AttachedRouters, index, key, func(r uint32) ID { return ID(r) })
}

// DBDetailNetworkAll returns every network LSA of every instance.
func (m *Manager) DBDetailNetworkAll(ctx context.Context) ([]DBDetail[DBNetworkData], error) {
	defer m.lock()()
	return dbNetworkTable.all(ctx, m)
}

// DBDetailInterAreaPrefixNext walks the inter-area-prefix LSAs.
func (m *Manager) DBDetailInterAreaPrefixNext(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	defer m.lock()()
	return dbInterAreaPrefixTable.next(ctx, m, id, area, typ, lsid, adv)
}

// DBDetailInterAreaPrefix returns one inter-area-prefix LSA.
func (m *Manager) DBDetailInterAreaPrefix(ctx context.Context, key DBKey) (DBInterAreaPrefixData, error) {
	defer m.lock()()
	return dbInterAreaPrefixTable.get(ctx, m, key)
}

// DBDetailInterAreaPrefixAll returns every inter-area-prefix LSA of every
// instance.
func (m *Manager) DBDetailInterAreaPrefixAll(ctx context.Context) ([]DBDetail[DBInterAreaPrefixData], error) {
	defer m.lock()()
	return dbInterAreaPrefixTable.all(ctx, m)
}

// DBDetailInterAreaRouterNext walks the inter-area-router LSAs.
func (m *Manager) DBDetailInterAreaRouterNext(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	defer m.lock()()
	return dbInterAreaRouterTable.next(ctx, m, id, area, typ, lsid, adv)
}

// DBDetailInterAreaRouter returns one inter-area-router LSA.
func (m *Manager) DBDetailInterAreaRouter(ctx context.Context, key DBKey) (DBInterAreaRouterData, error) {
	defer m.lock()()
	return dbInterAreaRouterTable.get(ctx, m, key)
}

// DBDetailInterAreaRouterAll returns every inter-area-router LSA of every
// instance.
func (m *Manager) DBDetailInterAreaRouterAll(ctx context.Context) ([]DBDetail[DBInterAreaRouterData], error) {
	defer m.lock()()
	return dbInterAreaRouterTable.all(ctx, m)
}

// DBDetailExternalNext walks the AS-external LSAs.
func (m *Manager) DBDetailExternalNext(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error) {
	defer m.lock()()
	return dbExternalTable.next(ctx, m, id, area, typ, lsid, adv)
}

// DBDetailExternal returns one AS-external LSA.
func (m *Manager) DBDetailExternal(ctx context.Context, key DBKey) (DBExternalData, error) {
	defer m.lock()()
	return dbExternalTable.get(ctx, m, key)
}

// DBDetailExternalAll returns every AS-external LSA of every instance.
func (m *Manager) DBDetailExternalAll(ctx context.Context) ([]DBDetail[DBExternalData], error) {
	defer m.lock()()
	return dbExternalTable.all(ctx, m)
}
