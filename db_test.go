package ospf6

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/ospf6/internal/frr"
)

func fixtureDB(t *testing.T, id InstanceID) []DBKey {
	t.Helper()
	r1, r2 := mustID(t, "10.0.0.1"), mustID(t, "10.0.0.2")
	return []DBKey{
		{id, 0, LSDBLink, 5, r1},
		{id, 0, LSDBRouter, 0, r1},
		{id, 0, LSDBRouter, 0, r2},
		{id, 0, LSDBNetwork, 5, r1},
		{id, 0, LSDBInterAreaPrefix, 1, r1},
		{id, 0, LSDBInterAreaRouter, 3, r1},
		{id, 0, LSDBExternal, 9, r2},
		{id, 5, LSDBIntraAreaPrefix, 1, r1},
	}
}

type dbNextFunc func(ctx context.Context, id *InstanceID, area *ID, typ *LSDBType, lsid *ID, adv *ID) (DBKey, bool, error)

// walkDBTable collects every row next yields, starting from an empty key.
func walkDBTable(t *testing.T, next dbNextFunc) []DBKey {
	t.Helper()
	var (
		res  []DBKey
		id   *InstanceID
		area *ID
		typ  *LSDBType
		lsid *ID
		adv  *ID
	)
	for {
		k, ok, err := next(context.Background(), id, area, typ, lsid, adv)
		require.NoError(t, err)
		if !ok {
			return res
		}
		res = append(res, k)
		id, area, typ, lsid, adv = &k.ID, &k.Area, &k.Type, &k.LinkID, &k.AdvRouter
	}
}

func walkDB(t *testing.T, m *Manager) []DBKey {
	t.Helper()
	return walkDBTable(t, m.DBNext)
}

func TestDBNext(t *testing.T) {
	m, _ := newTestManager(t)
	require.Equal(t, fixtureDB(t, 1), walkDB(t, m))
}

func TestDBNextInstances(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithInstanceMax(3))
	require.NoError(t, m.Add(ctx, 3))

	require.Equal(t, append(fixtureDB(t, 1), fixtureDB(t, 3)...), walkDB(t, m))

	k, ok, err := m.DBNext(ctx, ptr[InstanceID](2), nil, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fixtureDB(t, 3)[0], k)

	_, ok, err = m.DBNext(ctx, ptr[InstanceID](4), nil, nil, nil, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDBNextPartialKey(t *testing.T) {
	m, _ := newTestManager(t)

	// Area 0 has no NSSA external entries, so the walk carries to the
	// next type within the area.
	k, ok, err := m.DBNext(context.Background(), ptr[InstanceID](1), ptr[ID](0), ptr(LSDBNSSAExternal), nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, fixtureDB(t, 1)[6], k)
}

func TestDB(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	keys := fixtureDB(t, 1)

	got, err := m.DB(ctx, keys[1])
	require.NoError(t, err)
	require.Equal(t, DBStatus{Age: 30, Seq: 0x80000002, Checksum: 0x3c4d, RouterLinks: 2}, got)

	got, err = m.DB(ctx, keys[7])
	require.NoError(t, err)
	require.Equal(t, DBStatus{Age: 5, Seq: 0x80000001, Checksum: 0x1234}, got)

	missing := keys[6]
	missing.LinkID = 10
	_, err = m.DB(ctx, missing)
	require.ErrorIs(t, err, ErrNotFound)

	other := keys[1]
	other.ID = 2
	_, err = m.DB(ctx, other)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDBAll(t *testing.T) {
	m, _ := newTestManager(t)

	all, err := m.DBAll(context.Background())
	require.NoError(t, err)
	want := fixtureDB(t, 1)
	require.Len(t, all, len(want))
	for i, d := range all {
		require.Equal(t, want[i], d.Key)
	}
	require.Equal(t, uint32(600), all[6].Status.Age)
}

func TestDBDuplicates(t *testing.T) {
	m, d := newTestManager(t)
	d.Reply(frr.CmdDatabase, `{"areas": [
		{"type": 2, "area": "0.0.0.0", "links": [
			{"id": "0.0.0.0", "router": "10.0.0.1", "age": 1, "seq": "1", "checksum": "0x1"},
			{"id": "0.0.0.0", "router": "10.0.0.1", "age": 1, "seq": "1", "checksum": "0x1"}
		]}
	]}`)

	require.Len(t, walkDB(t, m), 1)
}
