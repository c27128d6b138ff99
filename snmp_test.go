package ospf6

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/ospf6/snmp"
)

func oidAt(t *testing.T, root snmp.Oid, s string) snmp.Oid {
	t.Helper()
	rel, err := snmp.ParseOID(s)
	require.NoError(t, err)
	return root.Child(rel...)
}

func TestSNMPNext(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	root := DefaultMIBRoot

	tests := []struct {
		name  string
		after snmp.Oid
		want  snmp.Oid
		value uint32
	}{
		{"from root", root, oidAt(t, root, "1.1.1.1.0.0.0.0"), uint32(AreaNormal)},
		{"before root", snmp.Oid{1, 3}, oidAt(t, root, "1.1.1.1.0.0.0.0"), uint32(AreaNormal)},
		{"next row", oidAt(t, root, "1.1.1.1.0.0.0.0"), oidAt(t, root, "1.1.1.1.0.0.0.5"), uint32(AreaTotallyStub)},
		{"next column", oidAt(t, root, "1.1.1.1.0.0.0.5"), oidAt(t, root, "1.1.2.1.0.0.0.0"), 7},
		{"partial index", oidAt(t, root, "1.1.3.1.0"), oidAt(t, root, "1.1.3.1.0.0.0.0"), 12},
		{"next table", oidAt(t, root, "1.1.4.1.0.0.0.5"), oidAt(t, root, "2.1.1.1"), uint32(InterfaceStateBDR)},
		{"interface cost", oidAt(t, root, "2.1.3.1"), oidAt(t, root, "2.1.3.2"), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vb, ok, err := m.SNMPNext(ctx, tt.after)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, tt.want.String(), vb.OID.String())
			require.Equal(t, tt.value, vb.Value)
		})
	}

	_, ok, err := m.SNMPNext(ctx, oidAt(t, root, "6"))
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = m.SNMPNext(ctx, snmp.Oid{1, 4})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSNMPWalk(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	counts := map[uint32]int{}
	cur := DefaultMIBRoot
	for {
		vb, ok, err := m.SNMPNext(ctx, cur)
		require.NoError(t, err)
		if !ok {
			break
		}
		require.Positive(t, vb.OID.Compare(cur), "walk must advance past %s", cur)
		require.True(t, vb.OID.HasPrefix(DefaultMIBRoot))
		counts[vb.OID[len(DefaultMIBRoot)]]++
		cur = vb.OID
	}
	require.Equal(t, map[uint32]int{
		AreaTable:      2 * 4,
		InterfaceTable: 2 * 6,
		NeighborTable:  4 * 3,
		RouteTable:     5 * 3,
		DBTable:        8 * 3,
	}, counts)
}

func TestSNMPGet(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	root := DefaultMIBRoot

	v, err := m.SNMPGet(ctx, oidAt(t, root, "2.1.6.2"))
	require.NoError(t, err)
	require.Equal(t, uint32(40), v)

	// External type 2 path to 2001:db8:ff::/48 via fe80::a: AS cost.
	ext := snmp.Index(nil).Uint32(1).Uint32(uint32(RouteExternalType2)).
		Prefix(extDest).ID(0).Addr(fe80a)
	v, err = m.SNMPGet(ctx, snmp.Table{Arc: RouteTable}.Instance(root, 2, ext))
	require.NoError(t, err)
	require.Equal(t, uint32(10), v)

	nbr := snmp.Index(nil).Uint32(1).ID(uint32(mustID(t, "10.0.0.2"))).Addr(fe80a).Uint32(1)
	v, err = m.SNMPGet(ctx, snmp.Table{Arc: NeighborTable}.Instance(root, 3, nbr))
	require.NoError(t, err)
	require.Equal(t, uint32(35), v)

	for _, s := range []string{"2.1.6.3", "2.1.7.1", "1.1.1.1.0.0.0.9", "9.1.1.1", "1.1"} {
		_, err := m.SNMPGet(ctx, oidAt(t, root, s))
		require.ErrorIs(t, err, ErrNotFound, s)
	}
}

func TestSNMPMIBRoot(t *testing.T) {
	root := snmp.MustParseOID("1.3.6.1.4.1.99999.6")
	m, _ := newTestManager(t, WithMIBRoot(root))

	vb, ok, err := m.SNMPNext(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, oidAt(t, root, "1.1.1.1.0.0.0.0").String(), vb.OID.String())
}

func TestSNMPNoInstance(t *testing.T) {
	d := newDaemon(t)
	d.Reply(cmdRunningConfig, emptyRunningConfig)
	m := openManager(t, d)

	_, ok, err := m.SNMPNext(context.Background(), DefaultMIBRoot)
	require.NoError(t, err)
	require.False(t, ok)
}
