package ospf6

import (
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/ospf6/internal/frr"
)

const vlink1 IfIndex = 800000001

func TestNeighborNext(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	var (
		got []NeighborKey
		id  *InstanceID
		nip *netip.Addr
		ifx *IfIndex
	)
	for {
		k, ok, err := m.NeighborNext(ctx, id, nip, ifx)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, k)
		id, nip, ifx = &k.ID, &k.Addr, &k.IfIndex
	}
	require.Equal(t, []NeighborKey{
		{ID: 1, Addr: netip.MustParseAddr("fe80::a"), IfIndex: 1},
		{ID: 1, Addr: netip.MustParseAddr("fe80::b"), IfIndex: 2},
		{ID: 1, Addr: netip.MustParseAddr("fe80::c"), IfIndex: 1},
		{ID: 1, Addr: netip.MustParseAddr("fe80::d"), IfIndex: vlink1},
	}, got)
}

func walkNeighbors2(t *testing.T, m *Manager) []NeighborKey {
	t.Helper()
	var (
		res []NeighborKey
		id  *InstanceID
		nid *ID
		nip *netip.Addr
		ifx *IfIndex
	)
	for {
		k, ok, err := m.NeighborNext2(context.Background(), id, nid, nip, ifx)
		require.NoError(t, err)
		if !ok {
			return res
		}
		res = append(res, k)
		id, nid, nip, ifx = &k.ID, &k.RouterID, &k.Addr, &k.IfIndex
	}
}

func TestNeighborNext2(t *testing.T) {
	m, _ := newTestManager(t)

	got := walkNeighbors2(t, m)
	require.Equal(t, []NeighborKey{
		{ID: 1, RouterID: mustID(t, "10.0.0.2"), Addr: netip.MustParseAddr("fe80::a"), IfIndex: 1},
		{ID: 1, RouterID: mustID(t, "10.0.0.3"), Addr: netip.MustParseAddr("fe80::b"), IfIndex: 2},
		{ID: 1, RouterID: mustID(t, "10.0.0.3"), Addr: netip.MustParseAddr("fe80::c"), IfIndex: 1},
		{ID: 1, RouterID: mustID(t, "10.0.0.4"), Addr: netip.MustParseAddr("fe80::d"), IfIndex: vlink1},
	}, got)
}

func TestNeighborNext2Instances(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithInstanceMax(3))
	require.NoError(t, m.Add(ctx, 3))

	got := walkNeighbors2(t, m)
	require.Len(t, got, 8)
	require.Equal(t, InstanceID(1), got[3].ID)
	require.Equal(t, InstanceID(3), got[4].ID)
	require.Equal(t, got[0].Addr, got[4].Addr)

	// Instance 2 does not exist, so a walk starting there lands on 3.
	k, ok, err := m.NeighborNext2(ctx, ptr[InstanceID](2), nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, got[4], k)

	_, ok, err = m.NeighborNext2(ctx, ptr[InstanceID](4), nil, nil, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNeighborNext3(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	k, ok, err := m.NeighborNext3(ctx, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, NeighborKey{
		ID:          1,
		TransitArea: 5,
		RouterID:    mustID(t, "10.0.0.4"),
		Addr:        netip.MustParseAddr("fe80::d"),
		IfIndex:     vlink1,
	}, k)

	_, ok, err = m.NeighborNext3(ctx, &k.ID, &k.TransitArea, &k.RouterID, &k.Addr, &k.IfIndex)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNeighborNextSingleFetch(t *testing.T) {
	ctx := context.Background()
	m, d := newTestManager(t, WithInstanceMax(3))
	require.NoError(t, m.Add(ctx, 3))
	first, ok, err := m.NeighborNext3(ctx, nil, nil, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)

	// Carrying from the last row of instance 1 consults every level again
	// under instance 3, all from one neighbor fetch.
	d.Reset()
	k, ok, err := m.NeighborNext3(ctx, &first.ID, &first.TransitArea, &first.RouterID, &first.Addr, &first.IfIndex)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, InstanceID(3), k.ID)
	require.Equal(t, 1, d.Count(frr.CmdNeighbors))
}

func TestNeighborStatus(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	fe80a := netip.MustParseAddr("fe80::a")

	want := NeighborStatus{
		RouterID: mustID(t, "10.0.0.2"),
		Addr:     fe80a,
		IfIndex:  1,
		Priority: 10,
		State:    NeighborStateFull,
		DR:       mustID(t, "10.0.0.2"),
		BDR:      mustID(t, "10.0.0.1"),
		DeadTime: 35 * time.Second,
	}

	got, err := m.NeighborStatus(ctx, 1, DontCareNID, fe80a, 1)
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = m.NeighborStatus(ctx, 1, mustID(t, "10.0.0.2"), fe80a, 1)
	require.NoError(t, err)
	require.Equal(t, want, got)

	vl, err := m.NeighborStatus(ctx, 1, DontCareNID, netip.MustParseAddr("fe80::d"), vlink1)
	require.NoError(t, err)
	require.Equal(t, ID(5), vl.TransitArea)

	tests := []struct {
		name string
		id   InstanceID
		nid  ID
		nip  netip.Addr
		ifx  IfIndex
	}{
		{"wrong router id", 1, mustID(t, "10.0.0.3"), fe80a, 1},
		{"wrong interface", 1, DontCareNID, fe80a, 2},
		{"missing instance", 2, DontCareNID, fe80a, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.NeighborStatus(ctx, tt.id, tt.nid, tt.nip, tt.ifx)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestNeighborStatusAll(t *testing.T) {
	m, _ := newTestManager(t)

	got, err := m.NeighborStatusAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, NeighborStateFull, got[0].Status.State)
	require.Equal(t, NeighborStateTwoWay, got[1].Status.State)
	require.Equal(t, NeighborStateExStart, got[2].Status.State)
	require.Equal(t, vlink1, got[3].Status.IfIndex)
	for _, d := range got {
		require.Equal(t, d.Key.RouterID, d.Status.RouterID)
		require.Equal(t, d.Key.Addr, d.Status.Addr)
	}
}

func TestNeighborIDByAddr(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	nid, ok, err := m.NeighborIDByAddr(ctx, netip.MustParseAddr("fe80::c"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, mustID(t, "10.0.0.3"), nid)

	_, ok, err = m.NeighborIDByAddr(ctx, netip.MustParseAddr("fe80::99"))
	require.NoError(t, err)
	require.False(t, ok)
}
