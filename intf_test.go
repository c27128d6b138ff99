package ospf6

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/ospf6/internal/frr"
)

func TestIntfConf(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	tests := []struct {
		name string
		ifx  IfIndex
		want IntfConf
	}{
		{"configured", 1, IntfConf{Priority: 7, Cost: 10, MTUIgnore: true, Dead: 20, Hello: 5, Retransmit: 5, TransmitDelay: 1}},
		{"passive", 2, IntfConf{Priority: 1, Dead: 40, Hello: 10, Retransmit: 8, TransmitDelay: 3, Passive: true}},
		{"defaults", 3, IntfConf{Priority: 1, Dead: 40, Hello: 10, Retransmit: 5, TransmitDelay: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.IntfConf(ctx, tt.ifx)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := m.IntfConf(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSetIntfConf(t *testing.T) {
	ctx := context.Background()

	t.Run("only changed lines", func(t *testing.T) {
		m, d := newTestManager(t)
		d.Reset()
		conf := IntfConf{Priority: 1, Dead: 40, Hello: 15, Retransmit: 8, TransmitDelay: 3}
		require.NoError(t, m.SetIntfConf(ctx, 2, conf))
		require.Equal(t, []string{
			"configure terminal", "interface vlan2",
			"ipv6 ospf6 hello-interval 15", "no ipv6 ospf6 passive",
		}, configLines(d))
	})

	t.Run("back to default", func(t *testing.T) {
		m, d := newTestManager(t)
		d.Reset()
		conf := IntfConf{Priority: 1, Cost: 10, MTUIgnore: true, Dead: 20, Hello: 5, Retransmit: 5, TransmitDelay: 1}
		require.NoError(t, m.SetIntfConf(ctx, 1, conf))
		require.Equal(t, []string{
			"configure terminal", "interface vlan1", "no ipv6 ospf6 priority",
		}, configLines(d))
	})

	t.Run("unchanged", func(t *testing.T) {
		m, d := newTestManager(t)
		d.Reset()
		conf := IntfConf{Priority: 1, Dead: 40, Hello: 10, Retransmit: 5, TransmitDelay: 1}
		require.NoError(t, m.SetIntfConf(ctx, 3, conf))
		require.Empty(t, configLines(d))
	})

	invalid := []struct {
		name string
		conf IntfConf
	}{
		{"cost", IntfConf{Cost: 70000, Dead: 40, Hello: 10, Retransmit: 5, TransmitDelay: 1}},
		{"hello", IntfConf{Dead: 40, Retransmit: 5, TransmitDelay: 1}},
		{"retransmit", IntfConf{Dead: 40, Hello: 10, Retransmit: 2, TransmitDelay: 1}},
		{"transmit delay", IntfConf{Dead: 40, Hello: 10, Retransmit: 5, TransmitDelay: 3601}},
	}
	for _, tt := range invalid {
		t.Run("invalid "+tt.name, func(t *testing.T) {
			m, d := newTestManager(t)
			d.Reset()
			require.ErrorIs(t, m.SetIntfConf(ctx, 1, tt.conf), ErrInvalidArgument)
			require.Empty(t, d.Commands())
		})
	}
}

func TestIntfConfNext(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	var (
		got []IfIndex
		cur *IfIndex
	)
	for {
		ifx, ok, err := m.IntfConfNext(ctx, cur)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, ifx)
		cur = &ifx
	}
	require.Equal(t, []IfIndex{1, 2}, got)
}

func TestInterfaceNext(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	ifx, ok, err := m.InterfaceNext(ctx, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, IfIndex(1), ifx)

	ifx, ok, err = m.InterfaceNext(ctx, &ifx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, IfIndex(2), ifx)

	_, ok, err = m.InterfaceNext(ctx, &ifx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInterfaceNext2(t *testing.T) {
	ctx := context.Background()
	m, d := newTestManager(t)
	d.Reply(frr.CmdInterfaces, `{
		"vlan1": {"ifUp": true, "ospf6Enabled": true, "inet6": "fe80::1/64"},
		"vlan2": {"ifUp": true, "ospf6Enabled": true, "inet6": "fe80::1/64"},
		"vlan3": {"ifUp": true, "ospf6Enabled": true, "inet6": "fe80::3/64"},
		"VLINK1": {"ifUp": true, "ospf6Enabled": true}
	}`)

	var (
		got  []InterfaceKey
		addr *netip.Addr
		ifx  *IfIndex
	)
	for {
		k, ok, err := m.InterfaceNext2(ctx, addr, ifx)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, k)
		addr, ifx = &k.Addr, &k.IfIndex
	}
	fe801 := netip.MustParseAddr("fe80::1")
	require.Equal(t, []InterfaceKey{
		{fe801, 1},
		{fe801, 2},
		{netip.MustParseAddr("fe80::3"), 3},
	}, got)
}

func TestInterfaceStatus(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	got, err := m.InterfaceStatus(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, InterfaceStatus{
		Up:            true,
		Addr:          netip.MustParsePrefix("fe80::1/64"),
		Area:          0,
		RouterID:      mustID(t, "10.0.0.1"),
		Cost:          1,
		State:         InterfaceStateBDR,
		Priority:      7,
		DR:            mustID(t, "10.0.0.2"),
		BDR:           mustID(t, "10.0.0.1"),
		Hello:         5,
		Dead:          20,
		Retransmit:    5,
		TransmitDelay: 1,
	}, got)

	got, err = m.InterfaceStatus(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, InterfaceStateDR, got.State)
	require.True(t, got.Passive)

	_, err = m.InterfaceStatus(ctx, 3)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = m.InterfaceStatus(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInterfaceStatusLinkDown(t *testing.T) {
	ctx := context.Background()
	m, d := newTestManager(t)
	d.Reply(frr.CmdInterfaces, `{"vlan2": {"ifUp": false, "ospf6Enabled": true}}`)

	got, err := m.InterfaceStatus(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, InterfaceStatus{
		Area:          5,
		RouterID:      mustID(t, "10.0.0.1"),
		Cost:          defaultLinkDownCost,
		State:         InterfaceStateDown,
		Priority:      frr.DefaultPriority,
		Hello:         10,
		Dead:          40,
		Retransmit:    8,
		TransmitDelay: frr.DefaultTransmitDelay,
		Passive:       true,
	}, got)
}

func TestInterfaceStatusAll(t *testing.T) {
	m, d := newTestManager(t)
	d.Reply(frr.CmdInterfaces, `{
		"vlan1": {"ifUp": true, "ospf6Enabled": true, "inet6": "fe80::1/64", "state": "DROther"},
		"vlan9": {"ifUp": false, "ospf6Enabled": true}
	}`)

	got, err := m.InterfaceStatusAll(context.Background())
	require.NoError(t, err)
	// vlan9 is down and has no area binding, so its status is unknown.
	require.Len(t, got, 1)
	require.Equal(t, InterfaceStateDROther, got[1].State)
}

func TestInterfaceStatusNoInstance(t *testing.T) {
	d := newDaemon(t)
	d.Reply(cmdRunningConfig, emptyRunningConfig)
	m := openManager(t, d)

	_, err := m.InterfaceStatus(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}
