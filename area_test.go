package ospf6

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAreaStatusNext(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	var (
		got  []AreaKey
		id   *InstanceID
		area *ID
	)
	for {
		k, ok, err := m.AreaStatusNext(ctx, id, area)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, k)
		id, area = &k.ID, &k.Area
	}
	require.Equal(t, []AreaKey{{1, 0}, {1, 5}}, got)
}

func TestAreaStatus(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	got, err := m.AreaStatus(ctx, 1, 0)
	require.NoError(t, err)
	require.Equal(t, AreaStatus{Backbone: true, Type: AreaNormal, InterfaceCount: 2, SPFExecuted: 7, LSACount: 12}, got)

	got, err = m.AreaStatus(ctx, 1, 5)
	require.NoError(t, err)
	require.Equal(t, AreaStatus{Type: AreaTotallyStub, InterfaceCount: 1, SPFExecuted: 3, LSACount: 4}, got)

	_, err = m.AreaStatus(ctx, 1, 9)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAreaStatusDaemonDown(t *testing.T) {
	m, d := newTestManager(t)
	d.Fail("show ipv6 ospf6 json", 1, "% ospf6d is not running")

	_, err := m.AreaStatus(context.Background(), 1, 0)
	require.ErrorIs(t, err, ErrInternalAccess)

	_, ok, err := m.AreaStatusNext(context.Background(), nil, nil)
	require.ErrorIs(t, err, ErrInternalAccess)
	require.False(t, ok)
}

func TestAreaRangeConf(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	tests := []struct {
		area    ID
		network string
		want    AreaRangeConf
	}{
		{0, "2001:db8::/32", AreaRangeConf{Advertised: true}},
		{5, "2001:db8:5::/48", AreaRangeConf{}},
		{5, "2001:db8:6::/48", AreaRangeConf{Advertised: true, SpecificCost: true, Cost: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.network, func(t *testing.T) {
			got, err := m.AreaRangeConf(ctx, 1, tt.area, netip.MustParsePrefix(tt.network))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := m.AreaRangeConf(ctx, 1, 0, netip.MustParsePrefix("2001:db8:5::/48"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAreaRangeConfNext(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	var (
		got  []AreaRangeKey
		id   *InstanceID
		area *ID
		net  *netip.Prefix
	)
	for {
		k, ok, err := m.AreaRangeConfNext(ctx, id, area, net)
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, k)
		id, area, net = &k.ID, &k.Area, &k.Network
	}
	require.Equal(t, []AreaRangeKey{
		{1, 0, netip.MustParsePrefix("2001:db8::/32")},
		{1, 5, netip.MustParsePrefix("2001:db8:5::/48")},
		{1, 5, netip.MustParsePrefix("2001:db8:6::/48")},
	}, got)

	// A partial key returns the first row at or after it.
	k, ok, err := m.AreaRangeConfNext(ctx, ptr(InstanceID(1)), ptr(ID(3)), nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, AreaRangeKey{1, 5, netip.MustParsePrefix("2001:db8:5::/48")}, k)
}

func TestAddAreaRangeConf(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		area      ID
		network   string
		conf      AreaRangeConf
		wantLines []string
		wantErr   error
	}{
		{
			name:    "advertised with cost",
			area:    5,
			network: "2001:db8:7::/48",
			conf:    AreaRangeConf{Advertised: true, SpecificCost: true, Cost: 40},
			wantLines: []string{
				"configure terminal", "router ospf6", "area 0.0.0.5 range 2001:db8:7::/48 cost 40",
			},
		},
		{
			name:    "host bits masked",
			area:    7,
			network: "2001:db8:9::1/48",
			conf:    AreaRangeConf{},
			wantLines: []string{
				"configure terminal", "router ospf6", "area 0.0.0.7 range 2001:db8:9::/48 not-advertise",
			},
		},
		{
			name:    "default network",
			network: "::/0",
			conf:    AreaRangeConf{Advertised: true},
			wantErr: ErrAreaRangeNetworkDefault,
		},
		{
			name:    "cost without advertising",
			network: "2001:db8:a::/48",
			conf:    AreaRangeConf{SpecificCost: true, Cost: 1},
			wantErr: ErrAreaRangeCostConflict,
		},
		{
			name:    "overlap",
			network: "2001:db8:1::/48",
			conf:    AreaRangeConf{Advertised: true},
			wantErr: ErrAreaRangeOverlap,
		},
		{
			name:    "exists",
			area:    5,
			network: "2001:db8:6::/48",
			conf:    AreaRangeConf{Advertised: true},
			wantErr: ErrAlreadyExists,
		},
		{
			name:    "ipv4",
			network: "10.0.0.0/8",
			conf:    AreaRangeConf{Advertised: true},
			wantErr: ErrInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, d := newTestManager(t)
			d.Reset()
			err := m.AddAreaRangeConf(ctx, 1, tt.area, netip.MustParsePrefix(tt.network), tt.conf)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantLines, configLines(d))
		})
	}
}

func TestSetAreaRangeConf(t *testing.T) {
	ctx := context.Background()

	t.Run("drop cost", func(t *testing.T) {
		m, d := newTestManager(t)
		d.Reset()
		err := m.SetAreaRangeConf(ctx, 1, 5, netip.MustParsePrefix("2001:db8:6::/48"), AreaRangeConf{Advertised: true})
		require.NoError(t, err)
		require.Equal(t, []string{
			"configure terminal", "router ospf6",
			"no area 0.0.0.5 range 2001:db8:6::/48",
			"area 0.0.0.5 range 2001:db8:6::/48",
		}, configLines(d))
	})

	t.Run("cost ignored without specific cost", func(t *testing.T) {
		m, d := newTestManager(t)
		d.Reset()
		err := m.SetAreaRangeConf(ctx, 1, 0, netip.MustParsePrefix("2001:db8::/32"), AreaRangeConf{Advertised: true, Cost: 99})
		require.NoError(t, err)
		require.Empty(t, configLines(d))
	})

	t.Run("missing", func(t *testing.T) {
		m, _ := newTestManager(t)
		err := m.SetAreaRangeConf(ctx, 1, 0, netip.MustParsePrefix("2001:db8:77::/48"), AreaRangeConf{Advertised: true})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDelAreaRangeConf(t *testing.T) {
	ctx := context.Background()
	m, d := newTestManager(t)
	d.Reset()
	require.NoError(t, m.DelAreaRangeConf(ctx, 1, 5, netip.MustParsePrefix("2001:db8:5::/48")))
	require.Equal(t, []string{
		"configure terminal", "router ospf6", "no area 0.0.0.5 range 2001:db8:5::/48",
	}, configLines(d))

	err := m.DelAreaRangeConf(ctx, 1, 5, netip.MustParsePrefix("2001:db8:99::/48"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStubArea(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	got, err := m.StubArea(ctx, 1, 5)
	require.NoError(t, err)
	require.Equal(t, StubAreaConf{NoSummary: true}, got)

	got, err = m.StubArea(ctx, 1, 7)
	require.NoError(t, err)
	require.Equal(t, StubAreaConf{}, got)

	_, err = m.StubArea(ctx, 1, 6)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStubAreaChanges(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		run       func(m *Manager) error
		wantLines []string
		wantErr   error
	}{
		{
			name: "add",
			run:  func(m *Manager) error { return m.AddStubArea(ctx, 1, 9, StubAreaConf{NoSummary: true}) },
			wantLines: []string{
				"configure terminal", "router ospf6", "area 0.0.0.9 stub no-summary",
			},
		},
		{
			name:    "add backbone",
			run:     func(m *Manager) error { return m.AddStubArea(ctx, 1, 0, StubAreaConf{}) },
			wantErr: ErrStubAreaNotForBackbone,
		},
		{
			name:    "add existing",
			run:     func(m *Manager) error { return m.AddStubArea(ctx, 1, 7, StubAreaConf{}) },
			wantErr: ErrAlreadyExists,
		},
		{
			name: "set drops no-summary",
			run:  func(m *Manager) error { return m.SetStubArea(ctx, 1, 5, StubAreaConf{}) },
			wantLines: []string{
				"configure terminal", "router ospf6",
				"no area 0.0.0.5 stub no-summary", "area 0.0.0.5 stub",
			},
		},
		{
			name: "set adds no-summary",
			run:  func(m *Manager) error { return m.SetStubArea(ctx, 1, 7, StubAreaConf{NoSummary: true}) },
			wantLines: []string{
				"configure terminal", "router ospf6", "area 0.0.0.7 stub no-summary",
			},
		},
		{
			name: "del",
			run:  func(m *Manager) error { return m.DelStubArea(ctx, 1, 7) },
			wantLines: []string{
				"configure terminal", "router ospf6", "no area 0.0.0.7 stub",
			},
		},
		{
			name:    "del missing",
			run:     func(m *Manager) error { return m.DelStubArea(ctx, 1, 8) },
			wantErr: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, d := newTestManager(t)
			d.Reset()
			err := tt.run(m)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.wantLines, configLines(d))
		})
	}
}

func TestStubAreaNext(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	k, ok, err := m.StubAreaNext(ctx, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, AreaKey{1, 5}, k)

	k, ok, err = m.StubAreaNext(ctx, &k.ID, &k.Area)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, AreaKey{1, 7}, k)

	_, ok, err = m.StubAreaNext(ctx, &k.ID, &k.Area)
	require.NoError(t, err)
	require.False(t, ok)
}
