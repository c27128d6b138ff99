package ospf6

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartupWithoutStore(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	require.ErrorIs(t, m.SaveConfig(ctx), ErrNoStore)
	require.ErrorIs(t, m.RestoreConfig(ctx), ErrNoStore)
	require.ErrorIs(t, m.EraseConfig(), ErrNoStore)
	_, err := m.StartupHistory()
	require.ErrorIs(t, err, ErrNoStore)
}

func TestRestoreNothingSaved(t *testing.T) {
	m, _ := newTestManager(t, WithStore(filepath.Join(t.TempDir(), "startup.db")))
	require.ErrorIs(t, m.RestoreConfig(context.Background()), ErrNotFound)
}

func TestSaveRestore(t *testing.T) {
	ctx := context.Background()
	m, d := newTestManager(t, WithStore(filepath.Join(t.TempDir(), "startup.db")))

	require.NoError(t, m.SaveConfig(ctx))
	d.Reset()
	require.NoError(t, m.RestoreConfig(ctx))

	require.Equal(t, []string{
		"configure terminal",
		"no router ospf6",
		"router ospf6",
		"ospf6 router-id 10.0.0.1",
		"redistribute connected",
		"distance 90",
		"area 0.0.0.5 stub no-summary",
		"area 0.0.0.7 stub",
		"area 0.0.0.0 range 2001:db8::/32",
		"area 0.0.0.5 range 2001:db8:5::/48 not-advertise",
		"area 0.0.0.5 range 2001:db8:6::/48 cost 30",
		"interface vlan1 area 0.0.0.0",
		"interface vlan2 area 0.0.0.5",
		"interface vlan1",
		"ipv6 ospf6 priority 7",
		"ipv6 ospf6 cost 10",
		"ipv6 ospf6 mtu-ignore",
		"ipv6 ospf6 dead-interval 20",
		"ipv6 ospf6 hello-interval 5",
		"no ipv6 ospf6 retransmit-interval",
		"no ipv6 ospf6 transmit-delay",
		"no ipv6 ospf6 passive",
		"interface vlan2",
		"no ipv6 ospf6 priority",
		"no ipv6 ospf6 cost",
		"no ipv6 ospf6 mtu-ignore",
		"no ipv6 ospf6 dead-interval",
		"no ipv6 ospf6 hello-interval",
		"ipv6 ospf6 retransmit-interval 8",
		"ipv6 ospf6 transmit-delay 3",
		"ipv6 ospf6 passive",
	}, configLines(d))
	require.Equal(t, []InstanceID{1}, walkInstances(m))
}

func TestRestoreInstances(t *testing.T) {
	ctx := context.Background()
	m, d := newTestManager(t,
		WithStore(filepath.Join(t.TempDir(), "startup.db")),
		WithInstanceMax(4))
	require.NoError(t, m.Add(ctx, 3))
	require.NoError(t, m.SaveConfig(ctx))

	require.NoError(t, m.Del(ctx, 3))
	require.Equal(t, []InstanceID{1}, walkInstances(m))

	d.Reset()
	require.NoError(t, m.RestoreConfig(ctx))
	require.Equal(t, []InstanceID{1, 3}, walkInstances(m))
	// Instance 3 shares the daemon process, so only one router block is
	// replayed.
	lines := configLines(d)
	require.Equal(t, 1, countLines(lines, "router ospf6"))
}

func TestRestoreRejectsInstanceRange(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "startup.db")

	m, _ := newTestManager(t, WithStore(path), WithInstanceMax(4))
	require.NoError(t, m.Add(ctx, 4))
	require.NoError(t, m.SaveConfig(ctx))
	require.NoError(t, m.Close())

	m2, d := newTestManager(t, WithStore(path), WithInstanceMax(2))
	d.Reset()
	require.ErrorIs(t, m2.RestoreConfig(ctx), ErrInvalidArgument)
	require.Empty(t, configLines(d))
}

func TestStartupHistory(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithStore(filepath.Join(t.TempDir(), "startup.db")))

	hist, err := m.StartupHistory()
	require.NoError(t, err)
	require.Empty(t, hist)

	require.NoError(t, m.SaveConfig(ctx))
	require.NoError(t, m.SaveConfig(ctx))
	require.NoError(t, m.SaveConfig(ctx))

	hist, err = m.StartupHistory()
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.False(t, hist[0].Before(hist[1]))

	require.NoError(t, m.EraseConfig())
	hist, err = m.StartupHistory()
	require.NoError(t, err)
	require.Empty(t, hist)
	require.ErrorIs(t, m.RestoreConfig(ctx), ErrNotFound)
}

func countLines(lines []string, want string) int {
	n := 0
	for _, l := range lines {
		if l == want {
			n++
		}
	}
	return n
}
