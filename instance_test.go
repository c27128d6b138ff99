package ospf6

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const emptyRunningConfig = "Current configuration:\n!\nline vty\n!\nend\n"

func walkInstances(m *Manager) []InstanceID {
	var (
		res []InstanceID
		cur *InstanceID
	)
	for {
		id, ok := m.InstanceNext(cur)
		if !ok {
			return res
		}
		res = append(res, id)
		cur = &id
	}
}

func TestOpenSyncsInstances(t *testing.T) {
	m, _ := newTestManager(t)
	require.True(t, m.Exists(1))
	require.Equal(t, []InstanceID{1}, walkInstances(m))
}

func TestOpenWithoutRouter(t *testing.T) {
	d := newDaemon(t)
	d.Reply(cmdRunningConfig, emptyRunningConfig)
	m := openManager(t, d)
	require.False(t, m.Exists(1))
	require.Empty(t, walkInstances(m))
}

func TestOpenRejectsInstanceMax(t *testing.T) {
	_, err := Open(context.Background(), WithInstanceMax(0))
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAddDel(t *testing.T) {
	ctx := context.Background()
	d := newDaemon(t)
	d.Reply(cmdRunningConfig, emptyRunningConfig)
	m := openManager(t, d, WithInstanceMax(4))

	d.Reset()
	require.NoError(t, m.Add(ctx, 1))
	require.Equal(t, []string{"configure terminal", "router ospf6"}, configLines(d))

	// The daemon process already runs; later instances only register.
	d.Reset()
	require.NoError(t, m.Add(ctx, 3))
	require.Empty(t, configLines(d))
	require.Equal(t, []InstanceID{1, 3}, walkInstances(m))

	d.Reset()
	require.NoError(t, m.Del(ctx, 1))
	require.Empty(t, configLines(d))

	d.Reset()
	require.NoError(t, m.Del(ctx, 3))
	require.Equal(t, []string{"configure terminal", "no router ospf6"}, configLines(d))
	require.Empty(t, walkInstances(m))
}

func TestAddDelErrors(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithInstanceMax(2))

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"add zero", func() error { return m.Add(ctx, 0) }, ErrInvalidArgument},
		{"add above max", func() error { return m.Add(ctx, 3) }, ErrInvalidArgument},
		{"add existing", func() error { return m.Add(ctx, 1) }, ErrInstanceExists},
		{"del missing", func() error { return m.Del(ctx, 2) }, ErrInstanceNotExist},
		{"del above max", func() error { return m.Del(ctx, 3) }, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.run(), tt.want)
		})
	}
}

func TestAddDaemonFailure(t *testing.T) {
	d := newDaemon(t)
	d.Reply(cmdRunningConfig, emptyRunningConfig)
	m := openManager(t, d)
	d.Fail("router ospf6", 1, "% not allowed")

	err := m.Add(context.Background(), 1)
	require.ErrorIs(t, err, ErrInternalAccess)
	require.False(t, m.Exists(1))
}

func TestInstanceNextBounds(t *testing.T) {
	m, _ := newTestManager(t, WithInstanceMax(3))
	require.NoError(t, m.Add(context.Background(), 3))

	_, ok := m.InstanceNext(ptr(InstanceID(3)))
	require.False(t, ok)
	_, ok = m.InstanceNext(ptr(InstanceID(99)))
	require.False(t, ok)
	id, ok := m.InstanceNext(ptr(InstanceID(1)))
	require.True(t, ok)
	require.Equal(t, InstanceID(3), id)
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	m, d := newTestManager(t)
	require.True(t, m.Exists(1))

	d.Reply(cmdRunningConfig, emptyRunningConfig)
	require.NoError(t, m.Reload(ctx))
	require.False(t, m.Exists(1))
}

func TestCapabilities(t *testing.T) {
	m, d := newTestManager(t, WithInstanceMax(8))
	d.Reset()
	c := m.Capabilities()
	require.Equal(t, InstanceID(8), c.InstanceMax)
	require.Equal(t, uint32(RouterIDMax), c.RouterIDMax)
	require.Equal(t, uint32(RetransmitMin), c.RetransmitMin)
	require.Empty(t, d.Commands())
}
