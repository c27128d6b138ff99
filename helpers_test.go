package ospf6

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/ospf6/internal/frr"
	"github.com/golangsnmp/ospf6/internal/testutil"
)

const cmdRunningConfig = "show running-config"

// frrFixture reads a daemon output sample shared with the frr package.
func frrFixture(t testing.TB, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("internal", "frr", "testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

// newDaemon returns a fake daemon answering every show command with the
// shared fixtures.
func newDaemon(t testing.TB) *testutil.Daemon {
	t.Helper()
	d := testutil.NewDaemon(t)
	d.Reply(cmdRunningConfig, frrFixture(t, "running-config.txt"))
	d.Reply(frr.CmdStatus, frrFixture(t, "status.json"))
	d.Reply(frr.CmdInterfaces, frrFixture(t, "interfaces.json"))
	d.Reply(frr.CmdNeighbors, frrFixture(t, "neighbors.json"))
	d.Reply(frr.CmdRoutes, frrFixture(t, "routes.json"))
	d.Reply(frr.CmdDatabase, frrFixture(t, "database.json"))
	return d
}

func openManager(t testing.TB, d *testutil.Daemon, opts ...Option) *Manager {
	t.Helper()
	base := []Option{WithSocket(d.Path), WithRunningConfigTTL(0)}
	m, err := Open(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// newTestManager opens a Manager against a fixture daemon. Instance 1
// exists because the fixture running config has a router block.
func newTestManager(t testing.TB, opts ...Option) (*Manager, *testutil.Daemon) {
	t.Helper()
	d := newDaemon(t)
	return openManager(t, d, opts...), d
}

// configLines returns the commands the daemon received, without show
// commands.
func configLines(d *testutil.Daemon) []string {
	var res []string
	for _, c := range d.Commands() {
		if !strings.HasPrefix(c, "show ") {
			res = append(res, c)
		}
	}
	return res
}

func ptr[T any](v T) *T { return &v }

func mustID(t testing.TB, s string) ID {
	t.Helper()
	id, err := ParseID(s)
	require.NoError(t, err)
	return id
}
