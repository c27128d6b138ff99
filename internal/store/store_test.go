package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithNoSync(), WithTimeout(time.Second)}, opts...)
	s, err := Open(filepath.Join(t.TempDir(), "startup.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(at time.Time, rid uint32) Snapshot {
	return Snapshot{
		SavedAt: at,
		Instances: []Instance{{
			ID:                    1,
			RouterID:              rid,
			RedistributeConnected: true,
			Distance:              110,
			Ranges: []Range{
				{Area: 0, Prefix: "2001:db8::/32"},
				{Area: 5, Prefix: "2001:db8:6::/48", HasCost: true, Cost: 30},
			},
			Stubs:    []Stub{{Area: 5, NoSummary: true}},
			Bindings: []Binding{{IfIndex: 1, Area: 0}, {IfIndex: 2, Area: 5}},
		}},
		Interfaces: []Interface{
			{IfIndex: 1, Priority: 7, Cost: 10, Dead: 20, Hello: 5, Retransmit: 5, TransmitDelay: 1, MTUIgnore: true},
		},
	}
}

func TestLoadEmpty(t *testing.T) {
	s := openTemp(t)
	_, ok, err := s.Load()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSaveLoad(t *testing.T) {
	s := openTemp(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	want := sample(at, 0x0a000001)
	require.NoError(t, s.Save(want))

	got, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, SnapshotVersion, got.Version)
	require.True(t, at.Equal(got.SavedAt))

	want.Version = SnapshotVersion
	opt := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, opt); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveKeepsHistory(t *testing.T) {
	s := openTemp(t, WithHistory(2))
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range 4 {
		require.NoError(t, s.Save(sample(base.Add(time.Duration(i)*time.Hour), uint32(i+1))))
	}

	cur, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(4), cur.Instances[0].RouterID)

	hist, err := s.History()
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, uint32(3), hist[0].Instances[0].RouterID)
	require.Equal(t, uint32(2), hist[1].Instances[0].RouterID)
}

func TestErase(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Save(sample(time.Now(), 1)))
	require.NoError(t, s.Save(sample(time.Now().Add(time.Second), 2)))
	require.NoError(t, s.Erase())

	_, ok, err := s.Load()
	require.NoError(t, err)
	require.False(t, ok)
	hist, err := s.History()
	require.NoError(t, err)
	require.Empty(t, hist)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startup.db")
	s, err := Open(path, WithNoSync())
	require.NoError(t, err)
	require.Equal(t, path, s.Path())
	require.NoError(t, s.Save(sample(time.Now(), 9)))
	require.NoError(t, s.Close())

	s, err = Open(path, WithNoSync())
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(9), got.Instances[0].RouterID)
}
