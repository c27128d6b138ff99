package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// LoadFixture reads testdata/<name> relative to the test's package.
func LoadFixture(t testing.TB, name string) []byte {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", path, err)
	}
	return data
}

// LoadFixtureString is LoadFixture returning a string.
func LoadFixtureString(t testing.TB, name string) string {
	t.Helper()
	return string(LoadFixture(t, name))
}
