package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "sip.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
target:
  triple: x86_64-unknown-linux-gnu
verify: false
occurs: error
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "x86_64-unknown-linux-gnu", c.Target.Triple)
	require.False(t, c.Verify)
	require.Equal(t, OccursError, c.Occurs)
}

func TestLoadRejectsUnknownOccursPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sip.yaml")
	require.NoError(t, os.WriteFile(path, []byte("occurs: bogus\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
