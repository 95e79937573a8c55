package wipe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestResolveClassifiesAndSkips(t *testing.T) {
	r := NewResolver(zaptest.NewLogger(t))
	dir := t.TempDir()

	file := filepath.Join(dir, "vault.bin")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	targets := r.Resolve([]string{
		file,
		dir,
		filepath.Join(dir, "does-not-exist"),
	})

	require.Len(t, targets, 2, "unresolvable roots are skipped, not fatal")
	assert.Equal(t, Target{Path: file, Kind: TargetFile}, targets[0])
	assert.Equal(t, Target{Path: dir, Kind: TargetDirectory}, targets[1])
}

func TestCountFiles(t *testing.T) {
	r := NewResolver(zaptest.NewLogger(t))
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("1"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "two.txt"), []byte("2"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "three.txt"), nil, 0600))

	targets := r.Resolve([]string{dir})
	assert.Equal(t, 3, r.CountFiles(targets), "directories do not count, zero-length files do")

	// A bare file target counts as one.
	single := r.Resolve([]string{filepath.Join(dir, "one.txt")})
	assert.Equal(t, 1, r.CountFiles(single))

	// An empty plan counts zero.
	assert.Zero(t, r.CountFiles(nil))
}
