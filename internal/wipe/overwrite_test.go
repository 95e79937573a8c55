package wipe

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDestroyPassSequence(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// File larger than the buffer so the chunk loop is exercised, and not a
	// multiple of it so the tail chunk is too.
	const size = 100
	o := NewOverwriter(16, logger)

	path := filepath.Join(t.TempDir(), "secret.db")
	original := bytes.Repeat([]byte("A"), size)
	require.NoError(t, os.WriteFile(path, original, 0600))

	var passes []Pass
	var snapshots [][]byte
	o.afterPass = func(p string, pass Pass) {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		passes = append(passes, pass)
		snapshots = append(snapshots, data)
	}

	n, err := o.Destroy(path)
	require.NoError(t, err)
	assert.Equal(t, int64(size), n)

	// Exactly three passes, in the contractual order.
	require.Equal(t, []Pass{PassZero, PassOne, PassRandom}, passes)

	// Every pass covers the full original length without changing it.
	for i, snap := range snapshots {
		assert.Len(t, snap, size, "pass %s changed the file length", passes[i])
	}

	assert.Equal(t, bytes.Repeat([]byte{0x00}, size), snapshots[0], "first pass must be all zeroes")
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, size), snapshots[1], "second pass must be all ones")

	// The random pass must be distinguishable from both fixed patterns and
	// from the prior passes. For 100 bytes of CSPRNG output a collision with
	// a fixed pattern is not a realistic outcome.
	random := snapshots[2]
	assert.NotEqual(t, snapshots[0], random, "random pass equals the zero pass")
	assert.NotEqual(t, snapshots[1], random, "random pass equals the one pass")
	assert.NotEqual(t, original, random, "random pass equals the original content")

	// The file itself is gone.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDestroyZeroLengthFile(t *testing.T) {
	logger := zaptest.NewLogger(t)
	o := NewOverwriter(0, logger)

	path := filepath.Join(t.TempDir(), "empty.key")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	called := 0
	o.afterPass = func(string, Pass) { called++ }

	n, err := o.Destroy(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Zero(t, called, "a zero-length file must not be overwritten")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDestroyMissingFile(t *testing.T) {
	logger := zaptest.NewLogger(t)
	o := NewOverwriter(0, logger)

	_, err := o.Destroy(filepath.Join(t.TempDir(), "already-gone"))
	require.Error(t, err)

	var oe *OverwriteError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "stat", oe.Stage)
}

func TestDestroyBufferLargerThanFile(t *testing.T) {
	logger := zaptest.NewLogger(t)
	o := NewOverwriter(DefaultBufferSize, logger)

	path := filepath.Join(t.TempDir(), "small.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0600))

	var lengths []int
	o.afterPass = func(p string, _ Pass) {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		lengths = append(lengths, len(data))
	}

	n, err := o.Destroy(path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	assert.Equal(t, []int{10, 10, 10}, lengths, "passes must never grow the file to the buffer size")
}
