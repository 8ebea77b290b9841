package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIntArg(t *testing.T) {
	n, err := intArg([]string{"-2"}, "migrate steps <n>")
	require.NoError(t, err)
	assert.Equal(t, -2, n)

	_, err = intArg(nil, "migrate steps <n>")
	assert.ErrorIs(t, err, errUsage)

	_, err = intArg([]string{"two"}, "migrate steps <n>")
	assert.ErrorIs(t, err, errUsage)
}

func TestMigrate_UnknownCommand(t *testing.T) {
	err := migrate(nil, "drop", nil, zap.NewNop())
	assert.ErrorIs(t, err, errUsage)
}

func TestMigrate_GotoRejectsNegativeVersion(t *testing.T) {
	err := migrate(nil, "goto", []string{"-1"}, zap.NewNop())
	assert.ErrorIs(t, err, errUsage)
}

func TestResolveDir(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	got, err = resolveDir("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestRun_CreateAndList(t *testing.T) {
	dir := t.TempDir()
	opts := options{dir: dir}

	require.NoError(t, run(opts, []string{"create", "add bill notes", "Add notes column"}, zap.NewNop()))
	require.NoError(t, run(opts, []string{"list"}, zap.NewNop()))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	assert.ErrorIs(t, run(opts, []string{"create"}, zap.NewNop()), errUsage)
}
