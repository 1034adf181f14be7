// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs root commands against a private database and home directory.
type harness struct {
	t   *testing.T
	dir string
	db  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })
	return &harness{t: t, dir: dir, db: filepath.Join(dir, "graph.db")}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--db", h.db}, args...))
	err := root.Execute()
	return buf.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "litegraph %v", args)
	return out
}

func TestRootCommand_Help(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "litegraph")
	for _, cmd := range []string{"init", "tenant", "graph", "node", "edge", "route", "parents", "children", "neighbors", "stats", "version"} {
		assert.Contains(t, buf.String(), cmd, "root help should list %q subcommand", cmd)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--verbose", "--help"})

	err := root.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "--config")
	assert.Contains(t, buf.String(), "--db")
	assert.Contains(t, buf.String(), "--verbose")
	assert.Contains(t, buf.String(), "--output")
}

func TestSQLiteBackendRegistered(t *testing.T) {
	assert.Contains(t, store.Backends(), "sqlite")

	h := newHarness(t)
	out := h.mustRun("-o", "json", "tenant", "list")
	assert.Equal(t, "[]\n", out)
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("version")
	assert.Contains(t, out, "litegraph dev")
}

func TestRootCommand_UnknownOutputFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("--output", "xml", "version")
	require.Error(t, err)
	assert.True(t, lgerr.HasCode(err, lgerr.CodeCLIInputInvalid))
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("--config", filepath.Join(h.dir, "missing.yaml"), "tenant", "list")
	require.Error(t, err)
	assert.True(t, lgerr.HasCode(err, lgerr.CodeConfigLoadReadFailure))
}

func TestRootCommand_EnvSelectsDatabase(t *testing.T) {
	h := newHarness(t)
	envDB := filepath.Join(h.dir, "env.db")
	t.Setenv("LITEGRAPH_STORAGE_PATH", envDB)

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"tenant", "create", "--guid", "t-1"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(envDB)
	require.NoError(t, err)
}

func TestInitCommand(t *testing.T) {
	h := newHarness(t)
	cfgPath := filepath.Join(h.dir, "conf", "litegraph.yaml")

	out := h.mustRun("init", "--config", cfgPath)
	assert.Contains(t, out, "Wrote config to "+cfgPath)
	assert.Contains(t, out, "Database ready at "+h.db)

	_, err := os.Stat(cfgPath)
	require.NoError(t, err)
	_, err = os.Stat(h.db)
	require.NoError(t, err)

	out = h.mustRun("init", "--config", cfgPath)
	assert.Contains(t, out, "already exists")

	out = h.mustRun("init", "--config", cfgPath, "--force")
	assert.Contains(t, out, "Wrote config")
}

func TestInitCommand_DefaultLocation(t *testing.T) {
	h := newHarness(t)
	h.mustRun("init")

	_, err := os.Stat(filepath.Join(h.dir, ".config", "litegraph", "litegraph.yaml"))
	require.NoError(t, err)

	// The bootstrapped file is picked up by later commands.
	h.mustRun("tenant", "list")
}
