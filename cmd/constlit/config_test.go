package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"constlit/internal/driver"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDiscoversUpwards(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, `
[check]
jobs = 3
max_diagnostics = 20
cache = false

[policy]
allow_const_locals_in_literals = false

[prelude]
names = ["Widget", "State"]
`)
	nested := filepath.Join(root, "lib", "src")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, path, err := loadConfig("", nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)

	opts := driver.DefaultOptions()
	useCache := cfg.apply(&opts)
	assert.False(t, useCache)
	assert.Equal(t, 3, opts.Jobs)
	assert.Equal(t, 20, opts.MaxDiagnostics)
	assert.False(t, opts.Policy.AllowConstLocalsInLiterals)
	assert.Equal(t, []string{"Widget", "State"}, opts.Prelude)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, path, err := loadConfig("", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)

	opts := driver.DefaultOptions()
	assert.True(t, cfg.apply(&opts))
	assert.True(t, opts.Policy.AllowConstLocalsInLiterals)
	assert.Zero(t, opts.Jobs)
	assert.Empty(t, opts.Prelude)
}

func TestLoadConfigRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{name: "syntax", content: "[check\n", errPart: "failed to parse TOML"},
		{name: "unknown key", content: "[check]\nworkers = 2\n", errPart: "unknown keys: check.workers"},
		{name: "negative jobs", content: "[check]\njobs = -1\n", errPart: "check.jobs"},
		{name: "empty prelude name", content: "[prelude]\nnames = [\" \"]\n", errPart: "empty name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, got, err := loadConfig(path, "")
			require.Error(t, err)
			assert.Equal(t, path, got)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
