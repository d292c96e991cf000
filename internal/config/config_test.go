package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  url: http://localhost:8080\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Server.URL)
	assert.Equal(t, "agent", cfg.Session.Command)
	assert.NotEmpty(t, cfg.State.Path)
}

func TestLoad_ExplicitSession(t *testing.T) {
	path := writeConfig(t, `
server:
  url: http://localhost:8080
session:
  command: claude
  args: ["--continue"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "claude", cfg.Session.Command)
	assert.Equal(t, []string{"--continue"}, cfg.Session.Args)
}

func TestLoad_MissingServerURL(t *testing.T) {
	path := writeConfig(t, "session:\n  command: agent\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.url")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "server: [oops\n")
	_, err := Load(path)
	require.Error(t, err)
}
