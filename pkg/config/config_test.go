package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, int32(5), cfg.PG.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.PG.QueryTimeout)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "restab.yaml")
	content := `
server:
  listenAddr: ":9090"
pg:
  connString: "postgres://localhost/testdb"
  maxConns: 10
  queryTimeout: 5s
metrics:
  enabled: true
  addr: ":9101"
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))

	cfg, err := Load(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.ListenAddr)
	assert.Equal(t, "postgres://localhost/testdb", cfg.PG.ConnString)
	assert.Equal(t, int32(10), cfg.PG.MaxConns)
	assert.Equal(t, 5*time.Second, cfg.PG.QueryTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9101", cfg.Metrics.Addr)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "restab.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("pg:\n  connString: \"postgres://localhost/db\"\n"), 0o600))

	cfg, err := Load(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/db", cfg.PG.ConnString)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, int32(5), cfg.PG.MaxConns)
}
