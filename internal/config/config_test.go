package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, info, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.False(t, info.Found)
	assert.Equal(t, DefaultConfig().Targets, cfg.Targets)
	assert.Equal(t, ":memory:", cfg.Data.DBPath)
}

func TestLoadFile_Sections(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000

[targets]
target_pct = 1.5
area_ceiling = 80.0
area_ceiling_enabled = false
occurrence_ceiling = 4
occurrence_ceiling_enabled = true

[columns.producao]
team = ["grupo", "equipe"]

[export]
filename = "saida.xlsx"
`)
	cfg, info, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, info.Found)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 1.5, cfg.Targets.TargetPct)
	assert.False(t, cfg.Targets.AreaCeilingEnabled)
	assert.Equal(t, 4, cfg.Targets.OccurrenceCeiling)
	assert.Equal(t, []string{"grupo", "equipe"}, cfg.Columns["producao"]["team"])
	assert.Equal(t, "saida.xlsx", cfg.Export.Filename)
	// untouched sections keep defaults
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile_InvalidTarget(t *testing.T) {
	path := writeConfig(t, "[targets]\ntarget_pct = 9.0\n")
	_, _, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("RETIDOS_PORT", "7777")
	t.Setenv("RETIDOS_DB_PATH", "/tmp/retidos.db")

	cfg, info, err := LoadFile(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.Port)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, "/tmp/retidos.db", cfg.Data.DBPath)

	t.Setenv("RETIDOS_PORT", "abc")
	_, _, err = LoadFile(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := DefaultConfig()
	cfg.Server.Port = 1234
	require.NoError(t, SaveConfig(cfg, path))

	loaded, _, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1234, loaded.Server.Port)
}
