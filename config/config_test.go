package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
dataRoot: /var/lib/objectbase
logLevel: debug
defaultStorage: bbolt
compress: true
classes:
  person:
    path: /srv/people.table
    storage: filetable
    format: cbor
  invoice:
    compress: false
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objectbase.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/objectbase", cfg.DataRoot)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultFormat, cfg.DefaultFormat, "default kept")
	assert.Equal(t, DefaultCacheSize, cfg.CacheSize, "default kept")

	person := cfg.Class("person")
	assert.Equal(t, "/srv/people.table", person.Path)
	assert.Equal(t, "filetable", person.Storage)
	assert.Equal(t, "cbor", person.Format)
	assert.True(t, *person.Compress)

	invoice := cfg.Class("invoice")
	assert.Empty(t, invoice.Path)
	assert.Equal(t, "bbolt", invoice.Storage)
	assert.Equal(t, "json", invoice.Format)
	assert.False(t, *invoice.Compress)

	assert.Equal(t,
		filepath.Join("/var/lib/objectbase", "databases", "invoice.bbolt"),
		cfg.DefaultDatabasePath("invoice", invoice.Storage),
	)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OBJECTBASE_DATA_ROOT", "/tmp/objectbase")
	t.Setenv("OBJECTBASE_FORMAT", "msgpack")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/objectbase", cfg.DataRoot)
	assert.Equal(t, "msgpack", cfg.DefaultFormat)
	assert.Equal(t, DefaultStorage, cfg.DefaultStorage)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []func(*Config){
		func(c *Config) { c.DataRoot = "" },
		func(c *Config) { c.LogLevel = "loud" },
		func(c *Config) { c.PkgLogLevels = "filetable" },
		func(c *Config) { c.DefaultStorage = "" },
		func(c *Config) { c.DefaultFormat = "xml" },
		func(c *Config) { c.CacheSize = -1 },
		func(c *Config) { c.Classes = map[string]ClassConfig{"person": {Format: "xml"}} },
	}

	for i, modify := range tests {
		cfg := Default()
		modify(cfg)
		err := cfg.Validate()
		var ive *InvalidValueError
		assert.ErrorAs(t, err, &ive, "case %d", i)
	}

	require.NoError(t, Default().Validate())
}

func TestSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := Default()
	cfg.Classes = map[string]ClassConfig{"person": {Storage: "badger"}}
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
