package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odict.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
format = "yaml"
debug = true

[database]
host = "db"
password = "secret"
sslmode = "disable"
`), 0o600))

	config := NewConfig()
	require.NoError(t, config.Load(path))

	assert.Equal(t, "yaml", config.Format)
	assert.True(t, config.Debug)
	assert.Equal(t, "db", config.Database.Host)
	assert.Equal(t, 5432, config.Database.Port)
	assert.Equal(t, "postgres://postgres:secret@db:5432/odict?sslmode=disable", config.Database.ConnectionString())
}

func TestConfigLoadMissing(t *testing.T) {
	err := NewConfig().Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestConfigLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("format = ["), 0o600))

	assert.Error(t, NewConfig().Load(path))
}
