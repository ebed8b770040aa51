package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yunae/gamedash/config"
)

func TestOpen_SQLite(t *testing.T) {
	gdb, err := Open(config.DatabaseConfig{
		Mode:       ModeSQLite,
		SQLitePath: "file::memory:",
	})
	require.NoError(t, err)
	assert.NotNil(t, gdb)
}

func TestOpen_UnknownMode(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Mode: "oracle"})
	assert.Error(t, err)
}
