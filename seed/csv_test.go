package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVRows_MissingFileIsEmpty(t *testing.T) {
	rows, err := ReadCSVRows(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestReadCSVRows_HeaderMapAndTrim(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.csv",
		"Title, Counts ,GameDB\n젬, 1200 ,원신\n")
	rows, err := ReadCSVRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "젬", rows[0]["Title"])
	assert.Equal(t, "1200", rows[0]["Counts"])
	assert.Equal(t, "원신", rows[0]["GameDB"])
}

func TestReadCSVRows_StripsBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.csv",
		"\uFEFFTitle,GameDB\n젬,원신\n")
	rows, err := ReadCSVRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "젬", rows[0]["Title"])
}

func TestReadCSVRows_SkipsBlankRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.csv",
		"Title,GameDB\n젬,원신\n,\n골드,원신\n")
	rows, err := ReadCSVRows(path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestReadCSVRows_ShortRecordPadsEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.csv",
		"Title,GameDB,Memo\n젬,원신\n")
	rows, err := ReadCSVRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["Memo"])
}
