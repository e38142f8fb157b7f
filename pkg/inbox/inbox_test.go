package inbox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-report-service/pkg/common"
)

func TestFileDrop_Store(t *testing.T) {
	common.SetTestLoggerNop()

	dir := filepath.Join(t.TempDir(), "inbox")
	drop := NewFileDrop(dir)

	path, err := drop.Store("weather.sqlite", strings.NewReader("SQLite format 3\x00"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_weather.sqlite"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SQLite format 3\x00", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileDrop_SameNameTwice(t *testing.T) {
	common.SetTestLoggerNop()

	drop := NewFileDrop(t.TempDir())
	first, err := drop.Store("a.db", strings.NewReader("1"))
	require.NoError(t, err)
	second, err := drop.Store("a.db", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestFileDrop_StripsDirectories(t *testing.T) {
	common.SetTestLoggerNop()

	dir := t.TempDir()
	drop := NewFileDrop(dir)

	for _, name := range []string{"../../etc/passwd", `C:\temp\x.db`, ""} {
		path, err := drop.Store(name, strings.NewReader("x"))
		require.NoError(t, err, name)
		assert.Equal(t, dir, filepath.Dir(path), name)
	}
}

func TestFileDrop_Empty(t *testing.T) {
	common.SetTestLoggerNop()

	dir := t.TempDir()
	_, err := NewFileDrop(dir).Store("a.db", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyUpload)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
