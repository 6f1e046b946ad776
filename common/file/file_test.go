package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, Write("", nil), errEmptyPath)

	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, Write(path, []byte("{}")))
	assert.True(t, Exists(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestExists(t *testing.T) {
	t.Parallel()
	assert.False(t, Exists(filepath.Join(t.TempDir(), "missing")))
	assert.True(t, Exists(t.TempDir()))
}
