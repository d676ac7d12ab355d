package simulate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrace(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFilesProcessesAllTracesIndependently(t *testing.T) {
	dir := t.TempDir()
	a := writeTrace(t, dir, "a.trace", "100,1000\n100,1008\n100,1016\n")
	b := writeTrace(t, dir, "b.trace", "200,2000\n200,2008\n")

	results := RunFiles([]string{a, b}, Config{NumWorkers: 2, CacheCapacity: 64})

	require.Len(t, results, 2)
	assert.Equal(t, a, results[0].Path)
	assert.Equal(t, b, results[1].Path)
	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 3, results[0].Summary.DemandAccesses)
	assert.Equal(t, 2, results[1].Summary.DemandAccesses)
}

func TestRunFilesReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeTrace(t, dir, "bad.trace", "not-a-valid-line\n")

	results := RunFiles([]string{bad}, Config{NumWorkers: 1})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
