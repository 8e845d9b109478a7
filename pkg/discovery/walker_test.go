package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestListSourceFilesFiltersAndSorts(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/b.ts":                  "",
		"src/a.jsx":                 "",
		"src/styles.css":            "",
		"src/types.d.ts":            "",
		"node_modules/x/index.js":   "",
		"dist/bundle.js":            "",
		".git/hooks/pre-commit.js":  "",
		"src/__tests__/a.test.js":   "",
		"src/components/card.test.tsx": "",
	})

	files, err := ListSourceFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.jsx", "src/b.ts"}, files)
}

func TestScanFilesVisitsEveryFile(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/a.js": "alpha",
		"src/b.js": "beta",
	})

	seen := map[string]string{}
	err := scanFiles(context.Background(), dir, func(f fileVisit) {
		seen[f.Rel] = f.Source
	}, func(string) {})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"src/a.js": "alpha", "src/b.js": "beta"}, seen)
}
