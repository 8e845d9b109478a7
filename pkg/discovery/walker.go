package discovery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// maxScanWorkers bounds concurrent file parsing per scanner.
const maxScanWorkers = 8

// sourceExtensions are the file extensions scanners consider.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
	".mjs": true,
	".cjs": true,
	".vue": true,
}

// defaultExcludes skips dependency, build, and test directories.
var defaultExcludes = []string{
	"node_modules/**",
	"dist/**",
	"build/**",
	"out/**",
	"coverage/**",
	".next/**",
	".nuxt/**",
	".sandbox/**",
	"**/__tests__/**",
	"**/__mocks__/**",
	"**/*.test.*",
	"**/*.spec.*",
	"**/*.d.ts",
}

// ListSourceFiles walks root and returns the relative paths of all source
// files a scanner should parse, sorted for stable output.
func ListSourceFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, the scan of the rest continues.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || excluded(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		if !sourceExtensions[filepath.Ext(path)] || excluded(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func excluded(rel string) bool {
	for _, pattern := range defaultExcludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// fileVisit is one source file handed to a scan function.
type fileVisit struct {
	// Rel is the path relative to the project root, slash-separated.
	Rel string
	// Source is the file content.
	Source string
}

// scanFiles reads every source file under root concurrently and calls visit
// for each. Reads are bounded by maxScanWorkers; per-file read failures are
// reported through the notes callback and do not abort the scan.
func scanFiles(ctx context.Context, root string, visit func(fileVisit), note func(string)) error {
	files, err := ListSourceFiles(root)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxScanWorkers)

	for _, rel := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				note("unreadable file " + rel + ": " + err.Error())
				return nil
			}
			visit(fileVisit{Rel: rel, Source: string(data)})
			return nil
		})
	}

	return g.Wait()
}
