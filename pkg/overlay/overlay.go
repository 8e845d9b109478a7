// Package overlay writes framework-specific dev-server configuration into
// the project's sandbox directory, routing relative API base paths to the
// mock server. The project's own source tree is never modified.
package overlay

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/getmockd/mockbox/pkg/logging"
	"github.com/getmockd/mockbox/pkg/project"
)

// DirName is the overlay directory under <project>/.sandbox/.
const DirName = "overlay"

// Config carries what an overlay needs to route API traffic.
type Config struct {
	// MockPort is the port the mock server listens on.
	MockPort int

	// BasePaths are the relative API prefixes to proxy. Absolute base
	// URLs are filtered out by Apply; an empty list defaults to "/api".
	BasePaths []string
}

// Writer writes a dev-server overlay for one framework.
type Writer interface {
	// Framework returns the project.Framework* identifier this writer
	// serves.
	Framework() string

	// WriteOverlay writes the overlay files into dir and returns the
	// paths written.
	WriteOverlay(dir string, cfg Config) ([]string, error)
}

// DefaultWriters returns the built-in overlay registry.
func DefaultWriters() []Writer {
	return []Writer{
		&ViteWriter{},
		&NextWriter{},
	}
}

// Apply selects a writer by the project's framework and writes its overlay
// under <project>/.sandbox/overlay/. An unmatched framework is not an
// error: it returns no paths and writes nothing.
func Apply(p *project.Project, writers []Writer, cfg Config, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = logging.Nop()
	}

	var w Writer
	for _, cand := range writers {
		if cand.Framework() == p.Framework {
			w = cand
			break
		}
	}
	if w == nil {
		log.Debug("no overlay writer for framework", "framework", p.Framework)
		return nil, nil
	}

	cfg.BasePaths = relativeBasePaths(cfg.BasePaths)

	dir := filepath.Join(p.Root, ".sandbox", DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create overlay directory: %w", err)
	}

	paths, err := w.WriteOverlay(dir, cfg)
	if err != nil {
		return nil, fmt.Errorf("write %s overlay: %w", w.Framework(), err)
	}
	log.Info("overlay written", "framework", p.Framework, "files", len(paths))
	return paths, nil
}

// relativeBasePaths keeps only proxyable relative prefixes, defaulting to
// /api when nothing usable remains.
func relativeBasePaths(bases []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, b := range bases {
		if b == "" || !strings.HasPrefix(b, "/") {
			continue
		}
		b = strings.TrimSuffix(b, "/")
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	if len(out) == 0 {
		out = []string{"/api"}
	}
	return out
}
