package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getmockd/mockbox/pkg/project"
)

// ViteFileName is the overlay config consumed via `vite --config`.
const ViteFileName = "vite.sandbox.config.mjs"

// ViteWriter emits a Vite config that proxies API base paths to the mock
// server through the dev server's proxy table.
type ViteWriter struct{}

var _ Writer = (*ViteWriter)(nil)

func (w *ViteWriter) Framework() string { return project.FrameworkVite }

func (w *ViteWriter) WriteOverlay(dir string, cfg Config) ([]string, error) {
	var proxies strings.Builder
	for _, base := range cfg.BasePaths {
		fmt.Fprintf(&proxies, "      %q: { target: 'http://localhost:%d', changeOrigin: true },\n", base, cfg.MockPort)
	}

	content := fmt.Sprintf(`import { defineConfig } from 'vite';

// Sandbox overlay: passed via --config so the dev server routes API
// calls to the mock server instead of the real backend.
export default defineConfig({
  server: {
    proxy: {
%s    },
  },
});
`, proxies.String())

	path := filepath.Join(dir, ViteFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{path}, nil
}
