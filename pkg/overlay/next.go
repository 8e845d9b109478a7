package overlay

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getmockd/mockbox/pkg/project"
)

// NextFileName is the overlay config consumed by the Next.js dev server.
const NextFileName = "next.sandbox.config.mjs"

// NextWriter emits a Next.js config whose rewrites route API base paths
// to the mock server.
type NextWriter struct{}

var _ Writer = (*NextWriter)(nil)

func (w *NextWriter) Framework() string { return project.FrameworkNext }

func (w *NextWriter) WriteOverlay(dir string, cfg Config) ([]string, error) {
	var rewrites strings.Builder
	for i, base := range cfg.BasePaths {
		if i > 0 {
			rewrites.WriteString(",\n")
		}
		fmt.Fprintf(&rewrites, "      { source: '%s/:path*', destination: 'http://localhost:%d%s/:path*' }",
			base, cfg.MockPort, base)
	}

	content := fmt.Sprintf(`// Sandbox overlay: rewrites API calls to the mock server.
/** @type {import('next').NextConfig} */
const nextConfig = {
  async rewrites() {
    return [
%s
    ];
  },
};

export default nextConfig;
`, rewrites.String())

	path := filepath.Join(dir, NextFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{path}, nil
}
