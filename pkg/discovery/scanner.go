package discovery

import (
	"context"

	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
)

// Scanner discovers call sites of one call-style family.
type Scanner interface {
	// Name identifies the scanner in diagnostics and notes.
	Name() string

	// Supports reports whether the scanner applies to the project.
	Supports(p *project.Project) bool

	// Discover scans the project and returns a partial discovery fragment.
	// It must never mutate project files.
	Discover(ctx context.Context, p *project.Project) (*spec.DiscoveryResult, error)
}

// DefaultScanners returns the built-in scanner set in registration order.
func DefaultScanners() []Scanner {
	return []Scanner{
		NewFetchScanner(),
		NewAxiosScanner(),
		NewGraphQLScanner(),
	}
}
