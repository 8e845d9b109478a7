package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getmockd/mockbox/pkg/logging"
	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
)

// Aggregator runs every applicable scanner and merges their fragments into
// one DiscoveryResult.
type Aggregator struct {
	scanners []Scanner
	log      *slog.Logger
}

// NewAggregator creates an aggregator over the given scanners. A nil logger
// is replaced with a no-op.
func NewAggregator(scanners []Scanner, log *slog.Logger) *Aggregator {
	return &Aggregator{scanners: scanners, log: logging.Component(log, "discovery")}
}

// Discover runs each scanner whose Supports returns true. A scanner failure
// is recorded as a note and does not prevent other scanners from
// contributing. The merged result has no duplicate identity keys; the first
// occurrence wins.
func (a *Aggregator) Discover(ctx context.Context, p *project.Project) (*spec.DiscoveryResult, error) {
	merged := spec.NewDiscoveryResult()

	for _, sc := range a.scanners {
		if !sc.Supports(p) {
			a.log.Debug("scanner skipped", "scanner", sc.Name())
			continue
		}

		fragment, err := a.runScanner(ctx, sc, p)
		if err != nil {
			a.log.Warn("scanner failed", "scanner", sc.Name(), "error", err)
			merged.AddNote(fmt.Sprintf("scanner %s failed: %v", sc.Name(), err))
			continue
		}

		a.log.Debug("scanner finished",
			"scanner", sc.Name(),
			"rest", len(fragment.REST),
			"graphql", len(fragment.GraphQL))
		merged.Merge(fragment)
	}

	return merged, nil
}

// runScanner isolates one scanner invocation, converting panics into errors
// so a misbehaving scanner cannot take down the aggregate run.
func (a *Aggregator) runScanner(ctx context.Context, sc Scanner, p *project.Project) (result *spec.DiscoveryResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return sc.Discover(ctx, p)
}
