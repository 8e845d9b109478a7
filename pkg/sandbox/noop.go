package sandbox

import (
	"context"
	"log/slog"

	"github.com/getmockd/mockbox/pkg/logging"
	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
)

// NoopProvider writes all static artifacts but starts nothing. It is the
// dry-run variant: Up returns immediately-resolved empty services.
type NoopProvider struct {
	log *slog.Logger
}

var _ Provider = (*NoopProvider)(nil)

// NewNoopProvider creates the dry-run provider.
func NewNoopProvider() *NoopProvider {
	return &NoopProvider{log: logging.Nop()}
}

// SetLogger sets the provider's logger.
func (p *NoopProvider) SetLogger(log *slog.Logger) { p.log = log }

func (p *NoopProvider) Name() string { return ProviderNoop }

// Prepare writes the artifact and overlay only; there is no descriptor.
func (p *NoopProvider) Prepare(ctx context.Context, proj *project.Project, ms *spec.MockSpec, opts Options) (*Plan, error) {
	return prepareCommon(ProviderNoop, proj, ms, opts, p.log)
}

// Up starts nothing and resolves immediately.
func (p *NoopProvider) Up(ctx context.Context, plan *Plan) (*RunningServices, error) {
	state := NewState(ProviderNoop, plan.AppURL, plan.MockURL)
	if err := state.Save(plan.SandboxDir); err != nil {
		p.log.Warn("could not persist sandbox state", "error", err)
	}

	return NewRunningServices(plan.AppURL, plan.MockURL, func() error {
		RemoveState(plan.SandboxDir)
		return nil
	}), nil
}
