package sandbox

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/overlay"
	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
)

// prepareCommon writes the artifact and overlay shared by every provider
// and assembles the base plan.
func prepareCommon(name string, p *project.Project, ms *spec.MockSpec, opts Options, log *slog.Logger) (*Plan, error) {
	opts = opts.withDefaults(p)

	manifest, err := artifact.Write(p.Root, ms, artifact.Options{
		Port:       opts.MockPort,
		LatencyMin: opts.LatencyMin,
		LatencyMax: opts.LatencyMax,
	})
	if err != nil {
		return nil, &Failure{Provider: name, Op: "prepare", Err: err}
	}

	overlayFiles, err := overlay.Apply(p, overlay.DefaultWriters(), overlay.Config{
		MockPort:  opts.MockPort,
		BasePaths: ms.Meta.BaseURLs,
	}, log)
	if err != nil {
		return nil, &Failure{Provider: name, Op: "prepare", Err: err}
	}

	return &Plan{
		Provider:     name,
		ProjectRoot:  p.Root,
		SandboxDir:   filepath.Join(p.Root, artifact.SandboxDirName),
		AppURL:       fmt.Sprintf("http://localhost:%d", opts.AppPort),
		MockURL:      fmt.Sprintf("http://localhost:%d", opts.MockPort),
		OverlayFiles: overlayFiles,
		Manifest:     manifest,
	}, nil
}
