package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/getmockd/mockbox/pkg/spec"
)

// Filesystem layout under the project root.
const (
	SandboxDirName    = ".sandbox"
	MockServerDirName = "mock-server"
	SpecFileName      = "mock-spec.json"
	ManifestFileName  = "manifest.json"
)

// Defaults for the generated mock server.
const (
	DefaultPort       = 4000
	DefaultLatencyMin = 100 * time.Millisecond
	DefaultLatencyMax = 300 * time.Millisecond
)

// Options configure the generated artifact.
type Options struct {
	// Port is the mock server listen port.
	Port int

	// LatencyMin and LatencyMax bound the randomized per-response delay.
	LatencyMin time.Duration
	LatencyMax time.Duration
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.LatencyMin == 0 && o.LatencyMax == 0 {
		o.LatencyMin = DefaultLatencyMin
		o.LatencyMax = DefaultLatencyMax
	}
	return o
}

// Manifest is the metadata persisted next to the mock spec; it is
// sufficient to run the mock server standalone.
type Manifest struct {
	SpecID       string    `json:"specId"`
	SpecFile     string    `json:"specFile"`
	Port         int       `json:"port"`
	LatencyMinMS int       `json:"latencyMinMs"`
	LatencyMaxMS int       `json:"latencyMaxMs"`
	RESTCount    int       `json:"restCount"`
	GraphQLCount int       `json:"graphqlCount"`
	WrittenAt    time.Time `json:"writtenAt"`
}

// LatencyWindow returns the configured delay bounds.
func (m *Manifest) LatencyWindow() (min, max time.Duration) {
	return time.Duration(m.LatencyMinMS) * time.Millisecond,
		time.Duration(m.LatencyMaxMS) * time.Millisecond
}

// Dir returns the mock-server artifact directory for a project root.
func Dir(projectRoot string) string {
	return filepath.Join(projectRoot, SandboxDirName, MockServerDirName)
}

// Write validates the MockSpec and persists it with a manifest under the
// project's sandbox directory. Re-running with the same spec overwrites
// both files deterministically.
func Write(projectRoot string, ms *spec.MockSpec, opts Options) (*Manifest, error) {
	if err := Validate(ms); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	dir := Dir(projectRoot)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	specJSON, err := json.MarshalIndent(ms, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal mock spec: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SpecFileName), specJSON, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", SpecFileName, err)
	}

	manifest := &Manifest{
		SpecID:       ms.Meta.ID,
		SpecFile:     SpecFileName,
		Port:         opts.Port,
		LatencyMinMS: int(opts.LatencyMin / time.Millisecond),
		LatencyMaxMS: int(opts.LatencyMax / time.Millisecond),
		RESTCount:    len(ms.REST),
		GraphQLCount: len(ms.GraphQL),
		WrittenAt:    time.Now().UTC(),
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), manifestJSON, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", ManifestFileName, err)
	}

	return manifest, nil
}

// Load reads a previously written artifact directory back into memory.
func Load(dir string) (*Manifest, *spec.MockSpec, error) {
	manifestJSON, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestJSON, &manifest); err != nil {
		return nil, nil, fmt.Errorf("parse manifest: %w", err)
	}

	specFile := manifest.SpecFile
	if specFile == "" {
		specFile = SpecFileName
	}
	specJSON, err := os.ReadFile(filepath.Join(dir, specFile))
	if err != nil {
		return nil, nil, fmt.Errorf("read mock spec: %w", err)
	}
	var ms spec.MockSpec
	if err := json.Unmarshal(specJSON, &ms); err != nil {
		return nil, nil, fmt.Errorf("parse mock spec: %w", err)
	}
	// The file may have been hand-edited since Write; re-check it before
	// anything serves from it.
	if err := Validate(&ms); err != nil {
		return nil, nil, fmt.Errorf("invalid mock spec %s: %w", specFile, err)
	}

	return &manifest, &ms, nil
}
