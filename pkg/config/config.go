// Package config loads the optional mockbox.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockbox/pkg/ai"
	"github.com/getmockd/mockbox/pkg/mockgen"
	"github.com/getmockd/mockbox/pkg/sandbox"
)

// FileName is the configuration file looked up in the project root.
const FileName = "mockbox.yaml"

// File is the full configuration schema.
type File struct {
	AI         AIConfig         `yaml:"ai"`
	Sandbox    SandboxConfig    `yaml:"sandbox"`
	Generation GenerationConfig `yaml:"generation"`
}

// AIConfig configures the synthesis collaborator.
type AIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
	TimeoutS int    `yaml:"timeoutSeconds"`
}

// SandboxConfig configures ports, latency, and the provider.
type SandboxConfig struct {
	Provider     string `yaml:"provider"`
	AppPort      int    `yaml:"appPort"`
	MockPort     int    `yaml:"mockPort"`
	LatencyMinMS int    `yaml:"latencyMinMs"`
	LatencyMaxMS int    `yaml:"latencyMaxMs"`
}

// GenerationConfig configures deterministic mock generation. Override
// values are expressions; see CompileOverrides.
type GenerationConfig struct {
	Seed      int64             `yaml:"seed"`
	MaxDepth  int               `yaml:"maxDepth"`
	Overrides map[string]string `yaml:"overrides"`
}

// Default returns the zero-configuration default.
func Default() *File {
	return &File{}
}

// Load reads and validates a configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFromRoot loads <root>/mockbox.yaml, returning defaults when the
// file does not exist.
func LoadFromRoot(root string) (*File, error) {
	f, err := Load(filepath.Join(root, FileName))
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return f, err
}

// Validate rejects configurations the pipeline cannot run with.
func (f *File) Validate() error {
	for name, port := range map[string]int{
		"sandbox.appPort":  f.Sandbox.AppPort,
		"sandbox.mockPort": f.Sandbox.MockPort,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid configuration: %s %d out of range", name, port)
		}
	}

	if f.Sandbox.LatencyMinMS < 0 || f.Sandbox.LatencyMaxMS < 0 {
		return fmt.Errorf("invalid configuration: latency must not be negative")
	}
	if f.Sandbox.LatencyMaxMS > 0 && f.Sandbox.LatencyMinMS > f.Sandbox.LatencyMaxMS {
		return fmt.Errorf("invalid configuration: latencyMinMs %d exceeds latencyMaxMs %d",
			f.Sandbox.LatencyMinMS, f.Sandbox.LatencyMaxMS)
	}

	switch f.Sandbox.Provider {
	case "", sandbox.ProviderCompose, sandbox.ProviderNoop:
	default:
		return fmt.Errorf("invalid configuration: unknown sandbox provider %q", f.Sandbox.Provider)
	}

	switch f.AI.Provider {
	case "", ai.ProviderOllama, ai.ProviderOpenAI:
	default:
		return fmt.Errorf("invalid configuration: unknown ai provider %q", f.AI.Provider)
	}

	if f.Generation.MaxDepth < 0 {
		return fmt.Errorf("invalid configuration: generation.maxDepth must not be negative")
	}

	if _, err := f.CompileOverrides(); err != nil {
		return err
	}
	return nil
}

// AIProviderConfig converts to the ai package's configuration, or nil when
// no collaborator is configured at all.
func (f *File) AIProviderConfig() *ai.Config {
	cfg := &ai.Config{
		Provider: f.AI.Provider,
		Model:    f.AI.Model,
		Endpoint: f.AI.Endpoint,
		APIKey:   f.AI.APIKey,
	}
	if f.AI.TimeoutS > 0 {
		cfg.Timeout = time.Duration(f.AI.TimeoutS) * time.Second
	}
	return cfg
}

// SandboxOptions converts to sandbox run options.
func (f *File) SandboxOptions() sandbox.Options {
	return sandbox.Options{
		AppPort:    f.Sandbox.AppPort,
		MockPort:   f.Sandbox.MockPort,
		LatencyMin: time.Duration(f.Sandbox.LatencyMinMS) * time.Millisecond,
		LatencyMax: time.Duration(f.Sandbox.LatencyMaxMS) * time.Millisecond,
	}
}

// CompileOverrides compiles the generation override expressions. Each
// value is an expression evaluated with `env` bound to the process
// environment, so both literals (`"admin"`, `42`) and environment lookups
// (`env["USER"]`) work.
func (f *File) CompileOverrides() (map[string]any, error) {
	if len(f.Generation.Overrides) == 0 {
		return nil, nil
	}

	envMap := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	exprEnv := map[string]any{"env": envMap}

	out := make(map[string]any, len(f.Generation.Overrides))
	for path, src := range f.Generation.Overrides {
		if !strings.HasPrefix(path, "/") {
			return nil, fmt.Errorf("invalid configuration: override path %q must start with /", path)
		}

		prog, err := expr.Compile(src, expr.Env(exprEnv))
		if err != nil {
			return nil, fmt.Errorf("invalid configuration: override %s: %w", path, err)
		}

		out[path] = mockgen.OverrideFunc(func() any {
			v, err := expr.Run(prog, exprEnv)
			if err != nil {
				return nil
			}
			return v
		})
	}
	return out, nil
}

// MockgenOptions converts to generator options.
func (f *File) MockgenOptions() (mockgen.Options, error) {
	overrides, err := f.CompileOverrides()
	if err != nil {
		return mockgen.Options{}, err
	}
	return mockgen.Options{
		Seed:      f.Generation.Seed,
		MaxDepth:  f.Generation.MaxDepth,
		Overrides: overrides,
	}, nil
}
