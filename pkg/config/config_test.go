package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockbox/pkg/mockgen"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))
	return root
}

func TestLoadFromRoot(t *testing.T) {
	root := writeConfig(t, `
ai:
  provider: ollama
  model: llama3.2
  timeoutSeconds: 30
sandbox:
  provider: noop
  appPort: 3000
  mockPort: 4000
  latencyMinMs: 50
  latencyMaxMs: 150
generation:
  seed: 42
  maxDepth: 3
`)

	f, err := LoadFromRoot(root)
	require.NoError(t, err)

	assert.Equal(t, "ollama", f.AI.Provider)
	assert.Equal(t, 30*time.Second, f.AIProviderConfig().Timeout)

	opts := f.SandboxOptions()
	assert.Equal(t, 3000, opts.AppPort)
	assert.Equal(t, 4000, opts.MockPort)
	assert.Equal(t, 50*time.Millisecond, opts.LatencyMin)

	gen, err := f.MockgenOptions()
	require.NoError(t, err)
	assert.Equal(t, int64(42), gen.Seed)
	assert.Equal(t, 3, gen.MaxDepth)
}

func TestLoadFromRootMissingFileDefaults(t *testing.T) {
	f, err := LoadFromRoot(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestUnknownFieldRejected(t *testing.T) {
	root := writeConfig(t, "sandbox:\n  portt: 4000\n")
	_, err := LoadFromRoot(root)
	assert.Error(t, err)
}

func TestValidateRejectsBadPort(t *testing.T) {
	f := Default()
	f.Sandbox.MockPort = 70000
	assert.Error(t, f.Validate())
}

func TestValidateRejectsInvertedLatency(t *testing.T) {
	f := Default()
	f.Sandbox.LatencyMinMS = 300
	f.Sandbox.LatencyMaxMS = 100
	assert.Error(t, f.Validate())
}

func TestValidateRejectsUnknownProviders(t *testing.T) {
	f := Default()
	f.Sandbox.Provider = "k8s"
	assert.Error(t, f.Validate())

	f = Default()
	f.AI.Provider = "hal9000"
	assert.Error(t, f.Validate())
}

func TestCompileOverrides(t *testing.T) {
	t.Setenv("MOCKBOX_TEST_ROLE", "admin")

	f := Default()
	f.Generation.Overrides = map[string]string{
		"/user/role":  `env["MOCKBOX_TEST_ROLE"]`,
		"/item/price": `19.99`,
		"/active":     `true`,
	}

	overrides, err := f.CompileOverrides()
	require.NoError(t, err)
	require.Len(t, overrides, 3)

	role := overrides["/user/role"].(mockgen.OverrideFunc)
	assert.Equal(t, "admin", role())

	price := overrides["/item/price"].(mockgen.OverrideFunc)
	assert.Equal(t, 19.99, price())

	active := overrides["/active"].(mockgen.OverrideFunc)
	assert.Equal(t, true, active())
}

func TestCompileOverridesBadExpression(t *testing.T) {
	f := Default()
	f.Generation.Overrides = map[string]string{"/x": `env[`}
	_, err := f.CompileOverrides()
	assert.Error(t, err)
}

func TestCompileOverridesBadPath(t *testing.T) {
	f := Default()
	f.Generation.Overrides = map[string]string{"x": `1`}
	_, err := f.CompileOverrides()
	assert.Error(t, err)
}
