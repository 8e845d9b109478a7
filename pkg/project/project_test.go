package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, pkgJSON string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkgJSON), 0o644))
	return dir
}

func TestDetectVite(t *testing.T) {
	t.Setenv("PORT", "")
	dir := writeProject(t, `{
		"name": "shop-frontend",
		"scripts": {"dev": "vite"},
		"devDependencies": {"vite": "^5.0.0"}
	}`)

	p, err := Detect(dir)
	require.NoError(t, err)

	assert.Equal(t, "shop-frontend", p.Name)
	assert.Equal(t, FrameworkVite, p.Framework)
	assert.Equal(t, 5173, p.DevPort)
	assert.Equal(t, "npm run dev", p.DevCommand)
}

func TestDetectNextBeatsVite(t *testing.T) {
	t.Setenv("PORT", "")
	dir := writeProject(t, `{
		"dependencies": {"next": "14.0.0"},
		"devDependencies": {"vite": "^5.0.0"},
		"scripts": {"dev": "next dev"}
	}`)

	p, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, FrameworkNext, p.Framework)
	assert.Equal(t, 3000, p.DevPort)
}

func TestDetectUnknownFramework(t *testing.T) {
	dir := writeProject(t, `{"dependencies": {"lodash": "4.0.0"}}`)

	p, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, FrameworkUnknown, p.Framework)
}

func TestDetectNameFallsBackToDirectory(t *testing.T) {
	dir := writeProject(t, `{}`)

	p, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), p.Name)
}

func TestDetectMissingPackageJSON(t *testing.T) {
	_, err := Detect(t.TempDir())
	require.Error(t, err)

	var de *DetectionError
	assert.ErrorAs(t, err, &de)
}

func TestDetectEnvPortOverride(t *testing.T) {
	t.Setenv("PORT", "4000")
	dir := writeProject(t, `{"devDependencies": {"vite": "^5.0.0"}}`)

	p, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, 4000, p.DevPort)
}

func TestMergedEnvLayering(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("API_URL=https://base.example.com\nSHARED=from-env\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("SHARED=from-local\n"), 0o644))

	env := MergedEnv(dir)
	assert.Equal(t, "https://base.example.com", env["API_URL"])
	assert.Equal(t, "from-local", env["SHARED"])
}

func TestMergedEnvProcessWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MOCKBOX_TEST_VAR=file\n"), 0o644))
	t.Setenv("MOCKBOX_TEST_VAR", "process")

	env := MergedEnv(dir)
	assert.Equal(t, "process", env["MOCKBOX_TEST_VAR"])
}
