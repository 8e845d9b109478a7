package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Framework identifiers used to select sandbox overlays.
const (
	FrameworkVite    = "vite"
	FrameworkNext    = "next"
	FrameworkCRA     = "create-react-app"
	FrameworkUnknown = "unknown"
)

// PackageJSON represents a standard package.json file.
type PackageJSON struct {
	// Name is the name of the project.
	Name string `json:"name"`
	// Version is the version of the project.
	Version string `json:"version"`
	// Scripts maps script names to shell commands.
	Scripts map[string]string `json:"scripts"`
	// Dependencies are the packages required for production.
	Dependencies map[string]string `json:"dependencies"`
	// DevDependencies are the packages required for development and testing.
	DevDependencies map[string]string `json:"devDependencies"`
}

// Project is a detected frontend project. It is read-only input for the rest
// of the pipeline; nothing under Root is ever modified except the isolated
// .sandbox directory.
type Project struct {
	// Root is the absolute project root directory.
	Root string
	// Name comes from package.json, falling back to the directory name.
	Name string
	// Framework is one of the Framework* identifiers.
	Framework string
	// Package is the parsed package.json.
	Package PackageJSON
	// Env is the merged environment visible to the project: .env files
	// overlaid by the process environment.
	Env map[string]string
	// DevPort is the framework's default dev-server port.
	DevPort int
	// DevCommand is the script used to start the dev server.
	DevCommand string
}

// DetectionError indicates the root does not look like a supported project.
// This is fatal: the pipeline cannot proceed without a project descriptor.
type DetectionError struct {
	Root string
	Err  error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("project detection failed for %s: %v", e.Root, e.Err)
}

func (e *DetectionError) Unwrap() error { return e.Err }

// Detect inspects root and returns a Project descriptor.
func Detect(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &DetectionError{Root: root, Err: err}
	}

	data, err := os.ReadFile(filepath.Join(abs, "package.json"))
	if err != nil {
		return nil, &DetectionError{Root: abs, Err: fmt.Errorf("no readable package.json: %w", err)}
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, &DetectionError{Root: abs, Err: fmt.Errorf("invalid package.json: %w", err)}
	}

	p := &Project{
		Root:    abs,
		Name:    pkg.Name,
		Package: pkg,
		Env:     MergedEnv(abs),
	}
	if p.Name == "" {
		p.Name = filepath.Base(abs)
	}

	p.Framework = detectFramework(pkg)
	p.DevPort = defaultDevPort(p.Framework)
	p.DevCommand = detectDevCommand(pkg)

	if port, ok := envPort(p.Env); ok {
		p.DevPort = port
	}

	return p, nil
}

// detectFramework classifies the project by its dependencies and scripts.
// Next is checked before Vite since Next projects occasionally carry vite
// tooling in devDependencies.
func detectFramework(pkg PackageJSON) string {
	if hasDep(pkg, "next") {
		return FrameworkNext
	}
	if hasDep(pkg, "vite") || scriptMentions(pkg, "vite") {
		return FrameworkVite
	}
	if hasDep(pkg, "react-scripts") {
		return FrameworkCRA
	}
	return FrameworkUnknown
}

func hasDep(pkg PackageJSON, name string) bool {
	if _, ok := pkg.Dependencies[name]; ok {
		return true
	}
	_, ok := pkg.DevDependencies[name]
	return ok
}

func scriptMentions(pkg PackageJSON, word string) bool {
	for _, cmd := range pkg.Scripts {
		if strings.Contains(cmd, word) {
			return true
		}
	}
	return false
}

func defaultDevPort(framework string) int {
	switch framework {
	case FrameworkVite:
		return 5173
	default:
		return 3000
	}
}

func detectDevCommand(pkg PackageJSON) string {
	for _, name := range []string{"dev", "start", "serve"} {
		if _, ok := pkg.Scripts[name]; ok {
			return "npm run " + name
		}
	}
	return "npm run dev"
}
