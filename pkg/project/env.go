package project

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// envFiles are merged in order; later files win, the process environment
// wins over all of them.
var envFiles = []string{".env", ".env.development", ".env.local"}

// MergedEnv builds the environment map scanners resolve variable lookups
// against: dotenv files under root overlaid with the process environment.
func MergedEnv(root string) map[string]string {
	env := make(map[string]string)

	for _, name := range envFiles {
		vars, err := godotenv.Read(filepath.Join(root, name))
		if err != nil {
			continue
		}
		for k, v := range vars {
			env[k] = v
		}
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return env
}

// envPort extracts a dev-server port override from the merged environment.
func envPort(env map[string]string) (int, bool) {
	for _, key := range []string{"PORT", "VITE_PORT", "DEV_PORT"} {
		if raw, ok := env[key]; ok {
			if port, err := strconv.Atoi(raw); err == nil && port > 0 {
				return port, true
			}
		}
	}
	return 0, false
}
