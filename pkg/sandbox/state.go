package sandbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/getmockd/mockbox/internal/id"
)

// StateFileName records a running sandbox for out-of-process status and
// teardown queries.
const StateFileName = "state.json"

// State is the small JSON record persisted while a sandbox runs.
type State struct {
	RunID     string    `json:"runId"`
	Provider  string    `json:"provider"`
	AppURL    string    `json:"appUrl"`
	MockURL   string    `json:"mockUrl"`
	StartedAt time.Time `json:"startedAt"`
}

// NewState builds a record for a freshly started sandbox, tagged with a
// short run id.
func NewState(provider, appURL, mockURL string) *State {
	return &State{
		RunID:     id.Short(),
		Provider:  provider,
		AppURL:    appURL,
		MockURL:   mockURL,
		StartedAt: time.Now().UTC(),
	}
}

// Save writes the state record into the sandbox directory.
func (s *State) Save(sandboxDir string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(sandboxDir, StateFileName), data, 0o644)
}

// LoadState reads the state record; a missing file means nothing runs.
func LoadState(sandboxDir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(sandboxDir, StateFileName))
	if err != nil {
		return nil, err
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sandbox state: %w", err)
	}
	return &s, nil
}

// RemoveState deletes the state record. A missing file is not an error.
func RemoveState(sandboxDir string) {
	_ = os.Remove(filepath.Join(sandboxDir, StateFileName))
}
