package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/sandbox"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a sandbox is running for this project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		sandboxDir := filepath.Join(root, artifact.SandboxDirName)

		state, err := sandbox.LoadState(sandboxDir)
		if err != nil {
			if os.IsNotExist(err) {
				printResult(map[string]any{"running": false}, func() {
					fmt.Println("No sandbox running.")
				})
				return nil
			}
			return err
		}

		printResult(map[string]any{
			"running":   true,
			"runId":     state.RunID,
			"provider":  state.Provider,
			"appUrl":    state.AppURL,
			"mockUrl":   state.MockURL,
			"startedAt": state.StartedAt,
		}, func() {
			fmt.Printf("Sandbox running (%s provider), up %s\n",
				state.Provider, time.Since(state.StartedAt).Round(time.Second))
			fmt.Printf("  app:  %s\n  mock: %s\n", state.AppURL, state.MockURL)
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
